// Package errors defines the categorized error types used across the
// ingestion pipeline and maintenance jobs.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryMalformedPayload represents decompression or parse failures
	CategoryMalformedPayload ErrorCategory = "malformed_payload"
	// CategoryMissingField represents events lacking a required field
	CategoryMissingField ErrorCategory = "missing_field"
	// CategoryUnknownEnumerant represents unrecognized vocabulary values
	CategoryUnknownEnumerant ErrorCategory = "unknown_enumerant"
	// CategoryGateClosed represents writes rejected during maintenance
	CategoryGateClosed ErrorCategory = "gate_closed"
	// CategoryStoreWrite represents datastore write failures
	CategoryStoreWrite ErrorCategory = "store_write"
	// CategoryMaintenance represents maintenance job failures
	CategoryMaintenance ErrorCategory = "maintenance"
)

// CategorizedError represents an error with category, code and cause
type CategorizedError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Details  map[string]interface{}
	Cause    error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// NewMalformedPayloadError creates a malformed payload error
func NewMalformedPayloadError(stage string, cause error) *CategorizedError {
	return &CategorizedError{
		Category: CategoryMalformedPayload,
		Code:     "MALFORMED_PAYLOAD",
		Message:  fmt.Sprintf("failed to %s message", stage),
		Details: map[string]interface{}{
			"stage": stage,
		},
		Cause: cause,
	}
}

// NewMissingFieldError creates a missing required field error
func NewMissingFieldError(event string, field string) *CategorizedError {
	return &CategorizedError{
		Category: CategoryMissingField,
		Code:     "MISSING_FIELD",
		Message:  fmt.Sprintf("%s event missing required field '%s'", event, field),
		Details: map[string]interface{}{
			"event": event,
			"field": field,
		},
	}
}

// NewUnknownEnumerantError creates an unknown enumerant error
func NewUnknownEnumerantError(vocabulary string, value string) *CategorizedError {
	return &CategorizedError{
		Category: CategoryUnknownEnumerant,
		Code:     "UNKNOWN_ENUMERANT",
		Message:  fmt.Sprintf("unrecognized %s value '%s'", vocabulary, value),
		Details: map[string]interface{}{
			"vocabulary": vocabulary,
			"value":      value,
		},
	}
}

// NewStoreWriteError creates a datastore write error
func NewStoreWriteError(store string, table string, cause error) *CategorizedError {
	return &CategorizedError{
		Category: CategoryStoreWrite,
		Code:     "STORE_WRITE_FAILED",
		Message:  fmt.Sprintf("failed to write to %s.%s", store, table),
		Details: map[string]interface{}{
			"store": store,
			"table": table,
		},
		Cause: cause,
	}
}

// NewMaintenanceError creates a maintenance job error
func NewMaintenanceError(job string, cause error) *CategorizedError {
	return &CategorizedError{
		Category: CategoryMaintenance,
		Code:     "MAINTENANCE_FAILED",
		Message:  fmt.Sprintf("maintenance job '%s' failed", job),
		Details: map[string]interface{}{
			"job": job,
		},
		Cause: cause,
	}
}

// IsCategory reports whether err (or any error it wraps) carries the given
// category
func IsCategory(err error, category ErrorCategory) bool {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Category == category
	}
	return false
}
