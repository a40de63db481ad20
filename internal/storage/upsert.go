package storage

import (
	"sort"
	"strings"

	"github.com/stellar-collector/internal/errors"
)

// Upsert performs an idempotent insert-or-replace of row into table. The
// statement text is built from the row's sorted field set, so rows with the
// same shape reuse the same cached prepared statement. Insert-or-replace
// fully replaces any prior row with the same primary key: callers must
// supply the complete field set, or use UpdateWhere for partial enrichment.
func (db *DB) Upsert(table string, row map[string]interface{}) error {
	keys := sortedKeys(row)

	var b strings.Builder
	b.WriteString("INSERT OR REPLACE INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(keys, ", "))
	b.WriteString(") VALUES (")
	for i := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("?")
	}
	b.WriteString(")")

	stmt, err := db.prepared(b.String())
	if err != nil {
		return errors.NewStoreWriteError(db.name, table, err)
	}

	if _, err := stmt.Exec(valuesFor(row, keys)...); err != nil {
		return errors.NewStoreWriteError(db.name, table, err)
	}

	return nil
}

// UpdateWhere performs a selective update of the fields present in row on
// the rows matching condition, leaving all other fields untouched. Used when
// a later sighting adds detail without destroying already-known fields.
// Placeholder arguments for the condition follow the row values.
func (db *DB) UpdateWhere(table string, row map[string]interface{}, condition string, conditionArgs ...interface{}) error {
	keys := sortedKeys(row)

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	for i, key := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(key)
		b.WriteString(" = ?")
	}
	b.WriteString(" WHERE ")
	b.WriteString(condition)

	stmt, err := db.prepared(b.String())
	if err != nil {
		return errors.NewStoreWriteError(db.name, table, err)
	}

	args := valuesFor(row, keys)
	args = append(args, conditionArgs...)
	if _, err := stmt.Exec(args...); err != nil {
		return errors.NewStoreWriteError(db.name, table, err)
	}

	return nil
}

// sortedKeys returns the row's field names in a deterministic order so that
// identical field sets produce identical statement text
func sortedKeys(row map[string]interface{}) []string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// valuesFor returns the row values in key order
func valuesFor(row map[string]interface{}, keys []string) []interface{} {
	values := make([]interface{}, len(keys))
	for i, key := range keys {
		values[i] = row[key]
	}
	return values
}
