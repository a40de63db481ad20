// Package gate implements the write-gate used to pause ingestion writes
// during the maintenance window.
package gate

import "sync/atomic"

// Gate is a process-wide switch controlling whether ingestion writes are
// permitted. The listener loop reads it before every message; the
// maintenance scheduler closes it for the duration of the window. Messages
// arriving while closed are dropped, not queued: the feed's source is
// offline during the aligned maintenance window so real loss is near zero.
type Gate struct {
	closed atomic.Bool
}

// New returns an open gate
func New() *Gate {
	return &Gate{}
}

// IsOpen reports whether writes are currently permitted
func (g *Gate) IsOpen() bool {
	return !g.closed.Load()
}

// Close rejects ingestion writes until Open is called
func (g *Gate) Close() {
	g.closed.Store(true)
}

// Open permits ingestion writes again
func (g *Gate) Open() {
	g.closed.Store(false)
}
