// Package storage provides the embedded datastore layer: connection
// management, the generic upsert engine and the four per-domain stores.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a single SQLite database file together with its prepared
// statement cache.
type DB struct {
	name string
	sql  *sql.DB

	mu    sync.Mutex
	stmts map[string]*sql.Stmt
}

// Open opens (creating if necessary) the database at path with the pragma
// options the collector relies on: WAL journal mode for reader concurrency,
// NORMAL synchronous for write throughput, and a generous 5 second busy
// timeout to absorb rare lock contention with out-of-process maintenance
// jobs.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database %s: %w", path, err)
	}

	// SQLite is single-writer; a single connection avoids SQLITE_BUSY
	// between this process's own goroutines.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("unable to ping database %s: %w", path, err)
	}

	return &DB{
		name:  filepath.Base(path),
		sql:   db,
		stmts: make(map[string]*sql.Stmt),
	}, nil
}

// Name returns the database file name, used in log context
func (db *DB) Name() string {
	return db.name
}

// SQL returns the underlying database handle
func (db *DB) SQL() *sql.DB {
	return db.sql
}

// Exec executes a statement without caching. Used for DDL and one-off
// maintenance statements.
func (db *DB) Exec(query string, args ...interface{}) error {
	_, err := db.sql.Exec(query, args...)
	return err
}

// QueryRowInt runs a query expected to return a single integer value
func (db *DB) QueryRowInt(query string, args ...interface{}) (int64, error) {
	var n int64
	if err := db.sql.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// prepared returns a cached prepared statement for the given statement text,
// compiling and caching it on first use. The ingestion path executes
// thousands of statements per minute with a small set of distinct shapes, so
// reuse matters.
func (db *DB) prepared(stmtText string) (*sql.Stmt, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if stmt, ok := db.stmts[stmtText]; ok {
		return stmt, nil
	}

	stmt, err := db.sql.Prepare(stmtText)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare statement for %s: %w", db.name, err)
	}
	db.stmts[stmtText] = stmt

	return stmt, nil
}

// Checkpoint truncates the write-ahead log. Called during maintenance.
func (db *DB) Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
}

// Optimize runs the query planner optimization pass and a full ANALYZE.
// Only connections opened after optimization benefit fully, which is why
// services are restarted at the end of the maintenance window.
func (db *DB) Optimize() error {
	if err := db.Exec("PRAGMA optimize"); err != nil {
		return err
	}
	if err := db.Exec("PRAGMA analysis_limit=0"); err != nil {
		return err
	}
	return db.Exec("ANALYZE")
}

// BackupTo writes a compacted copy of the database to path using VACUUM
// INTO. The copy is fully optimized, which makes backup-then-restore the
// preferred optimization strategy over an in-place VACUUM.
func (db *DB) BackupTo(path string) error {
	return db.Exec(fmt.Sprintf("VACUUM INTO '%s'", path))
}

// Close finalizes cached statements and closes the database
func (db *DB) Close() error {
	db.mu.Lock()
	for _, stmt := range db.stmts {
		stmt.Close()
	}
	db.stmts = make(map[string]*sql.Stmt)
	db.mu.Unlock()

	return db.sql.Close()
}
