package storage

import (
	"database/sql"

	"github.com/stellar-collector/internal/models"
)

const systemsSchema = `
CREATE TABLE IF NOT EXISTS systems (
	systemAddress INT PRIMARY KEY,
	systemName TEXT COLLATE NOCASE,
	systemX REAL,
	systemY REAL,
	systemZ REAL,
	systemSector STRING,
	updatedAt TEXT
)`

var systemsIndexes = []string{
	"CREATE INDEX IF NOT EXISTS systems_systemName_collate ON systems (systemName COLLATE NOCASE)",
	"CREATE INDEX IF NOT EXISTS systems_systemSector ON systems (systemSector)",
}

// SystemsStore handles star system persistence
type SystemsStore struct {
	db *DB
}

// NewSystemsStore creates a systems store and ensures its schema and
// indexes exist
func NewSystemsStore(db *DB) (*SystemsStore, error) {
	if err := db.Exec(systemsSchema); err != nil {
		return nil, err
	}
	for _, index := range systemsIndexes {
		if err := db.Exec(index); err != nil {
			return nil, err
		}
	}
	return &SystemsStore{db: db}, nil
}

// DB returns the underlying database, used by maintenance jobs
func (s *SystemsStore) DB() *DB {
	return s.db
}

// Exists reports whether a system with the given address is known
func (s *SystemsStore) Exists(systemAddress int64) (bool, error) {
	stmt, err := s.db.prepared("SELECT 1 FROM systems WHERE systemAddress = ?")
	if err != nil {
		return false, err
	}
	var one int
	err = stmt.QueryRow(systemAddress).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertIfUnknown writes a system row only if no row exists for its address.
// Identity is first-writer-wins: once a system is known, later sightings do
// not overwrite it.
func (s *SystemsStore) InsertIfUnknown(system *models.System) error {
	exists, err := s.Exists(system.SystemAddress)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.db.Upsert("systems", system.Fields())
}

// GetByAddress retrieves a system by its feed-assigned address
func (s *SystemsStore) GetByAddress(systemAddress int64) (*models.System, error) {
	stmt, err := s.db.prepared(`
		SELECT systemAddress, systemName, systemX, systemY, systemZ, systemSector, updatedAt
		FROM systems WHERE systemAddress = ?`)
	if err != nil {
		return nil, err
	}

	var system models.System
	err = stmt.QueryRow(systemAddress).Scan(
		&system.SystemAddress,
		&system.SystemName,
		&system.SystemX,
		&system.SystemY,
		&system.SystemZ,
		&system.SystemSector,
		&system.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &system, nil
}

// GetByName retrieves a system by name (case-insensitive). System names are
// not guaranteed unique; the first match wins, which is acceptable for the
// best-effort coordinate denormalization it serves.
func (s *SystemsStore) GetByName(systemName string) (*models.System, error) {
	stmt, err := s.db.prepared(`
		SELECT systemAddress, systemName, systemX, systemY, systemZ, systemSector, updatedAt
		FROM systems WHERE systemName = ? COLLATE NOCASE LIMIT 1`)
	if err != nil {
		return nil, err
	}

	var system models.System
	err = stmt.QueryRow(systemName).Scan(
		&system.SystemAddress,
		&system.SystemName,
		&system.SystemX,
		&system.SystemY,
		&system.SystemZ,
		&system.SystemSector,
		&system.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &system, nil
}

// Count returns the number of known systems
func (s *SystemsStore) Count() (int64, error) {
	return s.db.QueryRowInt("SELECT COUNT(*) FROM systems")
}
