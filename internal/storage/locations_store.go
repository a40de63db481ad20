package storage

import "github.com/stellar-collector/internal/models"

// locationId is a content hash of systemAddress/name/bodyId/latitude/longitude
const locationsSchema = `
CREATE TABLE IF NOT EXISTS locations (
	locationId TEXT PRIMARY KEY,
	locationName TEXT COLLATE NOCASE,
	systemAddress INT,
	systemName TEXT COLLATE NOCASE,
	systemX REAL,
	systemY REAL,
	systemZ REAL,
	bodyId INT,
	bodyName TEXT COLLATE NOCASE,
	latitude REAL,
	longitude REAL,
	updatedAt TEXT
)`

var locationsIndexes = []string{
	"CREATE INDEX IF NOT EXISTS locations_locationName_collate ON locations (locationName COLLATE NOCASE)",
	"CREATE INDEX IF NOT EXISTS locations_systemName_collate ON locations (systemName COLLATE NOCASE)",
}

// LocationsStore handles point-of-interest persistence
type LocationsStore struct {
	db *DB
}

// NewLocationsStore creates a locations store and ensures its schema and
// indexes exist
func NewLocationsStore(db *DB) (*LocationsStore, error) {
	if err := db.Exec(locationsSchema); err != nil {
		return nil, err
	}
	for _, index := range locationsIndexes {
		if err := db.Exec(index); err != nil {
			return nil, err
		}
	}
	return &LocationsStore{db: db}, nil
}

// DB returns the underlying database, used by maintenance jobs
func (s *LocationsStore) DB() *DB {
	return s.db
}

// Upsert writes a location row, replacing any prior row with the same
// synthetic id. Locations are low-value and overwritten wholesale on
// re-sighting.
func (s *LocationsStore) Upsert(location *models.Location) error {
	return s.db.Upsert("locations", location.Fields())
}

// Count returns the number of known points of interest
func (s *LocationsStore) Count() (int64, error) {
	return s.db.QueryRowInt("SELECT COUNT(*) FROM locations")
}
