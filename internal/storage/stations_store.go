package storage

import (
	"database/sql"

	"github.com/stellar-collector/internal/models"
)

// Stations have no single natural key: marketId is stable once known but
// many early sightings arrive without one, so rows are located by marketId
// when present and by (stationName, systemAddress) otherwise.
const stationsSchema = `
CREATE TABLE IF NOT EXISTS stations (
	stationName TEXT COLLATE NOCASE,
	marketId INT,
	distanceToArrival REAL,
	stationType TEXT,
	allegiance TEXT,
	government TEXT,
	controllingFactionId INT,
	controllingFactionName TEXT,
	primaryEconomy TEXT,
	secondaryEconomy TEXT,
	shipyard INT,
	outfitting INT,
	blackMarket INT,
	contacts INT,
	crewLounge INT,
	interstellarFactorsContact INT,
	materialTrader INT,
	missions INT,
	refuel INT,
	repair INT,
	restock INT,
	searchAndRescue INT,
	technologyBroker INT,
	tuning INT,
	universalCartographics INT,
	systemAddress INT,
	systemName TEXT COLLATE NOCASE,
	systemX REAL,
	systemY REAL,
	systemZ REAL,
	bodyId INT,
	bodyName TEXT COLLATE NOCASE,
	latitude REAL,
	longitude REAL,
	maxLandingPadSize INT,
	updatedAt TEXT
)`

var stationsIndexes = []string{
	"CREATE INDEX IF NOT EXISTS stations_stationName_collate ON stations (stationName COLLATE NOCASE)",
	"CREATE INDEX IF NOT EXISTS stations_systemName_collate ON stations (systemName COLLATE NOCASE)",
	"CREATE INDEX IF NOT EXISTS stations_marketId ON stations (marketId)",
	"CREATE INDEX IF NOT EXISTS stations_stationType ON stations (stationType)",
}

// StationsStore handles station persistence
type StationsStore struct {
	db *DB
}

// NewStationsStore creates a stations store and ensures its schema and
// indexes exist
func NewStationsStore(db *DB) (*StationsStore, error) {
	if err := db.Exec(stationsSchema); err != nil {
		return nil, err
	}
	for _, index := range stationsIndexes {
		if err := db.Exec(index); err != nil {
			return nil, err
		}
	}
	return &StationsStore{db: db}, nil
}

// DB returns the underlying database, used by maintenance jobs
func (s *StationsStore) DB() *DB {
	return s.db
}

// ExistsByMarketID reports whether a station with the given market id is known
func (s *StationsStore) ExistsByMarketID(marketID int64) (bool, error) {
	stmt, err := s.db.prepared("SELECT 1 FROM stations WHERE marketId = ? LIMIT 1")
	if err != nil {
		return false, err
	}
	var one int
	err = stmt.QueryRow(marketID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ExistsByNameAndSystem reports whether a station with the given name exists
// in the given system. Interim keying used before a market id is known.
func (s *StationsStore) ExistsByNameAndSystem(stationName string, systemAddress int64) (bool, error) {
	stmt, err := s.db.prepared(
		"SELECT 1 FROM stations WHERE stationName = ? COLLATE NOCASE AND systemAddress = ? LIMIT 1")
	if err != nil {
		return false, err
	}
	var one int
	err = stmt.QueryRow(stationName, systemAddress).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert writes a new station row
func (s *StationsStore) Insert(station *models.Station) error {
	return s.db.Upsert("stations", station.Fields())
}

// UpdateByMarketID selectively updates the fields known from this sighting
// on the existing row, leaving previously learned fields intact
func (s *StationsStore) UpdateByMarketID(station *models.Station) error {
	return s.db.UpdateWhere("stations", station.Fields(), "marketId = ?", station.MarketID)
}

// GetByMarketID retrieves the subset of station columns needed by queries
// and tests
func (s *StationsStore) GetByMarketID(marketID int64) (*models.Station, error) {
	stmt, err := s.db.prepared(`
		SELECT stationName, marketId, stationType, maxLandingPadSize, systemName, updatedAt
		FROM stations WHERE marketId = ? LIMIT 1`)
	if err != nil {
		return nil, err
	}

	var station models.Station
	var stationType, systemName sql.NullString
	var maxLandingPadSize sql.NullInt64
	err = stmt.QueryRow(marketID).Scan(
		&station.StationName,
		&station.MarketID,
		&stationType,
		&maxLandingPadSize,
		&systemName,
		&station.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if stationType.Valid {
		station.StationType = &stationType.String
	}
	if systemName.Valid {
		station.SystemName = &systemName.String
	}
	if maxLandingPadSize.Valid {
		size := int(maxLandingPadSize.Int64)
		station.MaxLandingPadSize = &size
	}
	return &station, nil
}

// PurgeCarriersNotSeenSince deletes fleet carrier rows last updated before
// cutoff. Carriers relocate and decommission often enough that stale rows
// are noise.
func (s *StationsStore) PurgeCarriersNotSeenSince(cutoff string) (int64, error) {
	result, err := s.db.sql.Exec(
		"DELETE FROM stations WHERE stationType = 'FleetCarrier' AND updatedAt < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// PurgeRescueShipsNotSeenSince deletes rescue mega ship rows last updated
// before cutoff. Rescue ships are deployed temporarily and move on.
func (s *StationsStore) PurgeRescueShipsNotSeenSince(cutoff string) (int64, error) {
	result, err := s.db.sql.Exec(
		"DELETE FROM stations WHERE stationName LIKE 'Rescue Ship%' AND updatedAt < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Count returns the number of known stations excluding fleet carriers
func (s *StationsStore) Count() (int64, error) {
	return s.db.QueryRowInt(
		"SELECT COUNT(*) FROM stations WHERE stationType IS NOT 'FleetCarrier'")
}

// CountCarriers returns the number of known fleet carriers
func (s *StationsStore) CountCarriers() (int64, error) {
	return s.db.QueryRowInt(
		"SELECT COUNT(*) FROM stations WHERE stationType = 'FleetCarrier'")
}

// CountUpdatedSince returns the number of station rows updated after the
// given timestamp
func (s *StationsStore) CountUpdatedSince(since string) (int64, error) {
	return s.db.QueryRowInt("SELECT COUNT(*) FROM stations WHERE updatedAt > ?", since)
}
