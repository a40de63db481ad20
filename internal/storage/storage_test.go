package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-collector/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestUpsert(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec("CREATE TABLE things (id INT PRIMARY KEY, name TEXT, score INT)"))

	t.Run("inserts a new row", func(t *testing.T) {
		err := db.Upsert("things", map[string]interface{}{"id": 1, "name": "first", "score": 10})
		require.NoError(t, err)

		n, err := db.QueryRowInt("SELECT COUNT(*) FROM things")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("replaces the row on primary key conflict", func(t *testing.T) {
		err := db.Upsert("things", map[string]interface{}{"id": 1, "name": "second", "score": 20})
		require.NoError(t, err)

		n, err := db.QueryRowInt("SELECT COUNT(*) FROM things")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		score, err := db.QueryRowInt("SELECT score FROM things WHERE id = 1")
		require.NoError(t, err)
		assert.Equal(t, int64(20), score)
	})

	t.Run("replace clears fields missing from the new row", func(t *testing.T) {
		err := db.Upsert("things", map[string]interface{}{"id": 1, "name": "third"})
		require.NoError(t, err)

		var score *int64
		err = db.SQL().QueryRow("SELECT score FROM things WHERE id = 1").Scan(&score)
		require.NoError(t, err)
		assert.Nil(t, score)
	})
}

func TestUpdateWhere(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec("CREATE TABLE things (id INT PRIMARY KEY, name TEXT, score INT)"))
	require.NoError(t, db.Upsert("things", map[string]interface{}{"id": 1, "name": "first", "score": 10}))

	err := db.UpdateWhere("things", map[string]interface{}{"score": 99}, "id = ?", 1)
	require.NoError(t, err)

	var name string
	var score int64
	require.NoError(t, db.SQL().QueryRow("SELECT name, score FROM things WHERE id = 1").Scan(&name, &score))
	assert.Equal(t, "first", name, "fields absent from the update should survive")
	assert.Equal(t, int64(99), score)
}

func TestPreparedStatementCache(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec("CREATE TABLE things (id INT PRIMARY KEY, name TEXT)"))

	a, err := db.prepared("SELECT 1 FROM things WHERE id = ?")
	require.NoError(t, err)
	b, err := db.prepared("SELECT 1 FROM things WHERE id = ?")
	require.NoError(t, err)
	assert.Same(t, a, b, "identical statement text should hit the cache")

	c, err := db.prepared("SELECT name FROM things WHERE id = ?")
	require.NoError(t, err)
	assert.NotSame(t, a, c)

	// Rows with the same field set reuse one statement regardless of map
	// iteration order
	require.NoError(t, db.Upsert("things", map[string]interface{}{"id": 1, "name": "a"}))
	require.NoError(t, db.Upsert("things", map[string]interface{}{"name": "b", "id": 2}))
	db.mu.Lock()
	cached := len(db.stmts)
	db.mu.Unlock()
	assert.Equal(t, 3, cached)
}

func TestSystemsStore(t *testing.T) {
	store, err := NewSystemsStore(openTestDB(t))
	require.NoError(t, err)

	system := &models.System{
		SystemAddress: 3932277478106,
		SystemName:    "Shinrarta Dezhra",
		SystemX:       55.71875,
		SystemY:       17.59375,
		SystemZ:       27.15625,
		SystemSector:  "9ea6ca867d05b9c9",
		UpdatedAt:     "2026-08-30T12:00:00.000Z",
	}

	t.Run("insert if unknown", func(t *testing.T) {
		require.NoError(t, store.InsertIfUnknown(system))

		exists, err := store.Exists(system.SystemAddress)
		require.NoError(t, err)
		assert.True(t, exists)

		n, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("identity is first-writer-wins", func(t *testing.T) {
		later := *system
		later.SystemName = "Renamed"
		later.UpdatedAt = "2026-08-31T12:00:00.000Z"
		require.NoError(t, store.InsertIfUnknown(&later))

		got, err := store.GetByAddress(system.SystemAddress)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Shinrarta Dezhra", got.SystemName)
		assert.Equal(t, "2026-08-30T12:00:00.000Z", got.UpdatedAt)
	})

	t.Run("lookup by name is case-insensitive", func(t *testing.T) {
		got, err := store.GetByName("shinrarta dezhra")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, system.SystemAddress, got.SystemAddress)
	})

	t.Run("unknown lookups return nil without error", func(t *testing.T) {
		got, err := store.GetByAddress(1)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = store.GetByName("Nowhere")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestLocationsStore(t *testing.T) {
	store, err := NewLocationsStore(openTestDB(t))
	require.NoError(t, err)

	location := &models.Location{
		LocationID:    "aabbccddeeff0011",
		LocationName:  "Pioneer Point",
		SystemAddress: 3932277478106,
		SystemName:    "Shinrarta Dezhra",
		SystemX:       55.71875,
		SystemY:       17.59375,
		SystemZ:       27.15625,
		BodyID:        34,
		BodyName:      "A 1",
		Latitude:      -12.5,
		Longitude:     44.25,
		UpdatedAt:     "2026-08-30T12:00:00.000Z",
	}

	require.NoError(t, store.Upsert(location))
	require.NoError(t, store.Upsert(location))

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "re-sighting replaces rather than duplicates")
}

func stationType(t string) *string { return &t }

func TestStationsStore(t *testing.T) {
	store, err := NewStationsStore(openTestDB(t))
	require.NoError(t, err)

	t.Run("insert and lookup by market id", func(t *testing.T) {
		require.NoError(t, store.Insert(&models.Station{
			StationName: "Jameson Memorial",
			MarketID:    128666762,
			StationType: stationType("Orbis Starport"),
			UpdatedAt:   "2026-08-30T12:00:00.000Z",
		}))

		known, err := store.ExistsByMarketID(128666762)
		require.NoError(t, err)
		assert.True(t, known)

		known, err = store.ExistsByMarketID(1)
		require.NoError(t, err)
		assert.False(t, known)
	})

	t.Run("selective update preserves known fields", func(t *testing.T) {
		pad := 3
		require.NoError(t, store.UpdateByMarketID(&models.Station{
			StationName:       "Jameson Memorial",
			MarketID:          128666762,
			MaxLandingPadSize: &pad,
			UpdatedAt:         "2026-08-31T12:00:00.000Z",
		}))

		got, err := store.GetByMarketID(128666762)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.StationType)
		assert.Equal(t, "Orbis Starport", *got.StationType, "type learned earlier should survive")
		require.NotNil(t, got.MaxLandingPadSize)
		assert.Equal(t, 3, *got.MaxLandingPadSize)
		assert.Equal(t, "2026-08-31T12:00:00.000Z", got.UpdatedAt)
	})

	t.Run("lookup by name and system", func(t *testing.T) {
		address := int64(3932277478106)
		require.NoError(t, store.Insert(&models.Station{
			StationName:   "Williams Depot",
			MarketID:      3912345678,
			SystemAddress: &address,
			UpdatedAt:     "2026-08-30T12:00:00.000Z",
		}))

		known, err := store.ExistsByNameAndSystem("williams depot", address)
		require.NoError(t, err)
		assert.True(t, known, "name keying is case-insensitive")

		known, err = store.ExistsByNameAndSystem("Williams Depot", 42)
		require.NoError(t, err)
		assert.False(t, known)
	})

	t.Run("counts and purges separate carriers from stations", func(t *testing.T) {
		require.NoError(t, store.Insert(&models.Station{
			StationName: "K7Q-BQL",
			MarketID:    3700000001,
			StationType: stationType("FleetCarrier"),
			UpdatedAt:   "2026-05-01T00:00:00.000Z",
		}))
		require.NoError(t, store.Insert(&models.Station{
			StationName: "X2W-04K",
			MarketID:    3700000002,
			StationType: stationType("FleetCarrier"),
			UpdatedAt:   "2026-08-30T12:00:00.000Z",
		}))
		require.NoError(t, store.Insert(&models.Station{
			StationName: "Rescue Ship - Arc's Faith",
			MarketID:    3700000003,
			StationType: stationType("MegaShip"),
			UpdatedAt:   "2026-05-01T00:00:00.000Z",
		}))

		stations, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(3), stations, "carriers excluded, untyped rows included")

		carriers, err := store.CountCarriers()
		require.NoError(t, err)
		assert.Equal(t, int64(2), carriers)

		purged, err := store.PurgeCarriersNotSeenSince("2026-06-01T00:00:00.000Z")
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged, "only the stale carrier goes")

		purged, err = store.PurgeRescueShipsNotSeenSince("2026-06-01T00:00:00.000Z")
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged)

		carriers, err = store.CountCarriers()
		require.NoError(t, err)
		assert.Equal(t, int64(1), carriers)
	})

	t.Run("recency bucket counting", func(t *testing.T) {
		n, err := store.CountUpdatedSince("2026-08-31T00:00:00.000Z")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "only the selectively updated starport is newer")
	})
}

func TestTradeStore(t *testing.T) {
	store, err := NewTradeStore(openTestDB(t))
	require.NoError(t, err)

	order := func(marketID int64, commodity, updatedAt string, carrier int) *models.TradeOrder {
		return &models.TradeOrder{
			MarketID:      marketID,
			CommodityName: commodity,
			StationName:   "Jameson Memorial",
			SystemName:    "Shinrarta Dezhra",
			FleetCarrier:  carrier,
			SellPrice:     1000,
			Stock:         50,
			UpdatedAt:     updatedAt,
			UpdatedAtDay:  updatedAt[:10],
		}
	}

	t.Run("latest snapshot replaces the prior row", func(t *testing.T) {
		require.NoError(t, store.ReplaceOrder(order(128666762, "gold", "2026-08-30T12:00:00.000Z", 0)))

		updated := order(128666762, "gold", "2026-08-31T12:00:00.000Z", 0)
		updated.SellPrice = 2000
		require.NoError(t, store.ReplaceOrder(updated))

		got, err := store.GetOrder(128666762, "gold")
		require.NoError(t, err)
		assert.Equal(t, int64(2000), got.SellPrice)

		n, err := store.CountForMarket(128666762)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("delete market data removes every row for the market", func(t *testing.T) {
		require.NoError(t, store.ReplaceOrder(order(3700000001, "tritium", "2026-08-30T12:00:00.000Z", 1)))
		require.NoError(t, store.ReplaceOrder(order(3700000001, "gold", "2026-08-30T12:00:00.000Z", 1)))

		require.NoError(t, store.DeleteMarketData(3700000001))

		n, err := store.CountForMarket(3700000001)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		n, err = store.CountForMarket(128666762)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "other markets untouched")
	})

	t.Run("purge removes rows older than the cutoff", func(t *testing.T) {
		require.NoError(t, store.ReplaceOrder(order(999, "silver", "2026-01-01T00:00:00.000Z", 0)))

		purged, err := store.PurgeOlderThan("2026-06-01T00:00:00.000Z")
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged)
	})

	t.Run("stats aggregate", func(t *testing.T) {
		require.NoError(t, store.ReplaceOrder(order(3700000002, "gold", "2026-08-31T11:00:00.000Z", 1)))

		stats, err := store.Stats(
			"2026-08-31T11:30:00.000Z",
			"2026-08-30T12:00:00.000Z",
			"2026-08-24T12:00:00.000Z",
			"2026-08-01T12:00:00.000Z",
		)
		require.NoError(t, err)

		assert.Equal(t, int64(2), stats.TradeOrders)
		assert.Equal(t, int64(1), stats.UniqueCommodities)
		assert.Equal(t, int64(1), stats.Carriers)
		assert.Equal(t, int64(1), stats.UpdatedInLastHour)
		assert.Equal(t, int64(2), stats.UpdatedInLast24Hours)
	})
}
