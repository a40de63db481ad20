package router

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-collector/internal/gate"
	"github.com/stellar-collector/internal/logging"
	"github.com/stellar-collector/internal/models"
	"github.com/stellar-collector/internal/storage"
)

type testRig struct {
	router    *Router
	gate      *gate.Gate
	systems   *storage.SystemsStore
	locations *storage.LocationsStore
	stations  *storage.StationsStore
	trade     *storage.TradeStore
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()

	dir := t.TempDir()
	open := func(name string) *storage.DB {
		db, err := storage.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return db
	}

	systems, err := storage.NewSystemsStore(open("systems.db"))
	require.NoError(t, err)
	locations, err := storage.NewLocationsStore(open("locations.db"))
	require.NoError(t, err)
	stations, err := storage.NewStationsStore(open("stations.db"))
	require.NoError(t, err)
	trade, err := storage.NewTradeStore(open("trade.db"))
	require.NoError(t, err)

	g := gate.New()
	logger := logging.NewLogger(logging.LevelFatal, logging.FormatText)

	return &testRig{
		router:    New(g, systems, locations, stations, trade, logger),
		gate:      g,
		systems:   systems,
		locations: locations,
		stations:  stations,
		trade:     trade,
	}
}

func envelope(t *testing.T, schema, gameVersion string, message interface{}) []byte {
	t.Helper()

	body, err := json.Marshal(message)
	require.NoError(t, err)
	data, err := json.Marshal(map[string]interface{}{
		"$schemaRef": schema,
		"header":     map[string]string{"gameversion": gameVersion},
		"message":    json.RawMessage(body),
	})
	require.NoError(t, err)
	return data
}

func TestRouteDiscoveryThenDocked(t *testing.T) {
	rig := newTestRig(t)

	rig.router.Route(envelope(t, models.SchemaDiscoveryScan, "4.0.0.100", map[string]interface{}{
		"SystemAddress": 3932277478106,
		"SystemName":    "Shinrarta Dezhra",
		"StarPos":       []float64{55.71875, 17.59375, 27.15625},
	}))

	n, err := rig.systems.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rig.router.Route(envelope(t, models.SchemaJournal, "4.0.0.100", map[string]interface{}{
		"event":       "Docked",
		"StationName": "Jameson Memorial",
		"StationType": "Orbis",
		"MarketID":    128666762,
		"StarSystem":  "Shinrarta Dezhra",
		"SystemAddress": 3932277478106,
		"StarPos":     []float64{55.71875, 17.59375, 27.15625},
		"timestamp":   "2026-08-30T12:00:00Z",
	}))

	station, err := rig.stations.GetByMarketID(128666762)
	require.NoError(t, err)
	require.NotNil(t, station)
	assert.Equal(t, "Jameson Memorial", station.StationName)
	require.NotNil(t, station.StationType)
	assert.Equal(t, "Orbis Starport", *station.StationType)
}

func TestRouteCommodityEnrichedByDocked(t *testing.T) {
	rig := newTestRig(t)

	// A market snapshot arrives before anything else is known about the
	// station
	rig.router.Route(envelope(t, models.SchemaCommodity, "4.0.0.100", map[string]interface{}{
		"systemName":  "Shinrarta Dezhra",
		"stationName": "Jameson Memorial",
		"marketId":    128666762,
		"timestamp":   "2026-08-30T12:00:00Z",
		"commodities": []map[string]interface{}{
			{"name": "$gold_name;", "sellPrice": 9400, "stock": 50},
		},
	}))

	order, err := rig.trade.GetOrder(128666762, "gold")
	require.NoError(t, err)
	assert.Equal(t, int64(9400), order.SellPrice)

	station, err := rig.stations.GetByMarketID(128666762)
	require.NoError(t, err)
	require.NotNil(t, station)
	assert.Nil(t, station.StationType, "sparse sighting knows no type")

	// A later docked event fills in the detail without duplicating the row
	rig.router.Route(envelope(t, models.SchemaJournal, "4.0.0.100", map[string]interface{}{
		"event":         "Docked",
		"StationName":   "Jameson Memorial",
		"StationType":   "Orbis",
		"MarketID":      128666762,
		"StarSystem":    "Shinrarta Dezhra",
		"SystemAddress": 3932277478106,
		"StarPos":       []float64{55.71875, 17.59375, 27.15625},
		"timestamp":     "2026-08-30T13:00:00Z",
	}))

	station, err = rig.stations.GetByMarketID(128666762)
	require.NoError(t, err)
	require.NotNil(t, station.StationType)
	assert.Equal(t, "Orbis Starport", *station.StationType)
}

func TestRouteCarrierSnapshotReplacement(t *testing.T) {
	rig := newTestRig(t)

	snapshot := func(commodities ...string) []byte {
		var listings []map[string]interface{}
		for _, name := range commodities {
			listings = append(listings, map[string]interface{}{"name": name, "stock": 100})
		}
		return envelope(t, models.SchemaCommodity, "4.0.0.100", map[string]interface{}{
			"systemName":  "Shinrarta Dezhra",
			"stationName": "K7Q-BQL",
			"marketId":    3700000001,
			"timestamp":   "2026-08-30T12:00:00Z",
			"commodities": listings,
		})
	}

	rig.router.Route(snapshot("tritium", "gold", "silver"))

	n, err := rig.trade.CountForMarket(3700000001)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// The carrier jumps and now sells something entirely different; only the
	// new snapshot must remain
	rig.router.Route(snapshot("bauxite"))

	n, err = rig.trade.CountForMarket(3700000001)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = rig.trade.GetOrder(3700000001, "tritium")
	assert.Error(t, err, "pre-jump commodity should be gone")
}

func TestRouteSettlementDualRouting(t *testing.T) {
	rig := newTestRig(t)

	base := map[string]interface{}{
		"Name":          "Williams Depot",
		"SystemAddress": 3932277478106,
		"StarSystem":    "Shinrarta Dezhra",
		"StarPos":       []float64{55.71875, 17.59375, 27.15625},
		"BodyID":        34,
		"BodyName":      "A 1",
		"Latitude":      -12.5,
		"Longitude":     44.25,
		"timestamp":     "2026-08-30T12:00:00Z",
	}

	t.Run("with a market id, stored as a station", func(t *testing.T) {
		msg := map[string]interface{}{"MarketID": 3912345678}
		for k, v := range base {
			msg[k] = v
		}
		rig.router.Route(envelope(t, models.SchemaApproachSettlement, "4.0.0.100", msg))

		known, err := rig.stations.ExistsByMarketID(3912345678)
		require.NoError(t, err)
		assert.True(t, known)

		systems, err := rig.systems.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(1), systems, "parent system is recorded too")
	})

	t.Run("without a market id, stored as a location", func(t *testing.T) {
		msg := map[string]interface{}{"Name": "Pioneer Point"}
		for k, v := range base {
			if k == "Name" {
				continue
			}
			msg[k] = v
		}
		rig.router.Route(envelope(t, models.SchemaApproachSettlement, "4.0.0.100", msg))

		n, err := rig.locations.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestRouteNavRoute(t *testing.T) {
	rig := newTestRig(t)

	rig.router.Route(envelope(t, models.SchemaNavRoute, "4.0.0.100", map[string]interface{}{
		"Route": []map[string]interface{}{
			{"StarSystem": "Sol", "SystemAddress": 10477373803, "StarPos": []float64{0, 0, 0}},
			{"StarSystem": "Alpha Centauri", "SystemAddress": 2832631665362, "StarPos": []float64{3.03125, -0.09375, 3.15625}},
		},
	}))

	n, err := rig.systems.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRouteClosedGateDropsEverything(t *testing.T) {
	rig := newTestRig(t)
	rig.gate.Close()

	rig.router.Route(envelope(t, models.SchemaDiscoveryScan, "4.0.0.100", map[string]interface{}{
		"SystemAddress": 3932277478106,
		"SystemName":    "Shinrarta Dezhra",
		"StarPos":       []float64{55.71875, 17.59375, 27.15625},
	}))

	n, err := rig.systems.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	rig.gate.Open()
	rig.router.Route(envelope(t, models.SchemaDiscoveryScan, "4.0.0.100", map[string]interface{}{
		"SystemAddress": 3932277478106,
		"SystemName":    "Shinrarta Dezhra",
		"StarPos":       []float64{55.71875, 17.59375, 27.15625},
	}))

	n, err = rig.systems.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGameVersionGuard(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"", true},
		{"4.0.0.100", true},
		{"4.1", true},
		{"5.0", true},
		{"CAPI-Live-legacy", true},
		{"3.8.1", false},
		{"2.4", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("version %q", tt.version), func(t *testing.T) {
			if got := gameVersionAccepted(tt.version); got != tt.want {
				t.Errorf("gameVersionAccepted(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestRouteStaleClientDropped(t *testing.T) {
	rig := newTestRig(t)

	rig.router.Route(envelope(t, models.SchemaDiscoveryScan, "3.8.1", map[string]interface{}{
		"SystemAddress": 3932277478106,
		"SystemName":    "Shinrarta Dezhra",
		"StarPos":       []float64{55.71875, 17.59375, 27.15625},
	}))

	n, err := rig.systems.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRouteMalformedAndUnknownPayloads(t *testing.T) {
	rig := newTestRig(t)

	// None of these should panic or write anything
	rig.router.Route([]byte("not json"))
	rig.router.Route([]byte("{}"))
	rig.router.Route(envelope(t, "https://example.com/schemas/unknown/1", "4.0.0.100",
		map[string]interface{}{"whatever": true}))

	n, err := rig.systems.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
