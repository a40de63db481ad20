package storage

import "github.com/stellar-collector/internal/models"

// stockBracket and demandBracket values: 0 none, 1 low, 2 medium, 3 high.
// The feed sometimes sends '' instead of 0; normalization maps both to 0.
const tradeSchema = `
CREATE TABLE IF NOT EXISTS commodities (
	marketId INT,
	commodityName TEXT COLLATE NOCASE,
	stationName TEXT COLLATE NOCASE,
	systemName TEXT COLLATE NOCASE,
	systemX REAL,
	systemY REAL,
	systemZ REAL,
	fleetCarrier INT,
	buyPrice INT,
	demand INT,
	demandBracket INT,
	meanPrice INT,
	sellPrice INT,
	stock INT,
	stockBracket INT,
	statusFlags TEXT,
	updatedAt TEXT,
	updatedAtDay TEXT,
	PRIMARY KEY (marketId, commodityName)
)`

var tradeIndexes = []string{
	"CREATE INDEX IF NOT EXISTS commodities_commodityName_collate ON commodities (commodityName COLLATE NOCASE)",
	"CREATE INDEX IF NOT EXISTS commodities_stationName_collate ON commodities (stationName COLLATE NOCASE)",
	"CREATE INDEX IF NOT EXISTS commodities_systemName_collate ON commodities (systemName COLLATE NOCASE)",
	"CREATE INDEX IF NOT EXISTS commodities_fleetCarrier ON commodities (fleetCarrier)",
	"CREATE INDEX IF NOT EXISTS commodities_buyPrice ON commodities (buyPrice)",
	"CREATE INDEX IF NOT EXISTS commodities_sellPrice ON commodities (sellPrice)",
	"CREATE INDEX IF NOT EXISTS commodities_demand ON commodities (demand)",
	"CREATE INDEX IF NOT EXISTS commodities_stock ON commodities (stock)",
	"CREATE INDEX IF NOT EXISTS commodities_commodityName_updatedAtDay ON commodities (commodityName, updatedAtDay)",
}

// TradeStore handles commodity trade order persistence
type TradeStore struct {
	db *DB
}

// NewTradeStore creates a trade store and ensures its schema and indexes
// exist
func NewTradeStore(db *DB) (*TradeStore, error) {
	if err := db.Exec(tradeSchema); err != nil {
		return nil, err
	}
	for _, index := range tradeIndexes {
		if err := db.Exec(index); err != nil {
			return nil, err
		}
	}
	return &TradeStore{db: db}, nil
}

// DB returns the underlying database, used by maintenance jobs
func (s *TradeStore) DB() *DB {
	return s.db
}

// ReplaceOrder writes a trade order row, replacing any prior snapshot for
// the same (marketId, commodityName) pair
func (s *TradeStore) ReplaceOrder(order *models.TradeOrder) error {
	return s.db.Upsert("commodities", order.Fields())
}

// DeleteMarketData removes all commodity rows for a market. Fleet carriers
// can completely change their tradeable goods between sightings, so their
// snapshots are wholesale-replaced.
func (s *TradeStore) DeleteMarketData(marketID int64) error {
	stmt, err := s.db.prepared("DELETE FROM commodities WHERE marketId = ?")
	if err != nil {
		return err
	}
	_, err = stmt.Exec(marketID)
	return err
}

// GetOrder retrieves a trade order by market and commodity name
func (s *TradeStore) GetOrder(marketID int64, commodityName string) (*models.TradeOrder, error) {
	stmt, err := s.db.prepared(`
		SELECT marketId, commodityName, stationName, systemName, fleetCarrier,
			buyPrice, demand, demandBracket, meanPrice, sellPrice, stock,
			stockBracket, statusFlags, updatedAt, updatedAtDay
		FROM commodities WHERE marketId = ? AND commodityName = ?`)
	if err != nil {
		return nil, err
	}

	var order models.TradeOrder
	err = stmt.QueryRow(marketID, commodityName).Scan(
		&order.MarketID,
		&order.CommodityName,
		&order.StationName,
		&order.SystemName,
		&order.FleetCarrier,
		&order.BuyPrice,
		&order.Demand,
		&order.DemandBracket,
		&order.MeanPrice,
		&order.SellPrice,
		&order.Stock,
		&order.StockBracket,
		&order.StatusFlags,
		&order.UpdatedAt,
		&order.UpdatedAtDay,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CountForMarket returns the number of trade orders held for a market
func (s *TradeStore) CountForMarket(marketID int64) (int64, error) {
	return s.db.QueryRowInt("SELECT COUNT(*) FROM commodities WHERE marketId = ?", marketID)
}

// PurgeOlderThan deletes trade orders last updated before cutoff
func (s *TradeStore) PurgeOlderThan(cutoff string) (int64, error) {
	result, err := s.db.sql.Exec("DELETE FROM commodities WHERE updatedAt < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// TradeStats holds the aggregate figures generated for the status endpoint
type TradeStats struct {
	TradeOrders          int64 `json:"tradeOrders"`
	UniqueCommodities    int64 `json:"uniqueCommodities"`
	Systems              int64 `json:"systems"`
	Stations             int64 `json:"stations"`
	Carriers             int64 `json:"carriers"`
	UpdatedInLastHour    int64 `json:"updatedInLastHour"`
	UpdatedInLast24Hours int64 `json:"updatedInLast24Hours"`
	UpdatedInLast7Days   int64 `json:"updatedInLast7Days"`
	UpdatedInLast30Days  int64 `json:"updatedInLast30Days"`
}

// Stats computes the trade aggregate counts in a single pass. The recency
// arguments are ISO 8601 timestamps.
func (s *TradeStore) Stats(lastHour, last24Hours, last7Days, last30Days string) (*TradeStats, error) {
	query := `
		SELECT
			COUNT(*),
			(SELECT COUNT(DISTINCT(commodityName)) FROM commodities),
			(SELECT COUNT(DISTINCT(systemName)) FROM commodities),
			(SELECT COUNT(DISTINCT(stationName)) FROM commodities WHERE fleetCarrier = 0),
			(SELECT COUNT(DISTINCT(stationName)) FROM commodities WHERE fleetCarrier = 1),
			(SELECT COUNT(*) FROM commodities WHERE updatedAt > ?),
			(SELECT COUNT(*) FROM commodities WHERE updatedAt > ?),
			(SELECT COUNT(*) FROM commodities WHERE updatedAt > ?),
			(SELECT COUNT(*) FROM commodities WHERE updatedAt > ?)
		FROM commodities`

	var stats TradeStats
	err := s.db.sql.QueryRow(query, lastHour, last24Hours, last7Days, last30Days).Scan(
		&stats.TradeOrders,
		&stats.UniqueCommodities,
		&stats.Systems,
		&stats.Stations,
		&stats.Carriers,
		&stats.UpdatedInLastHour,
		&stats.UpdatedInLast24Hours,
		&stats.UpdatedInLast7Days,
		&stats.UpdatedInLast30Days,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
