package models

// TradeOrder represents a single commodity's buy/sell state at one market.
// The latest snapshot for a (marketId, commodityName) pair replaces any
// prior row.
type TradeOrder struct {
	MarketID       int64
	CommodityName  string
	StationName    string
	SystemName     string
	SystemX        *float64
	SystemY        *float64
	SystemZ        *float64
	FleetCarrier   int
	BuyPrice       int64
	Demand         int64
	DemandBracket  int64
	MeanPrice      int64
	SellPrice      int64
	Stock          int64
	StockBracket   int64
	StatusFlags    string
	UpdatedAt      string
	UpdatedAtDay   string
}

// Fields returns the store-ready field set for the commodities table
func (t *TradeOrder) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"marketId":      t.MarketID,
		"commodityName": t.CommodityName,
		"stationName":   t.StationName,
		"systemName":    t.SystemName,
		"fleetCarrier":  t.FleetCarrier,
		"buyPrice":      t.BuyPrice,
		"demand":        t.Demand,
		"demandBracket": t.DemandBracket,
		"meanPrice":     t.MeanPrice,
		"sellPrice":     t.SellPrice,
		"stock":         t.Stock,
		"stockBracket":  t.StockBracket,
		"statusFlags":   t.StatusFlags,
		"updatedAt":     t.UpdatedAt,
		"updatedAtDay":  t.UpdatedAtDay,
	}

	// System coordinates are a best-effort denormalization; unknown systems
	// leave them null.
	if t.SystemX != nil {
		fields["systemX"] = *t.SystemX
	}
	if t.SystemY != nil {
		fields["systemY"] = *t.SystemY
	}
	if t.SystemZ != nil {
		fields["systemZ"] = *t.SystemZ
	}

	return fields
}
