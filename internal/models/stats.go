package models

// DatabaseStats is the aggregate statistics manifest generated periodically
// by maintenance and served by the status endpoint
type DatabaseStats struct {
	Systems          int64        `json:"systems"`
	PointsOfInterest int64        `json:"pointsOfInterest"`
	Stations         StationStats `json:"stations"`
	Trade            MarketStats  `json:"trade"`
	Timestamp        string       `json:"timestamp"`
}

// StationStats holds aggregate station counts and update recency buckets
type StationStats struct {
	Stations             int64 `json:"stations"`
	Carriers             int64 `json:"carriers"`
	UpdatedInLastHour    int64 `json:"updatedInLastHour"`
	UpdatedInLast24Hours int64 `json:"updatedInLast24Hours"`
	UpdatedInLast7Days   int64 `json:"updatedInLast7Days"`
	UpdatedInLast30Days  int64 `json:"updatedInLast30Days"`
}

// MarketStats holds aggregate trade counts and update recency buckets
type MarketStats struct {
	Stations             int64 `json:"stations"`
	Carriers             int64 `json:"carriers"`
	Systems              int64 `json:"systems"`
	TradeOrders          int64 `json:"tradeOrders"`
	UpdatedInLastHour    int64 `json:"updatedInLastHour"`
	UpdatedInLast24Hours int64 `json:"updatedInLast24Hours"`
	UpdatedInLast7Days   int64 `json:"updatedInLast7Days"`
	UpdatedInLast30Days  int64 `json:"updatedInLast30Days"`
	UniqueCommodities    int64 `json:"uniqueCommodities"`
}

// BackupDownload describes one downloadable compressed backup artifact
type BackupDownload struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Size    int64  `json:"size"`
	Created string `json:"created"`
	SHA256  string `json:"sha256"`
}
