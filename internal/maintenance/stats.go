package maintenance

import (
	"encoding/json"
	"os"
	"time"

	"github.com/stellar-collector/internal/errors"
	"github.com/stellar-collector/internal/models"
)

// GenerateStats computes the aggregate counts served by the status endpoint
// and writes the stats manifest. The queries scan entire tables, which is
// why this runs on a schedule rather than per request.
func (j *Jobs) GenerateStats() error {
	started := time.Now()

	now := time.Now().UTC()
	lastHour := now.Add(-time.Hour).Format("2006-01-02T15:04:05.000Z")
	last24Hours := now.AddDate(0, 0, -1).Format("2006-01-02T15:04:05.000Z")
	last7Days := now.AddDate(0, 0, -7).Format("2006-01-02T15:04:05.000Z")
	last30Days := now.AddDate(0, 0, -30).Format("2006-01-02T15:04:05.000Z")

	stats := models.DatabaseStats{
		Timestamp: now.Format(time.RFC3339),
	}

	var err error
	if stats.Systems, err = j.systems.Count(); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}
	if stats.PointsOfInterest, err = j.locations.Count(); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}

	if stats.Stations.Stations, err = j.stations.Count(); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}
	if stats.Stations.Carriers, err = j.stations.CountCarriers(); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}
	if stats.Stations.UpdatedInLastHour, err = j.stations.CountUpdatedSince(lastHour); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}
	if stats.Stations.UpdatedInLast24Hours, err = j.stations.CountUpdatedSince(last24Hours); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}
	if stats.Stations.UpdatedInLast7Days, err = j.stations.CountUpdatedSince(last7Days); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}
	if stats.Stations.UpdatedInLast30Days, err = j.stations.CountUpdatedSince(last30Days); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}

	tradeStats, err := j.trade.Stats(lastHour, last24Hours, last7Days, last30Days)
	if err != nil {
		return errors.NewMaintenanceError("stats", err)
	}
	stats.Trade = models.MarketStats{
		Stations:             tradeStats.Stations,
		Carriers:             tradeStats.Carriers,
		Systems:              tradeStats.Systems,
		TradeOrders:          tradeStats.TradeOrders,
		UpdatedInLastHour:    tradeStats.UpdatedInLastHour,
		UpdatedInLast24Hours: tradeStats.UpdatedInLast24Hours,
		UpdatedInLast7Days:   tradeStats.UpdatedInLast7Days,
		UpdatedInLast30Days:  tradeStats.UpdatedInLast30Days,
		UniqueCommodities:    tradeStats.UniqueCommodities,
	}

	if err := os.MkdirAll(j.cfg.Data.CacheDir, 0o755); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return errors.NewMaintenanceError("stats", err)
	}
	if err := os.WriteFile(j.cfg.StatsPath(), data, 0o644); err != nil {
		return errors.NewMaintenanceError("stats", err)
	}

	j.logger.WithField("duration", time.Since(started).String()).Info("Generated stats")
	return nil
}
