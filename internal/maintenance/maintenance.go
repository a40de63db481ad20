// Package maintenance implements the scheduled maintenance window: purge,
// optimize, backup, backup compression and stats generation, coordinated
// with the write-gate.
package maintenance

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stellar-collector/internal/config"
	"github.com/stellar-collector/internal/gate"
	"github.com/stellar-collector/internal/logging"
	"github.com/stellar-collector/internal/storage"
)

// Jobs holds the dependencies shared by all maintenance tasks
type Jobs struct {
	cfg       *config.Config
	systems   *storage.SystemsStore
	locations *storage.LocationsStore
	stations  *storage.StationsStore
	trade     *storage.TradeStore
	gate      *gate.Gate
	logger    *logging.Logger

	// Backup verification thresholds. Production data is well above these;
	// a backup below them indicates a truncated or corrupt copy.
	MinBackupSizeBytes int64
	MinBackupRows      int64
}

// NewJobs creates the maintenance job set
func NewJobs(cfg *config.Config, systems *storage.SystemsStore, locations *storage.LocationsStore,
	stations *storage.StationsStore, trade *storage.TradeStore, g *gate.Gate, logger *logging.Logger) *Jobs {
	return &Jobs{
		cfg:                cfg,
		systems:            systems,
		locations:          locations,
		stations:           stations,
		trade:              trade,
		gate:               g,
		logger:             logger,
		MinBackupSizeBytes: 10_000_000,
		MinBackupRows:      100,
	}
}

// Scheduler drives the maintenance jobs on their cron schedules
type Scheduler struct {
	cron *cron.Cron
	jobs *Jobs
}

// NewScheduler creates a scheduler for the given jobs. Cron specs are
// evaluated in UTC so the window stays aligned with the feed's own
// maintenance schedule regardless of host timezone.
func NewScheduler(jobs *Jobs) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(jobs.cfg.Maintenance.CronSpec, jobs.RunMaintenanceWindow); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(jobs.cfg.Maintenance.StatsCronSpec, func() {
		if err := jobs.GenerateStats(); err != nil {
			jobs.logger.WithError(err).Error("Stats generation failed")
		}
	}); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, jobs: jobs}, nil
}

// Start begins running the schedules
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the schedules, waiting for any running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunMaintenanceWindow executes the full maintenance sequence. Writes are
// paused for the purge/optimize/backup phase; the gate reopens even when a
// step fails, since a permanently closed gate would silently drop all
// ingestion until restart. Stats generation and backup compression run
// afterwards in the background: they are read-only on the live databases.
func (j *Jobs) RunMaintenanceWindow() {
	j.logger.Info("Maintenance window starting, pausing ingestion writes")

	func() {
		j.gate.Close()
		defer j.gate.Open()

		if err := j.Purge(); err != nil {
			j.logger.WithError(err).Error("Purge failed")
		}
		if err := j.Optimize(); err != nil {
			j.logger.WithError(err).Error("Optimize failed")
		}
		if err := j.Backup(); err != nil {
			j.logger.WithError(err).Error("Backup failed")
		}
	}()

	j.logger.Info("Maintenance window finished, ingestion writes resumed")

	go func() {
		if err := j.GenerateStats(); err != nil {
			j.logger.WithError(err).Error("Stats generation failed")
		}
	}()
	go func() {
		if err := j.CompressBackups(); err != nil {
			j.logger.WithError(err).Error("Backup compression failed")
		}
	}()
}

// Purge deletes data past its retention threshold: old trade orders, and
// carriers and rescue ships not sighted within their windows
func (j *Jobs) Purge() error {
	tradeCutoff := cutoffISO(j.cfg.Retention.TradeMaxAgeDays)
	carrierCutoff := cutoffISO(j.cfg.Retention.FleetCarrierMaxAgeDays)
	rescueCutoff := cutoffISO(j.cfg.Retention.RescueShipMaxAgeDays)

	purged, err := j.trade.PurgeOlderThan(tradeCutoff)
	if err != nil {
		return err
	}
	j.logger.WithField("rows", purged).Info("Purged stale trade orders")

	purged, err = j.stations.PurgeCarriersNotSeenSince(carrierCutoff)
	if err != nil {
		return err
	}
	j.logger.WithField("rows", purged).Info("Purged stale fleet carriers")

	purged, err = j.stations.PurgeRescueShipsNotSeenSince(rescueCutoff)
	if err != nil {
		return err
	}
	j.logger.WithField("rows", purged).Info("Purged stale rescue ships")

	return nil
}

// Optimize checkpoints and optimizes each database in turn
func (j *Jobs) Optimize() error {
	for _, db := range j.databases() {
		started := time.Now()
		if err := db.Checkpoint(); err != nil {
			return err
		}
		if err := db.Optimize(); err != nil {
			return err
		}
		j.logger.WithFields(map[string]interface{}{
			"database": db.Name(),
			"duration": time.Since(started).String(),
		}).Info("Optimized database")
	}
	return nil
}

// databases returns all four stores' databases in backup order
func (j *Jobs) databases() []*storage.DB {
	return []*storage.DB{
		j.trade.DB(),
		j.systems.DB(),
		j.stations.DB(),
		j.locations.DB(),
	}
}

// cutoffISO returns the ISO 8601 timestamp ageDays before now
func cutoffISO(ageDays int) string {
	return time.Now().UTC().AddDate(0, 0, -ageDays).Format("2006-01-02T15:04:05.000Z")
}
