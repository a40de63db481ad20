// Package main provides the collector service entry point: feed ingestion,
// scheduled maintenance and the status endpoint in one process.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stellar-collector/internal/api"
	"github.com/stellar-collector/internal/config"
	"github.com/stellar-collector/internal/feed"
	"github.com/stellar-collector/internal/gate"
	"github.com/stellar-collector/internal/logging"
	"github.com/stellar-collector/internal/maintenance"
	"github.com/stellar-collector/internal/router"
	"github.com/stellar-collector/internal/storage"
)

func main() {
	fmt.Println("Stellar Collector")
	log.Println("Collector starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Prepare the filesystem layout before opening anything
	for _, dir := range []string{cfg.Data.DataDir, cfg.Data.CacheDir, cfg.Data.BackupDir, cfg.Data.DownloadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.WithError(err).Fatal("Failed to create data directory")
		}
	}

	// Open the datastores
	logger.Info("Opening datastores...")

	systemsDB, err := storage.Open(cfg.SystemsDBPath())
	if err != nil {
		logger.WithError(err).Fatal("Failed to open systems datastore")
	}
	defer systemsDB.Close()

	locationsDB, err := storage.Open(cfg.LocationsDBPath())
	if err != nil {
		logger.WithError(err).Fatal("Failed to open locations datastore")
	}
	defer locationsDB.Close()

	stationsDB, err := storage.Open(cfg.StationsDBPath())
	if err != nil {
		logger.WithError(err).Fatal("Failed to open stations datastore")
	}
	defer stationsDB.Close()

	tradeDB, err := storage.Open(cfg.TradeDBPath())
	if err != nil {
		logger.WithError(err).Fatal("Failed to open trade datastore")
	}
	defer tradeDB.Close()

	// Initialize stores (creates tables and indexes on first run)
	systems, err := storage.NewSystemsStore(systemsDB)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize systems store")
	}
	locations, err := storage.NewLocationsStore(locationsDB)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize locations store")
	}
	stations, err := storage.NewStationsStore(stationsDB)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize stations store")
	}
	trade, err := storage.NewTradeStore(tradeDB)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize trade store")
	}

	logger.Info("Datastores ready")

	// The write-gate starts open; maintenance closes it for the duration of
	// each window
	writeGate := gate.New()

	jobs := maintenance.NewJobs(cfg, systems, locations, stations, trade, writeGate, logger)

	// A missing backup log means either a fresh deployment or a lost backup
	// volume; take a full backup now rather than waiting a week
	if _, err := os.Stat(cfg.BackupLogPath()); os.IsNotExist(err) {
		logger.Info("No backup log found, running startup backup")
		writeGate.Close()
		if err := jobs.Backup(); err != nil {
			logger.WithError(err).Error("Startup backup failed")
		}
		writeGate.Open()
	}

	scheduler, err := maintenance.NewScheduler(jobs)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize maintenance scheduler")
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.WithFields(map[string]interface{}{
		"maintenance": cfg.Maintenance.CronSpec,
		"stats":       cfg.Maintenance.StatsCronSpec,
	}).Info("Maintenance scheduled")

	// Generate an initial stats manifest so the status endpoint has data
	// before the first scheduled run
	go func() {
		if err := jobs.GenerateStats(); err != nil {
			logger.WithError(err).Error("Initial stats generation failed")
		}
	}()

	// Wire the feed to the message router
	dispatcher := router.New(writeGate, systems, locations, stations, trade, logger)
	listener := feed.NewListener(cfg.Feed.URL, dispatcher.Route, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := listener.Run(ctx); err != nil {
			logger.WithError(err).Error("Feed listener stopped")
		}
	}()

	// Start the status server
	server := api.NewServer(&api.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		CacheControl: cfg.Server.CacheControl,
		StatsPath:    cfg.StatsPath(),
	})

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Collector started successfully")

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down collector...")

	// Stop accepting new writes, then stop the feed
	writeGate.Close()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Collector exited")
}
