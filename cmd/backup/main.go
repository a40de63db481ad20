// Package main provides a one-shot backup runner for operator use and
// recovery scenarios. It operates on the live datastore files, so run it on
// the collector host.
package main

import (
	"fmt"
	"log"

	"github.com/stellar-collector/internal/config"
	"github.com/stellar-collector/internal/logging"
	"github.com/stellar-collector/internal/maintenance"
)

func main() {
	fmt.Println("Stellar Collector Backup")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.InitGlobalLogger(logging.ParseLogLevel(cfg.Logging.Level), logging.ParseLogFormat(cfg.Logging.Format))
	logger := logging.GetGlobalLogger()

	jobs, closeAll, err := maintenance.OpenJobs(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open datastores")
	}
	defer closeAll()

	if err := jobs.Backup(); err != nil {
		logger.WithError(err).Fatal("Backup failed")
	}
	if err := jobs.CompressBackups(); err != nil {
		logger.WithError(err).Fatal("Backup compression failed")
	}

	logger.Info("Backup complete")
}
