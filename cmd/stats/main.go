// Package main provides a one-shot stats generation runner, useful after a
// restore or when the cached manifest is suspect.
package main

import (
	"fmt"
	"log"

	"github.com/stellar-collector/internal/config"
	"github.com/stellar-collector/internal/logging"
	"github.com/stellar-collector/internal/maintenance"
)

func main() {
	fmt.Println("Stellar Collector Stats")

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

	if err := jobs.GenerateStats(); err != nil {
		logger.WithError(err).Fatal("Stats generation failed")
	}

	logger.WithField("path", cfg.StatsPath()).Info("Stats generated")
}
