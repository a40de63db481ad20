// Package config provides configuration management for the collector service.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Feed        FeedConfig
	Server      ServerConfig
	Data        DataConfig
	Retention   RetentionConfig
	Maintenance MaintenanceConfig
	Logging     LoggingConfig
}

// FeedConfig holds the upstream pub/sub feed configuration
type FeedConfig struct {
	URL string
}

// ServerConfig holds the status endpoint server configuration
type ServerConfig struct {
	Host         string
	Port         string
	CacheControl string
}

// DataConfig holds filesystem layout configuration
type DataConfig struct {
	DataDir          string
	CacheDir         string
	BackupDir        string
	DownloadsDir     string
	DownloadsBaseURL string
}

// RetentionConfig holds data retention thresholds enforced during maintenance
type RetentionConfig struct {
	TradeMaxAgeDays        int
	FleetCarrierMaxAgeDays int
	RescueShipMaxAgeDays   int
}

// MaintenanceConfig holds maintenance and stats scheduling configuration.
// Cron specs use the standard 5-field format, evaluated in UTC.
type MaintenanceConfig struct {
	CronSpec      string
	StatsCronSpec string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	dataDir := getEnv("COLLECTOR_DATA_DIR", "./data")

	config := &Config{
		Feed: FeedConfig{
			URL: getEnv("COLLECTOR_FEED_URL", "tcp://eddn.edcd.io:9500"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "3002"),
			CacheControl: getEnv("SERVER_CACHE_CONTROL",
				"public, max-age=900, stale-while-revalidate=3600, stale-if-error=3600"),
		},
		Data: DataConfig{
			DataDir:          dataDir,
			CacheDir:         getEnv("COLLECTOR_CACHE_DIR", filepath.Join(dataDir, "cache")),
			BackupDir:        getEnv("COLLECTOR_BACKUP_DIR", "./backup"),
			DownloadsDir:     getEnv("COLLECTOR_DOWNLOADS_DIR", "./downloads"),
			DownloadsBaseURL: getEnv("COLLECTOR_DOWNLOADS_BASE_URL", "https://downloads.example.com"),
		},
		Retention: RetentionConfig{
			TradeMaxAgeDays:        getEnvAsInt("RETENTION_TRADE_MAX_AGE_DAYS", 90),
			FleetCarrierMaxAgeDays: getEnvAsInt("RETENTION_FLEET_CARRIER_MAX_AGE_DAYS", 90),
			RescueShipMaxAgeDays:   getEnvAsInt("RETENTION_RESCUE_SHIP_MAX_AGE_DAYS", 7),
		},
		Maintenance: MaintenanceConfig{
			// Weekly maintenance aligned with the game's own Thursday window
			CronSpec:      getEnv("MAINTENANCE_CRON", "0 7 * * 4"),
			StatsCronSpec: getEnv("STATS_CRON", "0 * * * *"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// SystemsDBPath returns the path of the systems datastore file
func (c *Config) SystemsDBPath() string { return filepath.Join(c.Data.DataDir, "systems.db") }

// LocationsDBPath returns the path of the locations datastore file
func (c *Config) LocationsDBPath() string { return filepath.Join(c.Data.DataDir, "locations.db") }

// StationsDBPath returns the path of the stations datastore file
func (c *Config) StationsDBPath() string { return filepath.Join(c.Data.DataDir, "stations.db") }

// TradeDBPath returns the path of the trade datastore file
func (c *Config) TradeDBPath() string { return filepath.Join(c.Data.DataDir, "trade.db") }

// BackupLogPath returns the path of the append-only backup lifecycle log
func (c *Config) BackupLogPath() string { return filepath.Join(c.Data.BackupDir, "backup.log") }

// StatsPath returns the path of the generated stats manifest consumed by the
// status endpoint
func (c *Config) StatsPath() string {
	return filepath.Join(c.Data.CacheDir, "database-stats.json")
}

// DownloadsManifestPath returns the path of the backup downloads manifest
func (c *Config) DownloadsManifestPath() string {
	return filepath.Join(c.Data.DownloadsDir, "backup-downloads.json")
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
