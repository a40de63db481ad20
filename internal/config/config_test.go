package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Set some test environment variables
	if err := os.Setenv("SERVER_PORT", "9090"); err != nil {
		t.Fatalf("Failed to set SERVER_PORT: %v", err)
	}
	if err := os.Setenv("COLLECTOR_DATA_DIR", "/var/lib/collector"); err != nil {
		t.Fatalf("Failed to set COLLECTOR_DATA_DIR: %v", err)
	}
	if err := os.Setenv("RETENTION_TRADE_MAX_AGE_DAYS", "30"); err != nil {
		t.Fatalf("Failed to set RETENTION_TRADE_MAX_AGE_DAYS: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("SERVER_PORT")
		_ = os.Unsetenv("COLLECTOR_DATA_DIR")
		_ = os.Unsetenv("RETENTION_TRADE_MAX_AGE_DAYS")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, "9090")
	}

	if cfg.Data.DataDir != "/var/lib/collector" {
		t.Errorf("Data.DataDir = %v, want %v", cfg.Data.DataDir, "/var/lib/collector")
	}

	if cfg.Retention.TradeMaxAgeDays != 30 {
		t.Errorf("Retention.TradeMaxAgeDays = %v, want 30", cfg.Retention.TradeMaxAgeDays)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Feed.URL != "tcp://eddn.edcd.io:9500" {
		t.Errorf("Feed.URL = %v", cfg.Feed.URL)
	}
	if cfg.Server.Port != "3002" {
		t.Errorf("Server.Port = %v, want 3002", cfg.Server.Port)
	}
	if cfg.Retention.TradeMaxAgeDays != 90 {
		t.Errorf("Retention.TradeMaxAgeDays = %v, want 90", cfg.Retention.TradeMaxAgeDays)
	}
	if cfg.Retention.FleetCarrierMaxAgeDays != 90 {
		t.Errorf("Retention.FleetCarrierMaxAgeDays = %v, want 90", cfg.Retention.FleetCarrierMaxAgeDays)
	}
	if cfg.Retention.RescueShipMaxAgeDays != 7 {
		t.Errorf("Retention.RescueShipMaxAgeDays = %v, want 7", cfg.Retention.RescueShipMaxAgeDays)
	}
	if cfg.Maintenance.CronSpec != "0 7 * * 4" {
		t.Errorf("Maintenance.CronSpec = %v", cfg.Maintenance.CronSpec)
	}
	if cfg.Maintenance.StatsCronSpec != "0 * * * *" {
		t.Errorf("Maintenance.StatsCronSpec = %v", cfg.Maintenance.StatsCronSpec)
	}
}

func TestPathHelpers(t *testing.T) {
	if err := os.Setenv("COLLECTOR_DATA_DIR", "/data"); err != nil {
		t.Fatalf("Failed to set COLLECTOR_DATA_DIR: %v", err)
	}
	if err := os.Setenv("COLLECTOR_BACKUP_DIR", "/backup"); err != nil {
		t.Fatalf("Failed to set COLLECTOR_BACKUP_DIR: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("COLLECTOR_DATA_DIR")
		_ = os.Unsetenv("COLLECTOR_BACKUP_DIR")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"systems", cfg.SystemsDBPath(), filepath.Join("/data", "systems.db")},
		{"locations", cfg.LocationsDBPath(), filepath.Join("/data", "locations.db")},
		{"stations", cfg.StationsDBPath(), filepath.Join("/data", "stations.db")},
		{"trade", cfg.TradeDBPath(), filepath.Join("/data", "trade.db")},
		{"backup log", cfg.BackupLogPath(), filepath.Join("/backup", "backup.log")},
		{"stats", cfg.StatsPath(), filepath.Join("/data", "cache", "database-stats.json")},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s path = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		want         int
	}{
		{
			name:         "returns integer when valid",
			key:          "TEST_INT",
			defaultValue: 100,
			envValue:     "200",
			want:         200,
		},
		{
			name:         "returns default when invalid",
			key:          "TEST_INT_INVALID",
			defaultValue: 100,
			envValue:     "invalid",
			want:         100,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_INT_NOTSET",
			defaultValue: 100,
			envValue:     "",
			want:         100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				if err := os.Setenv(tt.key, tt.envValue); err != nil {
					t.Fatalf("Failed to set env var: %v", err)
				}
				defer func() {
					_ = os.Unsetenv(tt.key)
				}()
			}

			got := getEnvAsInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvAsInt() = %v, want %v", got, tt.want)
			}
		})
	}
}
