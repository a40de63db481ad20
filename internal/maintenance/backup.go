package maintenance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/stellar-collector/internal/errors"
	"github.com/stellar-collector/internal/storage"
)

// backupTables maps each database file name to the tables whose row counts
// are verified after backup
var backupTables = map[string][]string{
	"systems.db":   {"systems"},
	"locations.db": {"locations"},
	"stations.db":  {"stations"},
	"trade.db":     {"commodities"},
}

// BackupReport summarizes one backup run
type BackupReport struct {
	ID        string                 `json:"id"`
	Started   string                 `json:"started"`
	Finished  string                 `json:"finished"`
	Databases []BackupDatabaseReport `json:"databases"`
}

// BackupDatabaseReport summarizes one database within a backup run
type BackupDatabaseReport struct {
	Name   string           `json:"name"`
	Size   int64            `json:"size"`
	Tables map[string]int64 `json:"tables"`
}

// Backup writes a compacted copy of every database into the backup
// directory, verifies each copy and appends lifecycle events to the backup
// log. A verification failure aborts the run: a bad backup silently kept
// would be worse than none.
func (j *Jobs) Backup() error {
	started := time.Now().UTC()
	report := BackupReport{
		ID:      uuid.NewString(),
		Started: started.Format(time.RFC3339),
	}

	if err := os.MkdirAll(j.cfg.Data.BackupDir, 0o755); err != nil {
		return errors.NewMaintenanceError("backup", err)
	}

	j.writeBackupLog(fmt.Sprintf("Starting backup %s", report.ID), false)

	for _, db := range j.databases() {
		target := filepath.Join(j.cfg.Data.BackupDir, db.Name())

		j.writeBackupLog(fmt.Sprintf("Backing up %s", db.Name()), false)
		if err := backupDatabase(db, target); err != nil {
			j.writeBackupLog(fmt.Sprintf("Backup of %s failed: %v", db.Name(), err), false)
			return errors.NewMaintenanceError("backup", err)
		}

		dbReport, err := j.verifyBackup(target, backupTables[db.Name()])
		if err != nil {
			j.writeBackupLog(fmt.Sprintf("Verification of %s failed: %v", db.Name(), err), false)
			return errors.NewMaintenanceError("backup", err)
		}
		j.writeBackupLog(fmt.Sprintf("Backup of %s is %d bytes", db.Name(), dbReport.Size), false)
		for table, rows := range dbReport.Tables {
			j.writeBackupLog(fmt.Sprintf("Backup of %s table '%s' has %d entries", db.Name(), table, rows), false)
		}

		report.Databases = append(report.Databases, dbReport)
	}

	report.Finished = time.Now().UTC().Format(time.RFC3339)
	j.writeBackupLog(fmt.Sprintf("Completed backup at %s", report.Finished), false)

	// Save the backup report to both the backup dir and the live data dir
	for _, dir := range []string{j.cfg.Data.BackupDir, j.cfg.Data.DataDir} {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.NewMaintenanceError("backup", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "backup-report.json"), data, 0o644); err != nil {
			return errors.NewMaintenanceError("backup", err)
		}
	}

	return nil
}

// backupDatabase replaces any prior backup at target with a fresh VACUUM
// INTO copy. Stale WAL sidecar files from older copies are removed first.
func backupDatabase(db *storage.DB, target string) error {
	for _, stale := range []string{target, target + "-journal", target + "-shm", target + "-wal"} {
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return db.BackupTo(target)
}

// verifyBackup checks a backup's file size and per-table row counts against
// the configured minimums
func (j *Jobs) verifyBackup(target string, tables []string) (BackupDatabaseReport, error) {
	report := BackupDatabaseReport{
		Name:   filepath.Base(target),
		Tables: make(map[string]int64),
	}

	info, err := os.Stat(target)
	if err != nil {
		return report, err
	}
	report.Size = info.Size()
	if report.Size < j.MinBackupSizeBytes {
		return report, fmt.Errorf("%s file size %d smaller than expected", target, report.Size)
	}

	db, err := storage.Open(target)
	if err != nil {
		return report, err
	}
	defer db.Close()

	for _, table := range tables {
		rows, err := db.QueryRowInt("SELECT COUNT(*) FROM " + table)
		if err != nil {
			return report, err
		}
		report.Tables[table] = rows
		if rows < j.MinBackupRows {
			return report, fmt.Errorf("%s row count %d for '%s' smaller than expected", target, rows, table)
		}
	}

	return report, nil
}

// writeBackupLog appends a timestamped line to the backup lifecycle log,
// or resets the log when reset is true
func (j *Jobs) writeBackupLog(text string, reset bool) {
	line := fmt.Sprintf("%s: %s\n", time.Now().UTC().Format(time.RFC3339), text)

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if reset {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	f, err := os.OpenFile(j.cfg.BackupLogPath(), flags, 0o644)
	if err != nil {
		j.logger.WithError(err).Error("Unable to write backup log")
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		j.logger.WithError(err).Error("Unable to write backup log")
	}
}
