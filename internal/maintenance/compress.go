package maintenance

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/stellar-collector/internal/errors"
	"github.com/stellar-collector/internal/models"
)

// CompressBackups produces gzip-compressed copies of the latest backups in
// the downloads directory and writes the downloads manifest describing
// them. Runs in the background after the maintenance window; downloads of
// backups may fail briefly while the images are being replaced.
func (j *Jobs) CompressBackups() error {
	if err := os.MkdirAll(j.cfg.Data.DownloadsDir, 0o755); err != nil {
		return errors.NewMaintenanceError("backup compression", err)
	}

	var downloads []models.BackupDownload

	for _, db := range j.databases() {
		source := filepath.Join(j.cfg.Data.BackupDir, db.Name())
		target := filepath.Join(j.cfg.Data.DownloadsDir, db.Name()+".gz")

		started := time.Now()
		if err := gzipFile(source, target); err != nil {
			return errors.NewMaintenanceError("backup compression", err)
		}

		checksum, err := fileSHA256(target)
		if err != nil {
			return errors.NewMaintenanceError("backup compression", err)
		}

		info, err := os.Stat(target)
		if err != nil {
			return errors.NewMaintenanceError("backup compression", err)
		}

		j.logger.WithFields(map[string]interface{}{
			"file":     db.Name() + ".gz",
			"size":     info.Size(),
			"duration": time.Since(started).String(),
		}).Info("Compressed backup")

		downloads = append(downloads, models.BackupDownload{
			Name:    db.Name(),
			URL:     fmt.Sprintf("%s/%s.gz", j.cfg.Data.DownloadsBaseURL, db.Name()),
			Size:    info.Size(),
			Created: time.Now().UTC().Format(time.RFC3339),
			SHA256:  checksum,
		})
	}

	data, err := json.MarshalIndent(downloads, "", "  ")
	if err != nil {
		return errors.NewMaintenanceError("backup compression", err)
	}
	if err := os.WriteFile(j.cfg.DownloadsManifestPath(), data, 0o644); err != nil {
		return errors.NewMaintenanceError("backup compression", err)
	}

	return nil
}

// gzipFile compresses source into target
func gzipFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// fileSHA256 returns the hex-encoded SHA-256 digest of a file's contents
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
