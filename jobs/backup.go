package jobs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
)

const backupStampLayout = "2006-01-02_15-04-05"

// nextRun returns the next occurrence of hour:00 strictly after now.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// BackupUploads copies srcDir into a timestamped folder under backupDir and returns its path.
func BackupUploads(srcDir, backupDir string, now time.Time) (string, error) {
	dest := filepath.Join(backupDir, now.Format(backupStampLayout))
	if err := copyDir(srcDir, dest); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", srcDir, err)
	}
	return dest, nil
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// CleanupOldBackups removes backup folders modified before now-retention and returns how many went.
func CleanupOldBackups(backupDir string, retention time.Duration, now time.Time, log logger.Logger) int {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error("failed to read backup directory", "dir", backupDir, "error", err)
		}
		return 0
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		folder := filepath.Join(backupDir, entry.Name())
		if err := os.RemoveAll(folder); err != nil {
			log.Error("failed to remove old backup", "dir", folder, "error", err)
			continue
		}
		log.Info("removed old backup", "dir", folder)
		removed++
	}
	return removed
}
