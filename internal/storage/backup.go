package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
	// MaxBackupCount is the maximum number of backup files to keep
	MaxBackupCount = 3
)

var (
	ErrInvalidBackupNumber = errors.New("invalid backup number")
	ErrBackupNotFound      = errors.New("backup does not exist")
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Number int    // The backup number (1 is the most recent)
	Path   string // The full path to the backup file
}

// GetBackupPathForStorage returns the path of backup n for the document at storagePath,
// e.g. tracker.json.bak.1. Lower numbers are more recent.
func GetBackupPathForStorage(storagePath string, n int) string {
	return fmt.Sprintf("%s%s.%d", storagePath, BackupSuffix, n)
}

// rotateBackups shifts .bak.1 -> .bak.2 -> .bak.3 and drops the oldest.
// Missing files are skipped.
func rotateBackups(storagePath string) error {
	oldestPath := GetBackupPathForStorage(storagePath, MaxBackupCount)
	if err := os.Remove(oldestPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	for i := MaxBackupCount - 1; i >= 1; i-- {
		currentPath := GetBackupPathForStorage(storagePath, i)
		nextPath := GetBackupPathForStorage(storagePath, i+1)
		if err := os.Rename(currentPath, nextPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// CreateBackup rotates existing backups and copies the document to .bak.1.
// If the document doesn't exist yet, nothing happens.
func CreateBackup(storagePath string) error {
	if _, err := os.Stat(storagePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := rotateBackups(storagePath); err != nil {
		return err
	}

	return copyFile(storagePath, GetBackupPathForStorage(storagePath, 1))
}

// ListBackupsForStorage returns existing backups, most recent first.
func ListBackupsForStorage(storagePath string) ([]BackupInfo, error) {
	backups := []BackupInfo{}

	for i := 1; i <= MaxBackupCount; i++ {
		backupPath := GetBackupPathForStorage(storagePath, i)
		if _, err := os.Stat(backupPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		backups = append(backups, BackupInfo{Number: i, Path: backupPath})
	}

	return backups, nil
}

// RestoreBackupForStorage replaces the document with backup n.
// The backup must decode as a tracker document. The current document is
// backed up first, so the restored backup moves to .bak.2.
func RestoreBackupForStorage(storagePath string, backupNum int) error {
	if backupNum < 1 || backupNum > MaxBackupCount {
		return fmt.Errorf("%w %d, must be between 1 and %d", ErrInvalidBackupNumber, backupNum, MaxBackupCount)
	}

	backupPath := GetBackupPathForStorage(storagePath, backupNum)
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %d", ErrBackupNotFound, backupNum)
		}
		return err
	}
	if _, err := decodeDocument(data); err != nil {
		return fmt.Errorf("backup %d is corrupted: %w", backupNum, err)
	}

	if err := os.MkdirAll(filepath.Dir(storagePath), 0755); err != nil {
		return err
	}
	if err := CreateBackup(storagePath); err != nil {
		return err
	}

	return writeFileAtomic(storagePath, data)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sourceFile.Close() }()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}
	return destFile.Close()
}
