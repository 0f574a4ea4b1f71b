package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xolan/certtrack/internal/storage"
)

// BackupService lists, creates and restores backups of the stored document.
// Only stores implementing storage.BackupStore support it.
type BackupService struct {
	owner  *documentOwner
	logger *zap.Logger
}

// NewBackupService creates a new BackupService
func NewBackupService(owner *documentOwner, logger *zap.Logger) *BackupService {
	return &BackupService{owner: owner, logger: logger}
}

// Supported reports whether the configured store keeps backups.
func (s *BackupService) Supported() bool {
	_, ok := s.owner.store.(storage.BackupStore)
	return ok
}

// List returns the available backups, most recent first.
func (s *BackupService) List() ([]storage.BackupInfo, error) {
	var backups []storage.BackupInfo
	err := s.withBackupStore(func(bs storage.BackupStore) error {
		var err error
		backups, err = bs.ListBackups()
		return err
	})
	return backups, err
}

// Create copies the current document into the newest backup slot.
func (s *BackupService) Create() error {
	err := s.withBackupStore(func(bs storage.BackupStore) error {
		return bs.CreateBackup()
	})
	if err == nil {
		s.logger.Info("backup created", zap.String("store", s.owner.store.Location()))
	}
	return err
}

// Restore replaces the document with backup n (1 is the most recent).
func (s *BackupService) Restore(n int) error {
	err := s.withBackupStore(func(bs storage.BackupStore) error {
		return bs.RestoreBackup(n)
	})
	if err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	s.logger.Info("backup restored", zap.Int("backup", n), zap.String("store", s.owner.store.Location()))
	return nil
}

func (s *BackupService) withBackupStore(fn func(storage.BackupStore) error) error {
	return s.owner.locked(func(store storage.Store) error {
		bs, ok := store.(storage.BackupStore)
		if !ok {
			return storage.ErrBackupsUnsupported
		}
		return fn(bs)
	})
}
