package service

import (
	"go.uber.org/zap"

	"github.com/xolan/certtrack/internal/config"
	"github.com/xolan/certtrack/internal/storage"
)

// Services holds all service instances used by the application
type Services struct {
	Tracker *TrackerService
	Course  *CourseService
	Stats   *StatsService
	Config  *ConfigService
	Backup  *BackupService

	store storage.Store
}

// NewServices resolves the config file (with CERTTRACK_* overrides) and opens
// the configured store.
func NewServices(logger *zap.Logger) (*Services, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	return NewServicesWithStore(store, configPath, cfg, logger), nil
}

// OpenStore opens the backend selected by cfg.
func OpenStore(cfg config.Config) (storage.Store, error) {
	return storage.Open(storage.Options{
		Backend:   cfg.StorageBackend,
		Path:      cfg.StoragePath,
		RemoteURL: cfg.RemoteURL,
	})
}

// NewServicesWithStore creates a Services instance around an open store (useful for testing)
func NewServicesWithStore(store storage.Store, configPath string, cfg config.Config, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	owner := newDocumentOwner(store, logger)

	return &Services{
		Tracker: NewTrackerService(owner),
		Course:  NewCourseService(owner, cfg),
		Stats:   NewStatsService(owner),
		Config:  NewConfigService(configPath, cfg),
		Backup:  NewBackupService(owner, logger),
		store:   store,
	}
}

// Close releases the store.
func (s *Services) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}
