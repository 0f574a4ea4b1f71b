package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"

	"github.com/xolan/certtrack/internal/course"
	"github.com/xolan/certtrack/internal/osutil"
)

// ConfigFile is the name of the TOML configuration file
const ConfigFile = "config.toml"

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

// Environment variables that override file values.
const (
	EnvStorageBackend = "CERTTRACK_STORAGE_BACKEND"
	EnvStoragePath    = "CERTTRACK_STORAGE_PATH"
	EnvRemoteURL      = "CERTTRACK_REMOTE_URL"
	EnvListenAddr     = "CERTTRACK_LISTEN_ADDR"
	EnvLogLevel       = "CERTTRACK_LOG_LEVEL"
)

var (
	ErrInvalidBackend   = errors.New("invalid storage_backend")
	ErrMissingRemoteURL = errors.New("remote_url is required for the http backend")
	ErrInvalidLogLevel  = errors.New("invalid log_level")
	ErrInvalidSchedule  = errors.New("invalid backup_schedule")
)

// Config represents the application configuration
type Config struct {
	// StorageBackend selects where the tracker document lives: file, sqlite or http
	StorageBackend string `toml:"storage_backend"`
	// StoragePath overrides the document location for the file and sqlite backends
	StoragePath string `toml:"storage_path"`
	// RemoteURL is the base URL of a json-server compatible remote (http backend)
	RemoteURL string `toml:"remote_url"`
	// DefaultCategory is used by add and import when no --category is given
	DefaultCategory string `toml:"default_category"`
	// CountTowardCompleted is the default for new entries
	CountTowardCompleted bool `toml:"count_toward_completed"`
	// ListenAddr is the address serve binds to
	ListenAddr string `toml:"listen_addr"`
	// BackupSchedule is a cron expression for periodic backups while serving; empty disables them
	BackupSchedule string `toml:"backup_schedule"`
	// LogLevel is the zap level used when --verbose is not given
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a Config with the values used when no file exists.
func DefaultConfig() Config {
	return Config{
		StorageBackend:       BackendFile,
		StoragePath:          "",
		RemoteURL:            "",
		DefaultCategory:      course.CategoryAutoDetect,
		CountTowardCompleted: true,
		ListenAddr:           "localhost:3001",
		BackupSchedule:       "",
		LogLevel:             "warn",
	}
}

// GetConfigPath returns the path to the config file, creating its directory if needed.
func GetConfigPath() (string, error) {
	return osutil.AppFile(ConfigFile)
}

// Load reads and validates the config file at path. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads the config file if it exists, otherwise returns defaults.
// Errors other than a missing file are returned.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}
	return Load(path)
}

// Resolve loads the config at path, applies CERTTRACK_* overrides and validates the result.
func Resolve(path string) (Config, error) {
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return cfg, err
	}

	cfg.ApplyEnv()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid environment override: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overwrites fields with non-empty CERTTRACK_* environment variables.
func (c *Config) ApplyEnv() {
	envOverride(&c.StorageBackend, EnvStorageBackend)
	envOverride(&c.StoragePath, EnvStoragePath)
	envOverride(&c.RemoteURL, EnvRemoteURL)
	envOverride(&c.ListenAddr, EnvListenAddr)
	envOverride(&c.LogLevel, EnvLogLevel)
}

// Normalize trims values, lowercases enumerations and fills blanks with defaults.
func (c *Config) Normalize() {
	defaults := DefaultConfig()

	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	if c.StorageBackend == "" {
		c.StorageBackend = defaults.StorageBackend
	}
	c.StoragePath = strings.TrimSpace(c.StoragePath)
	c.RemoteURL = strings.TrimRight(strings.TrimSpace(c.RemoteURL), "/")
	c.DefaultCategory = strings.TrimSpace(c.DefaultCategory)
	if c.DefaultCategory == "" {
		c.DefaultCategory = defaults.DefaultCategory
	}
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = defaults.ListenAddr
	}
	c.BackupSchedule = strings.TrimSpace(c.BackupSchedule)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}

// Validate checks the config. Call Normalize first.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile, BackendSQLite:
	case BackendHTTP:
		if c.RemoteURL == "" {
			return ErrMissingRemoteURL
		}
	default:
		return fmt.Errorf("%w %q: must be one of %s, %s, %s", ErrInvalidBackend, c.StorageBackend, BackendFile, BackendSQLite, BackendHTTP)
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidLogLevel, c.LogLevel, err)
	}

	if c.BackupSchedule != "" {
		if _, err := cron.ParseStandard(c.BackupSchedule); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidSchedule, c.BackupSchedule, err)
		}
	}
	return nil
}

// GenerateSampleConfig returns a commented sample config for `config init`.
func GenerateSampleConfig() string {
	return `# certtrack configuration file
# Uncomment and edit the values you want to change.

# Where the tracker document is stored: "file", "sqlite" or "http"
# storage_backend = "file"

# Document location for the file and sqlite backends.
# Defaults to tracker.json / tracker.db next to this file.
# storage_path = "/home/me/certtrack/tracker.json"

# Base URL of a json-server compatible remote, required for the http backend.
# The document is read and written at <remote_url>/timeTrackerData.
# remote_url = "http://localhost:3000"

# Category for new entries: a platform name, "Auto-detect" or any label
# default_category = "Auto-detect"

# Whether new entries add their duration to hours completed
# count_toward_completed = true

# Address used by "certtrack serve"
# listen_addr = "localhost:3001"

# Cron expression for periodic backups while serving, e.g. "@daily" or "0 * * * *"
# backup_schedule = ""

# Log level: debug, info, warn or error
# log_level = "warn"
`
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
