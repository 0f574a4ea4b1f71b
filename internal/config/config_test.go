package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xolan/certtrack/internal/osutil"
)

// Helper to create a temporary config file
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return tmpFile
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvStorageBackend, EnvStoragePath, EnvRemoteURL, EnvListenAddr, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StorageBackend != BackendFile {
		t.Errorf("DefaultConfig().StorageBackend = %q, expected %q", cfg.StorageBackend, BackendFile)
	}
	if cfg.DefaultCategory != "Auto-detect" {
		t.Errorf("DefaultConfig().DefaultCategory = %q, expected %q", cfg.DefaultCategory, "Auto-detect")
	}
	if !cfg.CountTowardCompleted {
		t.Error("DefaultConfig().CountTowardCompleted should be true")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("DefaultConfig().LogLevel = %q, expected %q", cfg.LogLevel, "warn")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() does not validate: %v", err)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		check         func(t *testing.T, cfg Config)
	}{
		{
			name: "all fields set",
			configContent: `storage_backend = "http"
storage_path = "/tmp/ignored.json"
remote_url = "http://localhost:3000/"
default_category = "Udemy"
count_toward_completed = false
listen_addr = ":8080"
backup_schedule = "@daily"
log_level = "debug"`,
			check: func(t *testing.T, cfg Config) {
				if cfg.StorageBackend != BackendHTTP {
					t.Errorf("StorageBackend = %q", cfg.StorageBackend)
				}
				if cfg.RemoteURL != "http://localhost:3000" {
					t.Errorf("RemoteURL = %q, trailing slash should be trimmed", cfg.RemoteURL)
				}
				if cfg.DefaultCategory != "Udemy" {
					t.Errorf("DefaultCategory = %q", cfg.DefaultCategory)
				}
				if cfg.CountTowardCompleted {
					t.Error("CountTowardCompleted should be false")
				}
				if cfg.ListenAddr != ":8080" || cfg.BackupSchedule != "@daily" || cfg.LogLevel != "debug" {
					t.Errorf("unexpected config: %+v", cfg)
				}
			},
		},
		{
			name:          "mixed case backend normalized",
			configContent: `storage_backend = " SQLite "`,
			check: func(t *testing.T, cfg Config) {
				if cfg.StorageBackend != BackendSQLite {
					t.Errorf("StorageBackend = %q, expected %q", cfg.StorageBackend, BackendSQLite)
				}
			},
		},
		{
			name:          "partial config keeps defaults",
			configContent: `log_level = "info"`,
			check: func(t *testing.T, cfg Config) {
				defaults := DefaultConfig()
				if cfg.StorageBackend != defaults.StorageBackend || cfg.ListenAddr != defaults.ListenAddr {
					t.Errorf("unset keys lost their defaults: %+v", cfg)
				}
				if !cfg.CountTowardCompleted {
					t.Error("CountTowardCompleted default should survive a partial file")
				}
			},
		},
		{
			name:          "empty file",
			configContent: "",
			check: func(t *testing.T, cfg Config) {
				if cfg != DefaultConfig() {
					t.Errorf("Load() of empty file = %+v, expected defaults", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(createTempConfigFile(t, tt.configContent))
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does_not_exist.toml"))
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
	}{
		{"malformed TOML", `storage_backend = "file`},
		{"invalid syntax", `this is not valid TOML at all`},
		{"missing quotes", `storage_backend = file`},
		{"wrong type", `count_toward_completed = "yes"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(createTempConfigFile(t, tt.configContent))
			if err == nil {
				t.Fatal("Load() should return error for invalid TOML")
			}
			if !strings.Contains(err.Error(), "failed to parse config file") {
				t.Errorf("Error message should mention parsing failure, got: %v", err)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		expectedErr   error
	}{
		{"unknown backend", `storage_backend = "postgres"`, ErrInvalidBackend},
		{"http without url", `storage_backend = "http"`, ErrMissingRemoteURL},
		{"bad log level", `log_level = "loud"`, ErrInvalidLogLevel},
		{"bad schedule", `backup_schedule = "every tuesday"`, ErrInvalidSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(createTempConfigFile(t, tt.configContent))
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("Load() error = %v, expected %v", err, tt.expectedErr)
			}
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() returned unexpected error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadOrDefault() = %+v, expected defaults", cfg)
	}
}

func TestLoadOrDefault_ExistingInvalidFile(t *testing.T) {
	_, err := LoadOrDefault(createTempConfigFile(t, `storage_backend = "nope"`))
	if err == nil {
		t.Error("LoadOrDefault() should return error for invalid config values")
	}
}

func TestLoadOrDefault_StatError(t *testing.T) {
	parentDir := filepath.Join(t.TempDir(), "parent")
	if err := os.Mkdir(parentDir, 0755); err != nil {
		t.Fatalf("Failed to create parent directory: %v", err)
	}
	if err := os.Chmod(parentDir, 0000); err != nil {
		t.Skipf("Cannot change directory permissions: %v", err)
	}
	defer func() { _ = os.Chmod(parentDir, 0755) }()

	if _, err := os.Stat(filepath.Join(parentDir, ConfigFile)); err == nil || os.IsNotExist(err) {
		t.Skip("running with privileges that bypass directory permissions")
	}

	if _, err := LoadOrDefault(filepath.Join(parentDir, ConfigFile)); err == nil {
		t.Error("LoadOrDefault() should return error when os.Stat fails with permission error")
	}
}

func TestResolve_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := createTempConfigFile(t, `storage_backend = "file"
log_level = "warn"`)

	t.Setenv(EnvStorageBackend, "HTTP")
	t.Setenv(EnvRemoteURL, "http://example.test/")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvListenAddr, ":9999")
	t.Setenv(EnvStoragePath, "/data/tracker.json")

	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() returned unexpected error: %v", err)
	}
	if cfg.StorageBackend != BackendHTTP {
		t.Errorf("StorageBackend = %q, expected %q", cfg.StorageBackend, BackendHTTP)
	}
	if cfg.RemoteURL != "http://example.test" {
		t.Errorf("RemoteURL = %q", cfg.RemoteURL)
	}
	if cfg.LogLevel != "debug" || cfg.ListenAddr != ":9999" || cfg.StoragePath != "/data/tracker.json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestResolve_EmptyEnvKeepsFileValues(t *testing.T) {
	clearEnv(t)
	cfg, err := Resolve(createTempConfigFile(t, `listen_addr = ":7000"`))
	if err != nil {
		t.Fatalf("Resolve() returned unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":7000" {
		t.Errorf("ListenAddr = %q, expected %q", cfg.ListenAddr, ":7000")
	}
}

func TestResolve_InvalidOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvStorageBackend, "mongo")

	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, ErrInvalidBackend) {
		t.Errorf("Resolve() error = %v, expected ErrInvalidBackend", err)
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{
		StorageBackend:  "  FILE ",
		RemoteURL:       " http://host:3000// ",
		DefaultCategory: "   ",
		LogLevel:        "INFO",
	}
	cfg.Normalize()

	if cfg.StorageBackend != BackendFile {
		t.Errorf("StorageBackend = %q", cfg.StorageBackend)
	}
	if cfg.RemoteURL != "http://host:3000" {
		t.Errorf("RemoteURL = %q", cfg.RemoteURL)
	}
	if cfg.DefaultCategory != "Auto-detect" {
		t.Errorf("DefaultCategory = %q, expected default", cfg.DefaultCategory)
	}
	if cfg.ListenAddr != DefaultConfig().ListenAddr {
		t.Errorf("ListenAddr = %q, expected default", cfg.ListenAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestValidate_ValidSchedules(t *testing.T) {
	for _, schedule := range []string{"", "@daily", "@every 1h", "0 * * * *", "30 2 * * 1-5"} {
		t.Run(schedule, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.BackupSchedule = schedule
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() returned unexpected error for %q: %v", schedule, err)
			}
		})
	}
}

func TestGenerateSampleConfig(t *testing.T) {
	content := GenerateSampleConfig()

	expectedStrings := []string{
		"# certtrack configuration file",
		"# storage_backend",
		"# storage_path",
		"# remote_url",
		"# default_category",
		"# count_toward_completed",
		"# listen_addr",
		"# backup_schedule",
		"# log_level",
		"timeTrackerData",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(content, expected) {
			t.Errorf("GenerateSampleConfig() missing expected content: %q", expected)
		}
	}

	// every value is commented out, so the sample decodes to the defaults
	cfg, err := Load(createTempConfigFile(t, content))
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("sample config = %+v, expected defaults", cfg)
	}
}

func TestGetConfigPath(t *testing.T) {
	defer osutil.ResetProvider()
	tmpDir := t.TempDir()

	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) { return tmpDir, nil },
		mkdirAllFn:      os.MkdirAll,
	})

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned unexpected error: %v", err)
	}
	expected := filepath.Join(tmpDir, osutil.AppName, ConfigFile)
	if path != expected {
		t.Errorf("GetConfigPath() = %q, expected %q", path, expected)
	}
}

func TestGetConfigPath_UserConfigDirError(t *testing.T) {
	defer osutil.ResetProvider()

	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) { return "", os.ErrPermission },
	})

	if _, err := GetConfigPath(); err == nil {
		t.Error("GetConfigPath() should return error when UserConfigDir fails")
	}
}

func TestGetConfigPath_MkdirAllError(t *testing.T) {
	defer osutil.ResetProvider()
	tmpDir := t.TempDir()

	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) { return tmpDir, nil },
		mkdirAllFn:      func(string, os.FileMode) error { return os.ErrPermission },
	})

	if _, err := GetConfigPath(); err == nil {
		t.Error("GetConfigPath() should return error when MkdirAll fails")
	}
}

// mockPathProvider is a test helper for mocking osutil.PathProvider
type mockPathProvider struct {
	userConfigDirFn func() (string, error)
	mkdirAllFn      func(path string, perm os.FileMode) error
}

func (m *mockPathProvider) UserConfigDir() (string, error) {
	if m.userConfigDirFn != nil {
		return m.userConfigDirFn()
	}
	return "", nil
}

func (m *mockPathProvider) MkdirAll(path string, perm os.FileMode) error {
	if m.mkdirAllFn != nil {
		return m.mkdirAllFn(path, perm)
	}
	return nil
}
