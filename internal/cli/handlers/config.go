package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/config"
)

// ConfigKeys lists the keys accepted by SetConfig, in display order.
var ConfigKeys = []string{
	"storage_backend",
	"storage_path",
	"remote_url",
	"default_category",
	"count_toward_completed",
	"listen_addr",
	"backup_schedule",
	"log_level",
}

// ShowConfig displays the current configuration
func ShowConfig(deps *cli.Deps) {
	cfg := deps.Services.Config.Get()
	path := deps.Services.Config.GetPath()

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Config file: %s\n", path)
	if deps.Services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: File exists")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: Using defaults (no config file)")
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	for _, key := range ConfigKeys {
		value, _ := configValue(cfg, key)
		if value == "" {
			value = "(not set)"
		}
		_, _ = fmt.Fprintf(deps.Stdout, "%-23s %s\n", key+":", value)
	}

	if !deps.Services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout)
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'certtrack config init' to create a config file with every option documented.")
	}
}

// InitConfig creates a sample config file
func InitConfig(deps *cli.Deps) {
	err := deps.Services.Config.Init()
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	path := deps.Services.Config.GetPath()
	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", path)
	_, _ = fmt.Fprintln(deps.Stdout, "Edit this file to customize your settings.")
}

// SetConfig changes one key and writes the config file
func SetConfig(deps *cli.Deps, key, value string) {
	cfg := deps.Services.Config.Get()

	switch key {
	case "storage_backend":
		cfg.StorageBackend = value
	case "storage_path":
		cfg.StoragePath = value
	case "remote_url":
		cfg.RemoteURL = value
	case "default_category":
		cfg.DefaultCategory = value
	case "count_toward_completed":
		b, err := strconv.ParseBool(value)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid value '%s' for %s\n", value, key)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use true or false")
			deps.Exit(1)
			return
		}
		cfg.CountTowardCompleted = b
	case "listen_addr":
		cfg.ListenAddr = value
	case "backup_schedule":
		cfg.BackupSchedule = value
	case "log_level":
		cfg.LogLevel = value
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unknown config key '%s'\n", key)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Valid keys: %s\n", strings.Join(ConfigKeys, ", "))
		deps.Exit(1)
		return
	}

	if err := deps.Services.Config.Update(cfg); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to update configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	updated, _ := configValue(deps.Services.Config.Get(), key)
	_, _ = fmt.Fprintf(deps.Stdout, "Set %s = %s\n", key, updated)
	_, _ = fmt.Fprintf(deps.Stdout, "Saved to %s\n", deps.Services.Config.GetPath())
}

func configValue(cfg config.Config, key string) (string, bool) {
	switch key {
	case "storage_backend":
		return cfg.StorageBackend, true
	case "storage_path":
		return cfg.StoragePath, true
	case "remote_url":
		return cfg.RemoteURL, true
	case "default_category":
		return cfg.DefaultCategory, true
	case "count_toward_completed":
		return strconv.FormatBool(cfg.CountTowardCompleted), true
	case "listen_addr":
		return cfg.ListenAddr, true
	case "backup_schedule":
		return cfg.BackupSchedule, true
	case "log_level":
		return cfg.LogLevel, true
	default:
		return "", false
	}
}
