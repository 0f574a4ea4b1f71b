package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/storage"
)

// RestoreBackup lists the available backups and restores backup n
// (the most recent when numStr is empty)
func RestoreBackup(deps *cli.Deps, numStr string) {
	if !deps.Services.Backup.Supported() {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", storage.ErrBackupsUnsupported)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Backups are kept next to the tracker file when storage_backend is 'file'")
		deps.Exit(1)
		return
	}

	backups, err := deps.Services.Backup.List()
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to list backups: %v\n", err)
		deps.Exit(1)
		return
	}

	if len(backups) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No backups available")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Available backups:")
	for _, backup := range backups {
		if backup.Number == 1 {
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s (most recent)\n", backup.Number, backup.Path)
		} else {
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s\n", backup.Number, backup.Path)
		}
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	backupNum := 1
	if numStr != "" {
		num, err := strconv.Atoi(numStr)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid backup number '%s'\n", numStr)
			deps.Exit(1)
			return
		}
		if num < 1 || num > storage.MaxBackupCount {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Backup number must be between 1 and %d (got %d)\n", storage.MaxBackupCount, num)
			deps.Exit(1)
			return
		}
		backupNum = num
	}

	if err := deps.Services.Backup.Restore(backupNum); err != nil {
		if errors.Is(err, storage.ErrBackupNotFound) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Backup %d does not exist\n", backupNum)
		} else {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to restore backup")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Successfully restored from backup %d\n", backupNum)
}
