package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xolan/certtrack/internal/cli"
	"github.com/xolan/certtrack/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker over HTTP",
	Long: `Serve the tracker as a JSON API until interrupted.

GET and PUT /timeTrackerData read and replace the whole document, so another
certtrack configured with storage_backend = "http" can use this server as its
store. /courses, /hours, /stats and /categories expose the individual operations.

When backup_schedule is set (e.g. "@daily" or "0 * * * *") and the file
backend is used, backups are created on that schedule while serving.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, ok := ready()
		if !ok {
			return
		}
		addr, _ := cmd.Flags().GetString("addr")
		level, _ := cmd.Flags().GetString("log-level")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runServer(ctx, deps, addr, level)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: listen_addr from the config)")
	serveCmd.Flags().String("log-level", "info", "Log level while serving (debug, info, warn, error)")
}

func runServer(ctx context.Context, deps *cli.Deps, addr, level string) {
	cfg := deps.Services.Config.Get()
	if addr == "" {
		addr = cfg.ListenAddr
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid log level '%s'\n", level)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use debug, info, warn or error")
		deps.Exit(1)
		return
	}
	if !deps.LogLevel.Enabled(zapcore.DebugLevel) {
		deps.LogLevel.SetLevel(lvl)
	}
	logger := deps.Logger.Named("serve")

	schedule := cfg.BackupSchedule
	if schedule != "" && !deps.Services.Backup.Supported() {
		logger.Warn("backup_schedule ignored: backups need the file backend", zap.String("backend", cfg.StorageBackend))
		schedule = ""
	}
	done, err := server.StartBackupScheduler(ctx, schedule, deps.Services.Backup.Create, logger)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Invalid backup_schedule")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Serving certtrack on http://%s (Ctrl+C to stop)\n", addr)
	srv := server.New(deps.Services, logger)
	if err := srv.Run(ctx, addr); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to serve on %s\n", addr)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that the address is free, or pass another one with --addr")
		deps.Exit(1)
		return
	}
	<-done
}
