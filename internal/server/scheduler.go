package server

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartBackupScheduler runs backup on every tick of schedule until ctx is
// cancelled. The schedule is a standard 5-field cron expression or a
// descriptor such as "@daily" or "@every 1h". An empty schedule disables
// the scheduler; the returned channel is closed once the loop has exited.
func StartBackupScheduler(ctx context.Context, schedule string, backup func() error, logger *zap.Logger) (<-chan struct{}, error) {
	done := make(chan struct{})

	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		logger.Debug("scheduled backups disabled (backup_schedule not set)")
		close(done)
		return done, nil
	}

	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		close(done)
		return done, err
	}
	logger.Info("scheduled backups enabled", zap.String("schedule", schedule))

	go func() {
		defer close(done)
		for {
			now := time.Now()
			next := sched.Next(now)
			wait := next.Sub(now)
			logger.Debug("next backup", zap.Time("at", next), zap.Duration("in", wait.Round(time.Second)))

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if err := backup(); err != nil {
				logger.Error("scheduled backup failed", zap.Error(err))
				continue
			}
			logger.Info("scheduled backup created")
		}
	}()

	return done, nil
}
