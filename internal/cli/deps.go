package cli

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xolan/certtrack/internal/config"
	"github.com/xolan/certtrack/internal/logging"
	"github.com/xolan/certtrack/internal/service"
)

// Deps contains all dependencies for CLI operations
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Exit   func(code int)

	// Services
	Services *service.Services

	Logger   *zap.Logger
	LogLevel zap.AtomicLevel

	// InitErr is set when the services could not be created, e.g. because
	// the config file is invalid. Commands report it through Ready.
	InitErr error
}

// DefaultDeps creates a new Deps from the user's config file
func DefaultDeps() *Deps {
	level := zap.NewAtomicLevelAt(zap.WarnLevel)
	logger := logging.NewAtomic(level, os.Stderr)

	services, err := service.NewServices(logger)
	if err == nil {
		if lvl, perr := zapcore.ParseLevel(services.Config.Get().LogLevel); perr == nil {
			level.SetLevel(lvl)
		}
	}

	return &Deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		Exit:     os.Exit,
		Services: services,
		Logger:   logger,
		LogLevel: level,
		InitErr:  err,
	}
}

// NewDeps creates a new Deps with the given services
func NewDeps(services *service.Services) *Deps {
	return &Deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		Exit:     os.Exit,
		Services: services,
		Logger:   logging.Nop(),
		LogLevel: zap.NewAtomicLevelAt(zap.WarnLevel),
	}
}

// Ready reports whether the services are usable. When they are not it prints
// the initialization error and exits with status 1.
func (d *Deps) Ready() bool {
	if d.InitErr == nil && d.Services != nil {
		return true
	}

	err := d.InitErr
	if err == nil {
		err = fmt.Errorf("services not initialized")
	}
	_, _ = fmt.Fprintln(d.Stderr, "Error: Failed to initialize certtrack")
	_, _ = fmt.Fprintf(d.Stderr, "Details: %v\n", err)
	if path, perr := config.GetConfigPath(); perr == nil {
		_, _ = fmt.Fprintf(d.Stderr, "Hint: Check the config file at %s and the CERTTRACK_* environment variables\n", path)
	}
	d.Exit(1)
	return false
}

// Verbose switches logging to debug.
func (d *Deps) Verbose() {
	d.LogLevel.SetLevel(zap.DebugLevel)
}

// Global deps instance for CLI
var deps = DefaultDeps()

// SetDeps sets the global deps (for testing)
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets to default deps
func ResetDeps() {
	deps = DefaultDeps()
}

// GetDeps returns the current deps
func GetDeps() *Deps {
	return deps
}
