// Package logging builds the zap logger shared by the services, the server and the CLI.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console-encoded logger that writes entries at or above level to w.
func New(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return NewAtomic(zap.NewAtomicLevelAt(lvl), w), nil
}

// NewAtomic is New with a level the caller can raise or lower later,
// e.g. when --verbose is parsed after the logger was built.
func NewAtomic(lvl zap.AtomicLevel, w io.Writer) *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		lvl,
	)
	return zap.New(core)
}

// Nop returns a logger that discards everything. Used by tests and by callers
// that never configured one.
func Nop() *zap.Logger {
	return zap.NewNop()
}
