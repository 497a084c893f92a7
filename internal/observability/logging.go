// Package observability provides logging utilities for the loadout tools.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/ironclad/internal/config"
	"github.com/cory-johannsen/ironclad/internal/game/loadout"
)

// NewLogger creates a structured logger from the given logging configuration.
// Output goes to stderr so that it never interleaves with console output on stdout.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// EventLogger returns a loadout subscriber that records each engine notification at
// debug level together with the engine's current active slot.
//
// Precondition: logger and e must be non-nil.
func EventLogger(logger *zap.Logger, e *loadout.Engine) func(loadout.Event) {
	return func(ev loadout.Event) {
		logger.Debug("loadout event",
			zap.Stringer("event", ev),
			zap.Stringer("state", e.State()),
			zap.Stringer("active_slot", e.ActiveSlotIndex()),
			zap.Int("slots", e.SlotCount()),
		)
	}
}
