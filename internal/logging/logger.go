package logging

import (
	"fmt"

	"github.com/genricoloni/nowrelay/internal/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger honouring the configured level.
// The returned level stays adjustable at runtime.
func NewLogger(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, zap.AtomicLevel{}, fmt.Errorf("invalid log level: %w", err)
		}
		zcfg.Level = level
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	return logger, zcfg.Level, nil
}

// NewFxLogger routes fx lifecycle events through zap
func NewFxLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log}
}

// WatchLevel applies log.level changes from the config file without a restart
func WatchLevel(cfg *config.Config, level zap.AtomicLevel, logger *zap.Logger) {
	watching := cfg.Watch(func(next *config.Config) {
		applyLevel(next.Log.Level, level, logger)
	})
	if watching {
		logger.Debug("Watching config file for log level changes")
	}
}

func applyLevel(raw string, level zap.AtomicLevel, logger *zap.Logger) {
	if raw == "" {
		return
	}
	l, err := zapcore.ParseLevel(raw)
	if err != nil {
		logger.Warn("Ignoring invalid log level from config reload", zap.String("level", raw))
		return
	}
	if level.Level() != l {
		level.SetLevel(l)
		logger.Info("Log level changed", zap.Stringer("level", l))
	}
}

// syncOnStop flushes buffered entries when the app stops
func syncOnStop(lc fx.Lifecycle, logger *zap.Logger) {
	lc.Append(fx.StopHook(func() {
		// stderr sync fails on some terminals
		_ = logger.Sync()
	}))
}

// Module provides the application logger. List it before other modules so
// its stop hook runs last.
var Module = fx.Module("logging",
	fx.Provide(NewLogger),
	fx.Invoke(syncOnStop, WatchLevel),
)
