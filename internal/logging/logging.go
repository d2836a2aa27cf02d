package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the logger for one CLI run. With a path, JSON lines go to that
// file (the browse TUI owns the terminal). With debug and no path, a console
// logger writes to stderr. Otherwise logging is disabled.
//
// The returned func flushes buffered entries and should be deferred.
func New(debug bool, path string) (*zap.Logger, func(), error) {
	var cfg zap.Config
	switch {
	case path != "":
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
		cfg.Sampling = nil
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if debug {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
	case debug:
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	default:
		return zap.NewNop(), func() {}, nil
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}
