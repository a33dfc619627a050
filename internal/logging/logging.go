// Package logging builds the zap logger shared by every vessel component.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vessel/internal/config"
)

// Mode selects where log output goes.
type Mode int

const (
	// ModeStderr writes JSON logs to stderr.
	ModeStderr Mode = iota
	// ModeFile writes logs to the config dir so a full-screen UI stays clean.
	ModeFile
)

// New builds a logger from cfg. --debug switches to the development encoder
// at debug level; quiet runs only log warnings and above.
func New(cfg *config.Config, mode Mode) (*zap.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
		level = zapcore.DebugLevel
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
		if cfg.Quiet && level < zapcore.WarnLevel {
			level = zapcore.WarnLevel
		}
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if mode == ModeFile {
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		zc.OutputPaths = []string{cfg.LogPath()}
		zc.ErrorOutputPaths = []string{cfg.LogPath()}
	} else {
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named(config.AppName), nil
}

func parseLevel(name string) (zapcore.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log_level %q: %w", name, err)
	}
	return level, nil
}
