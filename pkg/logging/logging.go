// Package logging builds the logr.Logger used across vspwrap, backed by zap.
package logging

import (
	"fmt"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chazu/vspwrap/pkg/config"
)

// ParseLevel accepts a zap level name ("debug", "info", "warn", "error")
// or an integer. Negative integers enable logr verbosity: "-1" shows V(1)
// messages, "-2" shows V(2).
func ParseLevel(s string) (zapcore.Level, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return zapcore.Level(n), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging: invalid level %q: %w", s, err)
	}
	return lvl, nil
}

// New returns a logger configured from cfg and a flush function to call
// before exit.
func New(cfg config.LogConfig) (logr.Logger, func(), error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return logr.Discard(), func() {}, err
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}

	zl, err := zc.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("logging: build: %w", err)
	}
	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}
