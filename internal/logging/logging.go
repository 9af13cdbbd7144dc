// Package logging provides helpers to construct a configured zap.Logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger returns a production JSON zap.Logger at the provided level.
// Supported levels: debug, info, warn, error. Unknown levels fall back to
// info.
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = parseLevel(level)
	return cfg.Build()
}

func parseLevel(level string) zap.AtomicLevel {
	lvl := strings.ToLower(strings.TrimSpace(level))
	if lvl == "warning" {
		lvl = "warn"
	}
	atomic, err := zap.ParseAtomicLevel(lvl)
	if err != nil {
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return atomic
}
