package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/newthinker/pairlens/internal/config"
)

// loadConfig reads --config, or the defaults when no file is given.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
