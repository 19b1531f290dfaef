package app

import (
	"fmt"
	"log/slog"

	"diversim/internal/config"
	"diversim/internal/sims/schelling"
)

// Resolve layers the preset, the configuration file and the -set overrides
// in that order and validates the result.
func (c *Config) Resolve() (*config.Config, error) {
	cfg, err := config.LoadWithPreset(c.ConfigPath, c.Preset)
	if err != nil {
		return nil, err
	}
	cfg.World = cfg.World.Apply(c.Set)
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NewWorld builds the world described by cfg.
func NewWorld(cfg *config.Config, log *slog.Logger) (*schelling.World, error) {
	w, err := schelling.NewWithConfig(cfg.World, schelling.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	log.Info("world ready", "size", cfg.World.Size, "degree", cfg.World.VertexDegree,
		"types", cfg.World.NumTypes, "utility", cfg.World.Utility, "dynamics", cfg.World.Dynamics)
	return w, nil
}
