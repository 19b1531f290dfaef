// Package config loads diversim run configuration from YAML files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"diversim/internal/logging"
	"diversim/internal/sims/schelling"
)

// Config contains every setting of a diversim run.
type Config struct {
	// Preset names a built-in world that replaces the world defaults before
	// the file's own world settings apply.
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`

	// World configures the grid, population and policies.
	World schelling.Config `json:"world" yaml:"world"`

	// Run bounds and fans out the simulation.
	Run RunConfig `json:"run" yaml:"run"`

	// Cache configures reuse of initial assignments.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// RunConfig bounds a run and controls the seed sweep.
type RunConfig struct {
	// MaxSteps caps the step attempts per run; 0 runs until convergence.
	MaxSteps int `json:"max_steps" yaml:"max_steps"`

	// Runs is the number of consecutive seeds a sweep covers, starting at
	// the world seed.
	Runs int `json:"runs" yaml:"runs"`

	// Workers limits how many sweep runs execute concurrently.
	Workers int `json:"workers" yaml:"workers"`

	// Format selects the result encoding: "text", "json" or "yaml".
	Format string `json:"format" yaml:"format"`
}

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
)

// CacheConfig selects the initialization cache.
type CacheConfig struct {
	// Backend is "none" (default), "memory" or "sqlite".
	Backend string `json:"backend" yaml:"backend"`

	// Path is the SQLite database file.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LoggingConfig configures the stderr logger.
type LoggingConfig struct {
	// Level sets the log verbosity: "trace", "debug", "info" (default),
	// "warn" or "error".
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults. The world wraps on every
// axis unless wrap flags are given.
func Default() *Config {
	world := schelling.DefaultConfig()
	world.Wrap = nil
	return &Config{
		World: world,
		Run: RunConfig{
			MaxSteps: 0,
			Runs:     1,
			Workers:  4,
			Format:   "text",
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			Path:    ".diversim/init-cache.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and environment variable overrides, in that order.
func Load(path string) (*Config, error) {
	return LoadWithPreset(path, "")
}

// LoadWithPreset is Load with preset taking the place of the file's own
// preset key. The file's world settings still refine the preset.
func LoadWithPreset(path, preset string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: reading config file: %w", err)
		}
	}
	config, err := parse(data, preset)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		return nil, err
	}
	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration on top of the defaults. A preset is
// applied first so the document's world settings refine it.
func Parse(data []byte) (*Config, error) {
	return parse(data, "")
}

// parse decodes data over the defaults. A non-empty preset overrides the
// document's preset key.
func parse(data []byte, preset string) (*Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if preset == "" {
		preset = head.Preset
	}
	config := Default()
	if preset != "" {
		world, err := Preset(preset)
		if err != nil {
			return nil, err
		}
		config.World = world
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	config.Preset = preset
	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	if c.Run.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative, got %d", c.Run.MaxSteps)
	}
	if c.Run.Runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", c.Run.Runs)
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Run.Workers)
	}
	validFormats := map[string]bool{"text": true, "json": true, "yaml": true}
	if !validFormats[c.Run.Format] {
		return fmt.Errorf("invalid format: %s (valid: text, json, yaml)", c.Run.Format)
	}
	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory:
	case CacheSQLite:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (valid: none, memory, sqlite)", c.Cache.Backend)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: trace, debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}

// applyEnvOverrides applies DIVERSIM_* environment variables to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("DIVERSIM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.World.Seed = n
		}
	}
	if v := os.Getenv("DIVERSIM_UTILITY"); v != "" {
		config.World.Utility = v
	}
	if v := os.Getenv("DIVERSIM_DYNAMICS"); v != "" {
		config.World.Dynamics = v
	}
	if v := os.Getenv("DIVERSIM_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Run.MaxSteps = n
		}
	}
	if v := os.Getenv("DIVERSIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Run.Workers = n
		}
	}
	if v := os.Getenv("DIVERSIM_CACHE_BACKEND"); v != "" {
		config.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("DIVERSIM_CACHE_PATH"); v != "" {
		config.Cache.Path = v
	}
	if v := os.Getenv("DIVERSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
