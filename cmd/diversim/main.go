package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"diversim/internal/config"
	"diversim/internal/initcache"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "diversim",
		Short: "Typed-agent grid simulator",
		Long: `diversim places typed agents on an n-dimensional grid and lets them swap
positions under a utility policy until no acceptable swap remains.

Settings come from built-in defaults, an optional YAML file (--config),
DIVERSIM_* environment variables and finally command-line flags.`,
		SilenceUsage: true,
		Version:      version,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("preset", "", "Built-in world preset ("+strings.Join(config.PresetNames(), ", ")+")")
	rootCmd.PersistentFlags().StringArray("set", nil, "World override as key=value (size=20x20, degree=8, utility=entropy, ...)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("format", "", "Output format: text, json, yaml")

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newNeighborsCmd(),
		newPresetsCmd(),
	)
	return rootCmd
}

// loadConfig resolves the layered configuration for a command.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	preset, _ := cmd.Flags().GetString("preset")
	cfg, err := config.LoadWithPreset(path, preset)
	if err != nil {
		return nil, err
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	if len(sets) > 0 {
		overrides := make(map[string]string, len(sets))
		for _, kv := range sets {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("invalid --set %q: want key=value", kv)
			}
			overrides[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		cfg.World = cfg.World.Apply(overrides)
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.Run.Format = v
	}
	if cmd.Flags().Changed("seed") {
		cfg.World.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.Run.MaxSteps, _ = cmd.Flags().GetInt("max-steps")
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Backend, _ = cmd.Flags().GetString("cache")
	}
	if cmd.Flags().Changed("cache-path") {
		cfg.Cache.Path, _ = cmd.Flags().GetString("cache-path")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// addRunFlags registers the flags shared by run and sweep.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("seed", 0, "Seed for initialization and random dynamics")
	cmd.Flags().Int("max-steps", 0, "Step attempts per run (0 runs until convergence)")
	cmd.Flags().String("cache", "", "Initialization cache: none, memory, sqlite")
	cmd.Flags().String("cache-path", "", "SQLite cache file")
}

// openCache returns the configured initialization cache and its closer.
func openCache(ctx context.Context, cfg config.CacheConfig) (initcache.Cache, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.CacheMemory:
		return initcache.NewMemory(), noop, nil
	case config.CacheSQLite:
		c, err := initcache.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
	return nil, noop, nil
}
