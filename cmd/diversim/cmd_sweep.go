package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"diversim/internal/experiment"
	"diversim/internal/logging"
)

type sweepReport struct {
	Results   []experiment.Result  `json:"results" yaml:"results"`
	Aggregate experiment.Aggregate `json:"aggregate" yaml:"aggregate"`
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run consecutive seeds concurrently and aggregate the results",
		Long: `Sweep runs --runs worlds seeded from --seed upwards, at most --workers at
a time, and reports every run together with the averaged final measures.

Examples:
  diversim sweep --runs 50 --workers 8 --cache sqlite
  diversim sweep --config experiment.yaml --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("runs") {
				cfg.Run.Runs, _ = cmd.Flags().GetInt("runs")
			}
			if cmd.Flags().Changed("workers") {
				cfg.Run.Workers, _ = cmd.Flags().GetInt("workers")
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			cache, closeCache, err := openCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return fmt.Errorf("failed to open init cache: %w", err)
			}
			defer closeCache()

			log := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
			runner := &experiment.Runner{
				World:    cfg.World,
				MaxSteps: cfg.Run.MaxSteps,
				Workers:  cfg.Run.Workers,
				Cache:    cache,
				Logger:   log,
			}
			log.Info("starting sweep", "runs", cfg.Run.Runs, "workers", cfg.Run.Workers, "first_seed", cfg.World.Seed)
			results, err := runner.Sweep(cmd.Context(), experiment.Seeds(cfg.World.Seed, cfg.Run.Runs))
			if err != nil {
				return err
			}
			report := sweepReport{Results: results, Aggregate: experiment.Summarize(results)}
			return writeOutput(cmd.OutOrStdout(), cfg.Run.Format, report, func(p *printer) {
				for _, res := range results {
					p.result(res)
					p.line("")
				}
				p.aggregate(report.Aggregate)
			})
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Int("runs", 0, "Number of seeds to run")
	cmd.Flags().Int("workers", 0, "Concurrent runs")
	return cmd
}
