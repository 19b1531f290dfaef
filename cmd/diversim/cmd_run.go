package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"diversim/internal/experiment"
	"diversim/internal/logging"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one world until it converges or the step budget is spent",
		Long: `Run builds a single world from the configuration, steps it and reports
the initial and final diversity measures.

Examples:
  diversim run --preset grid8 --set utility=entropy
  diversim run --set size=10x10x10 --set degree=6 --max-steps 20000 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cache, closeCache, err := openCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return fmt.Errorf("failed to open init cache: %w", err)
			}
			defer closeCache()

			keep, _ := cmd.Flags().GetBool("types")
			runner := &experiment.Runner{
				World:     cfg.World,
				MaxSteps:  cfg.Run.MaxSteps,
				Cache:     cache,
				Logger:    logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
				KeepTypes: keep,
			}
			res, err := runner.Run(cmd.Context(), cfg.World.Seed)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), cfg.Run.Format, res, func(p *printer) {
				p.result(res)
			})
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Bool("types", false, "Include the final type assignment in the output")
	return cmd
}
