// Package experiment drives worlds to convergence and sweeps seeds
// concurrently, one independent World per seed.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"diversim/internal/dynamics"
	"diversim/internal/initcache"
	"diversim/internal/logging"
	"diversim/internal/metrics"
	"diversim/internal/sims/schelling"
	"diversim/internal/utility"
)

// ErrUnbounded indicates a run that could never stop: dynamics that do not
// converge without a step budget.
var ErrUnbounded = errors.New("experiment: random dynamics need a positive step budget")

// cancelCheckInterval is how many step attempts pass between context checks.
const cancelCheckInterval = 256

// Result records one run.
type Result struct {
	Seed         int64           `json:"seed" yaml:"seed"`
	Steps        int             `json:"steps" yaml:"steps"`
	Attempts     int             `json:"attempts" yaml:"attempts"`
	Converged    bool            `json:"converged" yaml:"converged"`
	Distribution []int           `json:"distribution" yaml:"distribution"`
	Initial      metrics.Summary `json:"initial" yaml:"initial"`
	Final        metrics.Summary `json:"final" yaml:"final"`
	Elapsed      time.Duration   `json:"elapsed" yaml:"elapsed"`
	Size         []int           `json:"size,omitempty" yaml:"size,omitempty"`
	Types        []int           `json:"types,omitempty" yaml:"types,omitempty"`
}

// Runner holds the settings shared by every run.
type Runner struct {
	World    schelling.Config
	MaxSteps int
	Workers  int
	Cache    initcache.Cache
	Logger   *slog.Logger
	// Policies score social welfare; nil means utility.Diversity().
	Policies []utility.Policy
	// KeepTypes records the final assignment in each Result.
	KeepTypes bool
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.Discard()
	}
	return r.Logger
}

// Run builds a world for seed and steps it until convergence, the step
// budget or cancellation. Cancellation is only observed between steps.
func (r *Runner) Run(ctx context.Context, seed int64) (Result, error) {
	if r.MaxSteps <= 0 && r.World.Dynamics == dynamics.NameRandom {
		return Result{}, ErrUnbounded
	}
	cfg := r.World
	cfg.Seed = seed
	log := r.logger().With("seed", seed)

	opts := []schelling.Option{schelling.WithLogger(log)}
	if r.Cache != nil {
		opts = append(opts, schelling.WithInitCache(r.Cache))
	}
	start := time.Now()
	w, err := schelling.NewWithConfig(cfg, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("seed %d: %w", seed, err)
	}

	res := Result{
		Seed:    seed,
		Initial: metrics.Summarize(w, r.Policies...),
	}
	for r.MaxSteps <= 0 || res.Attempts < r.MaxSteps {
		if res.Attempts%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		res.Attempts++
		w.Step()
		if w.Done() {
			break
		}
	}
	res.Steps = w.Steps()
	res.Converged = w.Done()
	res.Distribution = w.TypeDistribution()
	res.Final = metrics.Summarize(w, r.Policies...)
	res.Elapsed = time.Since(start)
	if r.KeepTypes {
		res.Size = w.Shape().Size()
		res.Types = w.Snapshot()
	}
	log.Info("run finished", "steps", res.Steps, "attempts", res.Attempts,
		"converged", res.Converged, "elapsed", res.Elapsed)
	return res, nil
}

// Sweep runs every seed with at most Workers runs in flight and returns the
// results in seed order. The first failure cancels the remaining runs.
func (r *Runner) Sweep(ctx context.Context, seeds []int64) ([]Result, error) {
	results := make([]Result, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Workers, 1))
	for i, seed := range seeds {
		g.Go(func() error {
			res, err := r.Run(ctx, seed)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Seeds returns n consecutive seeds starting at first.
func Seeds(first int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = first + int64(i)
	}
	return seeds
}
