package sim

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/data"
	"github.com/udisondev/squadfall/internal/game/battle"
)

// ResultSink persists finished battles (the battle repository in production).
type ResultSink interface {
	Save(ctx context.Context, r Result) error
}

// Runner plays a batch of seeded battles of one scenario.
// Battles share nothing but the read-only balance table, so they run in parallel.
type Runner struct {
	scenario *Scenario
	table    *data.Table
	cfg      config.Simulation
	sink     ResultSink
}

// NewRunner creates a batch runner. sink may be nil.
func NewRunner(sc *Scenario, table *data.Table, cfg config.Simulation, sink ResultSink) *Runner {
	return &Runner{scenario: sc, table: table, cfg: cfg, sink: sink}
}

// Seed returns the seed of run i: SeedBase + i*SeedStep.
func (r *Runner) Seed(i int) uint64 {
	return uint64(r.cfg.Runner.SeedBase + int64(i)*r.cfg.Runner.SeedStep)
}

// Run plays cfg.Runner.Runs battles with at most Parallelism in flight.
// Results are ordered by run index. The first failure cancels the rest.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	runs := r.cfg.Runner.Runs
	results := make([]Result, max(runs, 0))

	g, gctx := errgroup.WithContext(ctx)
	if p := r.cfg.Runner.Parallelism; p > 0 {
		g.SetLimit(p)
	}

	dt := r.cfg.Runner.FrameDelta()
	maxTicks := uint64(max(r.cfg.Runner.MaxTicks, 0))

	for i := range runs {
		g.Go(func() error {
			b, err := NewBattle(r.scenario, r.table, r.cfg, r.Seed(i), nil)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			res, err := b.Run(gctx, maxTicks, dt)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			if r.sink != nil {
				if err := r.sink.Save(gctx, res); err != nil {
					return fmt.Errorf("run %d: saving result: %w", i, err)
				}
			}
			results[i] = res

			slog.Debug("battle finished",
				"run", i,
				"seed", res.Seed,
				"outcome", res.Outcome.String(),
				"ticks", res.Ticks,
				"player_remaining", res.PlayerRemaining,
				"enemy_remaining", res.EnemyRemaining)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Report aggregates a batch of results.
type Report struct {
	Runs      int
	Victories int
	Defeats   int
	Timeouts  int
	AvgTicks  float64
	AvgScore  float64
	WinRate   float64
}

// Summarize builds a Report from results.
func Summarize(results []Result) Report {
	rep := Report{Runs: len(results)}
	if rep.Runs == 0 {
		return rep
	}
	var ticks, score float64
	for _, r := range results {
		switch r.Outcome {
		case battle.Victory:
			rep.Victories++
		case battle.Defeat:
			rep.Defeats++
		default:
			rep.Timeouts++
		}
		ticks += float64(r.Ticks)
		score += float64(r.Score)
	}
	n := float64(rep.Runs)
	rep.AvgTicks = ticks / n
	rep.AvgScore = score / n
	rep.WinRate = float64(rep.Victories) / n
	return rep
}
