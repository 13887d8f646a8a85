package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/squadfall/internal/api"
	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/data"
	"github.com/udisondev/squadfall/internal/db"
	"github.com/udisondev/squadfall/internal/game/campaign"
	"github.com/udisondev/squadfall/internal/sim"
)

const ConfigPath = "config/battlesim.yaml"

type flags struct {
	config   string
	runs     int
	seed     int64
	serve    bool
	campaign string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	f := flags{config: ConfigPath}
	if p := os.Getenv("SQUADFALL_CONFIG"); p != "" {
		f.config = p
	}
	flag.StringVar(&f.config, "config", f.config, "path to simulator config")
	flag.IntVar(&f.runs, "runs", 0, "number of battles in batch mode (overrides config)")
	flag.Int64Var(&f.seed, "seed", -1, "base seed (overrides config)")
	flag.BoolVar(&f.serve, "serve", false, "serve the HTTP/websocket API instead of a batch run")
	flag.StringVar(&f.campaign, "campaign", "", "campaign id to resume (requires database)")
	flag.Parse()

	if err := run(ctx, f); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	cfg, err := config.LoadSimulation(f.config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if f.runs > 0 {
		cfg.Runner.Runs = f.runs
	}
	if f.seed >= 0 {
		cfg.Runner.SeedBase = f.seed
	}
	if f.serve {
		cfg.API.Enabled = true
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("battlesim starting", "log_level", cfg.LogLevel, "config", f.config)

	table, err := data.LoadFile(cfg.BalancePath)
	if err != nil {
		return fmt.Errorf("loading balance: %w", err)
	}
	scenario, err := sim.LoadScenario(cfg.ScenarioPath)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	slog.Info("data loaded", "unit_kinds", table.Len(), "scenario", scenario.Name, "squads", len(scenario.Squads))

	var (
		battles   *db.BattleRepository
		campaigns *db.CampaignRepository
	)
	if cfg.Database.Enabled {
		database, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		version, err := db.RunMigrations(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database ready", "host", cfg.Database.Host, "dbname", cfg.Database.DBName, "schema_version", version)

		battles = db.NewBattleRepository(database.Pool())
		campaigns = db.NewCampaignRepository(database.Pool())
	} else if f.campaign != "" {
		return errors.New("resuming a campaign requires database.enabled")
	}

	if cfg.API.Enabled {
		return serve(ctx, cfg, scenario, table, battles, campaigns, f.campaign)
	}
	return batch(ctx, cfg, scenario, table, battles)
}

func batch(ctx context.Context, cfg config.Simulation, sc *sim.Scenario, table *data.Table, battles *db.BattleRepository) error {
	var sink sim.ResultSink
	if battles != nil {
		sink = battles
	}

	runner := sim.NewRunner(sc, table, cfg, sink)
	results, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("running batch: %w", err)
	}

	for _, r := range results {
		slog.Debug("battle result",
			"battle", r.ID,
			"seed", r.Seed,
			"outcome", r.Outcome.String(),
			"ticks", r.Ticks,
			"player_remaining", r.PlayerRemaining,
			"enemy_remaining", r.EnemyRemaining)
	}

	rep := sim.Summarize(results)
	slog.Info("batch finished",
		"scenario", sc.Name,
		"runs", rep.Runs,
		"victories", rep.Victories,
		"defeats", rep.Defeats,
		"timeouts", rep.Timeouts,
		"win_rate", rep.WinRate,
		"avg_ticks", rep.AvgTicks,
		"avg_score", rep.AvgScore)
	return nil
}

func serve(ctx context.Context, cfg config.Simulation, sc *sim.Scenario, table *data.Table,
	battles *db.BattleRepository, campaigns *db.CampaignRepository, resume string) error {
	opts := api.Options{}
	if battles != nil {
		opts.Battles = battles
		opts.Campaigns = campaigns
	}

	if resume != "" {
		id, err := uuid.Parse(resume)
		if err != nil {
			return fmt.Errorf("parsing campaign id: %w", err)
		}
		snap, err := campaigns.Load(ctx, id)
		if err != nil {
			return fmt.Errorf("resuming campaign: %w", err)
		}
		opts.Campaign = campaign.Restore(snap, cfg.Campaign)
		slog.Info("campaign resumed", "campaign", id, "phase", opts.Campaign.Phase(), "round", snap.Round)
	}

	srv := api.NewServer(cfg, sc, table, opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	return g.Wait()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
