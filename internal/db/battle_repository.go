package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/udisondev/squadfall/internal/game/battle"
	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/sim"
)

const battleColumns = `id, scenario, seed, outcome, ticks, elapsed_ms,
	player_remaining, enemy_remaining, score, deaths, squad_losses,
	combat_events, attack_damage, poison_damage, last_death_x, last_death_y, finished_at`

// BattleRepository stores finished battle results.
// Implements sim.ResultSink.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a new BattleRepository.
func NewBattleRepository(pool *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: pool}
}

var _ sim.ResultSink = (*BattleRepository)(nil)

// Save inserts a battle result. Saving the same ID twice overwrites the row.
func (r *BattleRepository) Save(ctx context.Context, res sim.Result) error {
	return insertBattle(ctx, r.db, res)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertBattle(ctx context.Context, q execer, res sim.Result) error {
	if res.ID == uuid.Nil {
		return fmt.Errorf("saving battle: empty id")
	}
	finished := res.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	_, err := q.Exec(ctx,
		`INSERT INTO battles (`+battleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (id) DO UPDATE SET
		   outcome = EXCLUDED.outcome,
		   ticks = EXCLUDED.ticks,
		   elapsed_ms = EXCLUDED.elapsed_ms,
		   player_remaining = EXCLUDED.player_remaining,
		   enemy_remaining = EXCLUDED.enemy_remaining,
		   score = EXCLUDED.score,
		   deaths = EXCLUDED.deaths,
		   squad_losses = EXCLUDED.squad_losses,
		   combat_events = EXCLUDED.combat_events,
		   attack_damage = EXCLUDED.attack_damage,
		   poison_damage = EXCLUDED.poison_damage,
		   last_death_x = EXCLUDED.last_death_x,
		   last_death_y = EXCLUDED.last_death_y,
		   finished_at = EXCLUDED.finished_at`,
		res.ID, res.Scenario, int64(res.Seed), res.Outcome.String(),
		int64(res.Ticks), res.Elapsed.Milliseconds(),
		int64(res.PlayerRemaining), int64(res.EnemyRemaining), res.Score,
		res.Deaths, res.SquadLosses, res.CombatEvents,
		res.AttackDamage, res.PoisonDamage,
		res.LastDeath.X, res.LastDeath.Y, finished,
	)
	if err != nil {
		return fmt.Errorf("saving battle %s: %w", res.ID, err)
	}
	return nil
}

// Get loads a battle result by ID.
// Returns ErrBattleNotFound if there is no such battle.
func (r *BattleRepository) Get(ctx context.Context, id uuid.UUID) (sim.Result, error) {
	row := r.db.QueryRow(ctx, `SELECT `+battleColumns+` FROM battles WHERE id = $1`, id)
	res, err := scanBattle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return sim.Result{}, ErrBattleNotFound
	}
	if err != nil {
		return sim.Result{}, fmt.Errorf("loading battle %s: %w", id, err)
	}
	return res, nil
}

// ListRecent returns up to limit battles, newest first.
func (r *BattleRepository) ListRecent(ctx context.Context, limit int) ([]sim.Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+battleColumns+` FROM battles ORDER BY finished_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying battles: %w", err)
	}
	defer rows.Close()

	var out []sim.Result
	for rows.Next() {
		res, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning battle: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battles: %w", err)
	}
	return out, nil
}

// CountByOutcome returns the number of stored battles per outcome.
func (r *BattleRepository) CountByOutcome(ctx context.Context) (map[battle.Outcome]int, error) {
	rows, err := r.db.Query(ctx, `SELECT outcome, COUNT(*) FROM battles GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("querying outcome counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[battle.Outcome]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning outcome count: %w", err)
		}
		o, err := battle.ParseOutcome(name)
		if err != nil {
			return nil, err
		}
		counts[o] += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outcome counts: %w", err)
	}
	return counts, nil
}

func scanBattle(row pgx.Row) (sim.Result, error) {
	var (
		res            sim.Result
		seed, ticks    int64
		elapsedMS      int64
		player, enemy  int64
		outcome        string
		deathX, deathY float32
	)
	err := row.Scan(
		&res.ID, &res.Scenario, &seed, &outcome, &ticks, &elapsedMS,
		&player, &enemy, &res.Score, &res.Deaths, &res.SquadLosses,
		&res.CombatEvents, &res.AttackDamage, &res.PoisonDamage,
		&deathX, &deathY, &res.FinishedAt,
	)
	if err != nil {
		return sim.Result{}, err
	}

	res.Outcome, err = battle.ParseOutcome(outcome)
	if err != nil {
		return sim.Result{}, err
	}
	res.Seed = uint64(seed)
	res.Ticks = uint64(ticks)
	res.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	res.PlayerRemaining = uint32(player)
	res.EnemyRemaining = uint32(enemy)
	res.LastDeath = model.NewLocation(deathX, deathY)
	return res, nil
}
