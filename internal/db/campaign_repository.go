package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/udisondev/squadfall/internal/game/battle"
	"github.com/udisondev/squadfall/internal/game/campaign"
	"github.com/udisondev/squadfall/internal/sim"
)

// CampaignRepository persists campaign snapshots.
type CampaignRepository struct {
	db *pgxpool.Pool
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{db: pool}
}

// Save upserts the campaign snapshot.
func (r *CampaignRepository) Save(ctx context.Context, s campaign.Snapshot) error {
	if err := upsertCampaign(ctx, r.db, s); err != nil {
		return fmt.Errorf("saving campaign %s: %w", s.ID, err)
	}
	return nil
}

// SaveRound stores the campaign snapshot and the battle that produced it
// in a single transaction.
func (r *CampaignRepository) SaveRound(ctx context.Context, s campaign.Snapshot, res sim.Result) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for campaign %s: %w", s.ID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "campaign", s.ID, "error", err)
		}
	}()

	if err := insertBattle(ctx, tx, res); err != nil {
		return err
	}
	if err := upsertCampaign(ctx, tx, s); err != nil {
		return fmt.Errorf("saving campaign %s: %w", s.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction for campaign %s: %w", s.ID, err)
	}

	slog.Debug("campaign round saved",
		"campaign", s.ID,
		"battle", res.ID,
		"round", s.Round,
		"phase", s.Phase)
	return nil
}

// Load returns the stored snapshot.
// Returns ErrCampaignNotFound if there is no such campaign.
func (r *CampaignRepository) Load(ctx context.Context, id uuid.UUID) (campaign.Snapshot, error) {
	var (
		s       campaign.Snapshot
		history []string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, phase, round, wins, losses, history, gold, last_score, total_score
		 FROM campaigns WHERE id = $1`, id,
	).Scan(&s.ID, &s.Phase, &s.Round, &s.Wins, &s.Losses, &history, &s.Gold, &s.LastScore, &s.TotalScore)
	if errors.Is(err, pgx.ErrNoRows) {
		return campaign.Snapshot{}, ErrCampaignNotFound
	}
	if err != nil {
		return campaign.Snapshot{}, fmt.Errorf("loading campaign %s: %w", id, err)
	}

	for i, name := range history {
		if i >= campaign.HistoryLen {
			break
		}
		o, err := battle.ParseOutcome(name)
		if err != nil {
			return campaign.Snapshot{}, fmt.Errorf("campaign %s history[%d]: %w", id, i, err)
		}
		s.History[i] = o
	}
	return s, nil
}

// Delete removes a campaign. Deleting a missing campaign is not an error.
func (r *CampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting campaign %s: %w", id, err)
	}
	return nil
}

func upsertCampaign(ctx context.Context, q execer, s campaign.Snapshot) error {
	history := make([]string, len(s.History))
	for i, o := range s.History {
		history[i] = o.String()
	}

	_, err := q.Exec(ctx,
		`INSERT INTO campaigns (id, phase, round, wins, losses, history, gold, last_score, total_score, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 ON CONFLICT (id) DO UPDATE SET
		   phase = EXCLUDED.phase,
		   round = EXCLUDED.round,
		   wins = EXCLUDED.wins,
		   losses = EXCLUDED.losses,
		   history = EXCLUDED.history,
		   gold = EXCLUDED.gold,
		   last_score = EXCLUDED.last_score,
		   total_score = EXCLUDED.total_score,
		   updated_at = NOW()`,
		s.ID, s.Phase, s.Round, s.Wins, s.Losses, history, s.Gold, s.LastScore, s.TotalScore,
	)
	return err
}
