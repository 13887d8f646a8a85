package campaign

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/game/battle"
)

// Campaign phases.
const (
	PhasePreparation = "preparation"
	PhaseBattle      = "battle"
	PhaseVictory     = "victory"
	PhaseDefeat      = "defeat"
	PhaseGameOver    = "game_over"
)

// Phase machine events.
const (
	eventStartBattle = "start_battle"
	eventWin         = "win"
	eventLose        = "lose"
	eventNextRound   = "next_round"
	eventFinish      = "finish"
	eventAbort       = "abort"
)

// Campaign is the game-phase machine wrapped around Progress.
// The score of a battle is computed exactly once, when the battle phase is left.
// Not safe for concurrent use.
type Campaign struct {
	ID uuid.UUID

	progress *Progress
	cfg      config.Campaign
	machine  *fsm.FSM

	gold       int
	lastScore  float32
	totalScore float32
}

// New starts a fresh campaign in the preparation phase.
func New(cfg config.Campaign) *Campaign {
	return newCampaign(uuid.New(), NewProgress(cfg), PhasePreparation, cfg.StartingGold, 0, 0)
}

// Snapshot is the persisted form of a campaign.
type Snapshot struct {
	ID         uuid.UUID
	Phase      string
	Round      int
	Wins       int
	Losses     int
	History    [HistoryLen]battle.Outcome
	Gold       int
	LastScore  float32
	TotalScore float32
}

// Snapshot captures the campaign state.
func (c *Campaign) Snapshot() Snapshot {
	return Snapshot{
		ID:         c.ID,
		Phase:      c.Phase(),
		Round:      c.progress.Round,
		Wins:       c.progress.Wins,
		Losses:     c.progress.Losses,
		History:    c.progress.History,
		Gold:       c.gold,
		LastScore:  c.lastScore,
		TotalScore: c.totalScore,
	}
}

// Restore rebuilds a campaign from a snapshot.
// A campaign saved mid-battle resumes in preparation: the battle is replayed.
func Restore(s Snapshot, cfg config.Campaign) *Campaign {
	p := NewProgress(cfg)
	p.Round, p.Wins, p.Losses, p.History = s.Round, s.Wins, s.Losses, s.History

	phase := s.Phase
	switch phase {
	case PhasePreparation, PhaseVictory, PhaseDefeat, PhaseGameOver:
	default:
		phase = PhasePreparation
	}
	return newCampaign(s.ID, p, phase, s.Gold, s.LastScore, s.TotalScore)
}

func newCampaign(id uuid.UUID, p *Progress, phase string, gold int, last, total float32) *Campaign {
	c := &Campaign{
		ID:         id,
		progress:   p,
		cfg:        p.Limits(),
		gold:       gold,
		lastScore:  last,
		totalScore: total,
	}
	c.machine = fsm.NewFSM(
		phase,
		fsm.Events{
			{Name: eventStartBattle, Src: []string{PhasePreparation}, Dst: PhaseBattle},
			{Name: eventWin, Src: []string{PhaseBattle}, Dst: PhaseVictory},
			{Name: eventLose, Src: []string{PhaseBattle}, Dst: PhaseDefeat},
			{Name: eventNextRound, Src: []string{PhaseVictory, PhaseDefeat}, Dst: PhasePreparation},
			{Name: eventFinish, Src: []string{PhaseVictory, PhaseDefeat}, Dst: PhaseGameOver},
			{Name: eventAbort, Src: []string{PhaseBattle}, Dst: PhasePreparation},
		},
		fsm.Callbacks{
			"before_" + eventStartBattle: c.beforeStartBattle,
			"leave_" + PhaseBattle:       c.leaveBattle,
			"enter_" + PhaseVictory:      c.enterResult,
			"enter_" + PhaseDefeat:       c.enterResult,
			"enter_" + PhaseGameOver:     c.enterGameOver,
		},
	)
	return c
}

// Phase returns the current phase.
func (c *Campaign) Phase() string { return c.machine.Current() }

// Progress returns the campaign progress. Callers must not modify it.
func (c *Campaign) Progress() *Progress { return c.progress }

// Gold returns the player's gold.
func (c *Campaign) Gold() int { return c.gold }

// LastScore returns the score of the last finished battle.
func (c *Campaign) LastScore() float32 { return c.lastScore }

// TotalScore returns the sum of all battle scores.
func (c *Campaign) TotalScore() float32 { return c.totalScore }

// StartBattle moves from preparation to battle.
// Returns ErrGameOver if the campaign has already ended.
func (c *Campaign) StartBattle(ctx context.Context) error {
	if err := c.machine.Event(ctx, eventStartBattle); err != nil {
		return fmt.Errorf("starting battle: %w", err)
	}
	return nil
}

// FinishBattle leaves the battle phase with a final outcome and returns the
// battle score (remaining player units and gold, weighted).
func (c *Campaign) FinishBattle(ctx context.Context, outcome battle.Outcome, remaining uint32) (float32, error) {
	var ev string
	switch outcome {
	case battle.Victory:
		ev = eventWin
	case battle.Defeat:
		ev = eventLose
	default:
		return 0, fmt.Errorf("finishing battle: outcome %s is not final", outcome)
	}
	if err := c.machine.Event(ctx, ev, remaining, outcome); err != nil {
		return 0, fmt.Errorf("finishing battle: %w", err)
	}
	return c.lastScore, nil
}

// NextRound leaves the result phase: back to preparation, or to game over
// once a campaign limit is reached.
func (c *Campaign) NextRound(ctx context.Context) error {
	ev := eventNextRound
	if c.progress.IsGameOver() {
		ev = eventFinish
	}
	if err := c.machine.Event(ctx, ev); err != nil {
		return fmt.Errorf("advancing round: %w", err)
	}
	return nil
}

// AbortBattle returns an unfinished battle to preparation. Nothing is scored
// or recorded.
func (c *Campaign) AbortBattle(ctx context.Context) error {
	if err := c.machine.Event(ctx, eventAbort); err != nil {
		return fmt.Errorf("aborting battle: %w", err)
	}
	slog.Warn("battle aborted", "campaign", c.ID, "round", c.progress.Round)
	return nil
}

func (c *Campaign) beforeStartBattle(_ context.Context, e *fsm.Event) {
	if c.progress.IsGameOver() {
		e.Cancel(ErrGameOver)
	}
}

// leaveBattle computes the battle score. Runs once per finished battle.
func (c *Campaign) leaveBattle(_ context.Context, e *fsm.Event) {
	if e.Event == eventAbort {
		return
	}
	remaining, _ := e.Args[0].(uint32)
	c.lastScore = battle.Score(remaining, c.gold, c.cfg)
	c.totalScore += c.lastScore
}

func (c *Campaign) enterResult(_ context.Context, e *fsm.Event) {
	outcome, _ := e.Args[1].(battle.Outcome)
	if err := c.progress.RecordBattle(outcome); err != nil {
		e.Err = err
		return
	}
	if outcome == battle.Victory {
		c.gold += c.cfg.VictoryGold
	}
	slog.Info("battle finished",
		"campaign", c.ID,
		"outcome", outcome.String(),
		"score", c.lastScore,
		"round", c.progress.Round,
		"wins", c.progress.Wins,
		"losses", c.progress.Losses)
}

func (c *Campaign) enterGameOver(_ context.Context, _ *fsm.Event) {
	slog.Info("campaign over",
		"campaign", c.ID,
		"won", c.progress.Won(),
		"wins", c.progress.Wins,
		"losses", c.progress.Losses,
		"total_score", c.totalScore)
}
