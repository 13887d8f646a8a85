// Package campaign tracks progress across battles and drives the
// preparation → battle → result phase machine.
package campaign

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/game/battle"
)

// HistoryLen is the number of battle slots kept in the campaign history.
const HistoryLen = 15

// ErrGameOver is returned when a battle is recorded or started after the campaign ended.
var ErrGameOver = errors.New("campaign is over")

// Progress хранит состояние кампании: раунд, счёт побед и поражений, историю боёв.
type Progress struct {
	Round   int
	Wins    int
	Losses  int
	History [HistoryLen]battle.Outcome

	limits config.Campaign
}

// NewProgress starts a campaign at round 1.
func NewProgress(limits config.Campaign) *Progress {
	return &Progress{Round: 1, limits: limits}
}

// Limits returns the campaign limits.
func (p *Progress) Limits() config.Campaign { return p.limits }

// Battles returns the number of recorded battles.
func (p *Progress) Battles() int { return p.Wins + p.Losses }

// IsGameOver reports whether the campaign has ended:
// losses >= MaxLosses OR wins >= WinsToFinish OR round >= MaxRounds.
func (p *Progress) IsGameOver() bool {
	return p.Losses >= p.limits.MaxLosses ||
		p.Wins >= p.limits.WinsToFinish ||
		p.Round >= p.limits.MaxRounds
}

// Won reports whether the campaign ended by reaching the win target.
func (p *Progress) Won() bool {
	return p.Wins >= p.limits.WinsToFinish
}

// RecordBattle records a finished battle. Victory advances the round, Defeat does not.
// Recording after game over leaves the state unchanged and returns ErrGameOver.
func (p *Progress) RecordBattle(outcome battle.Outcome) error {
	if p.IsGameOver() {
		slog.Warn("battle recorded after game over",
			"outcome", outcome.String(),
			"round", p.Round,
			"wins", p.Wins,
			"losses", p.Losses)
		return ErrGameOver
	}

	switch outcome {
	case battle.Victory:
		p.setHistory(outcome)
		p.Wins++
		p.Round++
	case battle.Defeat:
		p.setHistory(outcome)
		p.Losses++
	default:
		return fmt.Errorf("recording battle: outcome %s is not final", outcome)
	}
	return nil
}

// setHistory writes the slot of the battle being recorded.
// Slots are indexed by battle number, so a lost round and its replay both stay visible.
func (p *Progress) setHistory(outcome battle.Outcome) {
	if i := p.Battles(); i < HistoryLen {
		p.History[i] = outcome
	}
}
