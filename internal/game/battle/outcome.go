// Package battle decides when a battle is over and scores it.
package battle

import (
	"fmt"

	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/world"
)

// Outcome is the result of a battle (also a campaign history slot).
type Outcome uint8

const (
	Ongoing Outcome = iota // battle running, or history slot still pending
	Victory
	Defeat
)

// String returns lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "pending"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// ParseOutcome parses the String form of an outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "pending", "ongoing":
		return Ongoing, nil
	case "victory":
		return Victory, nil
	case "defeat":
		return Defeat, nil
	}
	return Ongoing, fmt.Errorf("unknown outcome %q", s)
}

// Tracker counts live units per faction once per battle tick and reports
// when one side has been wiped out.
type Tracker struct {
	world  *world.World
	status *model.BattleStatus
}

// NewTracker creates a tracker that keeps status up to date.
func NewTracker(w *world.World, status *model.BattleStatus) *Tracker {
	return &Tracker{world: w, status: status}
}

// Start re-initializes the battle status from the live unit counts.
func (t *Tracker) Start() {
	t.status.Reset(t.world.LiveCount(model.FactionPlayer), t.world.LiveCount(model.FactionEnemy))
}

// Check refreshes the live counts and returns the outcome.
// Victory is checked first: if both sides are wiped out on the same tick
// the battle counts as won.
func (t *Tracker) Check() Outcome {
	player := t.world.LiveCount(model.FactionPlayer)
	enemy := t.world.LiveCount(model.FactionEnemy)
	t.status.SetCounts(player, enemy)

	switch {
	case enemy == 0:
		return Victory
	case player == 0:
		return Defeat
	default:
		return Ongoing
	}
}

// Status returns the tracked battle status.
func (t *Tracker) Status() *model.BattleStatus { return t.status }

// Score computes the end-of-battle score: remaining*ScorePerUnit + gold*ScorePerGold.
func Score(remaining uint32, gold int, weights config.Campaign) float32 {
	return float32(remaining)*weights.ScorePerUnit + float32(gold)*weights.ScorePerGold
}
