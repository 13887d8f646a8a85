// Package squad turns unit deaths into squad bookkeeping: live counts,
// loss percentage and one-time 30/60/90% loss notifications.
package squad

import (
	"log/slog"

	"github.com/udisondev/squadfall/internal/game/event"
	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/world"
)

// Accounting is the only writer of Squad.CurrentUnitCount and SquadLossTracker.
type Accounting struct {
	world *world.World
	bus   *event.Bus
}

// NewAccounting creates squad accounting over w. bus may be nil.
func NewAccounting(w *world.World, bus *event.Bus) *Accounting {
	return &Accounting{world: w, bus: bus}
}

// InitCounts sets the current count of every freshly spawned squad to its max.
// Runs every tick; squads already counted are left alone.
func (a *Accounting) InitCounts() int {
	n := 0
	for _, rec := range a.world.Squads() {
		if rec.Squad.InitCount() {
			n++
		}
	}
	return n
}

// Record applies a batch of deaths in order and returns the threshold
// notifications they caused. Deaths of units outside any live squad are skipped.
func (a *Accounting) Record(deaths []model.UnitDeathMessage) []model.SquadLossThresholdMessage {
	var out []model.SquadLossThresholdMessage
	for _, d := range deaths {
		if d.Squad == model.NoEntity {
			continue
		}
		rec, ok := a.world.Squad(d.Squad)
		if !ok {
			slog.Debug("death of unit from despawned squad", "unit", d.Entity, "squad", d.Squad)
			continue
		}
		out = append(out, a.recordDeath(rec)...)
	}
	return out
}

func (a *Accounting) recordDeath(rec *world.SquadRecord) []model.SquadLossThresholdMessage {
	sq := rec.Squad
	sq.RemoveUnit()
	loss := sq.LossPercentage()

	var out []model.SquadLossThresholdMessage
	for _, threshold := range model.LossThresholds {
		if loss < threshold || !rec.Loss.Cross(threshold) {
			continue
		}
		msg := model.SquadLossThresholdMessage{
			Squad:          rec.ID,
			LossPercentage: threshold,
			RemainingUnits: sq.CurrentUnitCount,
			MaxUnits:       sq.MaxUnitCount,
		}
		a.bus.PublishSquadLoss(msg)
		out = append(out, msg)

		slog.Debug("squad loss threshold crossed",
			"squad", rec.ID,
			"faction", sq.Faction.String(),
			"threshold", threshold,
			"remaining", sq.CurrentUnitCount,
			"max", sq.MaxUnitCount)
	}
	return out
}
