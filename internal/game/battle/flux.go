package battle

import (
	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/game/event"
	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/world"
)

// Flux derives narrative CombatMessages from the death and squad-loss streams:
// kill streaks inside a sliding window and routed squads (90% loss).
type Flux struct {
	world  *world.World
	bus    *event.Bus
	window float32
	size   int

	now   float32
	kills [2][]float32 // kill timestamps per killing faction
}

// NewFlux creates a flux detector. bus may be nil.
func NewFlux(w *world.World, bus *event.Bus, cfg config.Combat) *Flux {
	return &Flux{
		world:  w,
		bus:    bus,
		window: float32(cfg.KillStreakWindow.Seconds()),
		size:   cfg.KillStreakSize,
	}
}

// Advance moves the flux clock forward by dt.
func (f *Flux) Advance(dt float32) {
	if dt > 0 {
		f.now += dt
	}
}

// ObserveDeaths credits each death to the dying unit's opponent and emits a
// KillStreak message whenever a faction reaches the streak size inside the window.
// The streak counter restarts after firing.
func (f *Flux) ObserveDeaths(deaths []model.UnitDeathMessage) []model.CombatMessage {
	if f.size <= 0 {
		return nil
	}
	var out []model.CombatMessage
	for _, d := range deaths {
		killer := model.FactionEnemy
		if d.IsEnemy {
			killer = model.FactionPlayer
		}
		recent := f.prune(f.kills[killer])
		recent = append(recent, f.now)
		if len(recent) >= f.size {
			msg := model.CombatMessage{Trigger: model.TriggerKillStreak, Source: killer, Value: float32(len(recent))}
			f.bus.PublishCombat(msg)
			out = append(out, msg)
			recent = recent[:0]
		}
		f.kills[killer] = recent
	}
	return out
}

// ObserveLosses emits SquadRouted for the opposing faction whenever a squad
// crosses the 90% loss threshold.
func (f *Flux) ObserveLosses(losses []model.SquadLossThresholdMessage) []model.CombatMessage {
	var out []model.CombatMessage
	for _, l := range losses {
		if l.LossPercentage < model.LossThresholds[len(model.LossThresholds)-1] {
			continue
		}
		rec, ok := f.world.Squad(l.Squad)
		if !ok {
			continue
		}
		msg := model.CombatMessage{
			Trigger: model.TriggerSquadRouted,
			Source:  rec.Squad.Faction.Opponent(),
			Value:   float32(l.LossPercentage),
		}
		f.bus.PublishCombat(msg)
		out = append(out, msg)
	}
	return out
}

// prune drops kills older than the window.
func (f *Flux) prune(ts []float32) []float32 {
	i := 0
	for i < len(ts) && f.now-ts[i] > f.window {
		i++
	}
	return append(ts[:0], ts[i:]...)
}
