package world

import (
	"github.com/udisondev/squadfall/internal/game/effect"
	"github.com/udisondev/squadfall/internal/model"
)

// AttackClock tracks a unit's attack cadence.
type AttackClock struct {
	Interval float32 // effective seconds between attacks (recomputed every tick)
	Cooldown float32 // seconds until the next attack may start
}

// Unit is one combatant. Optional components are nil when absent:
// systems filter on them the way an ECS query filters on component presence.
type Unit struct {
	ID      model.EntityID
	Kind    model.UnitKind
	Faction model.Faction
	Squad   model.EntityID // NoEntity if the unit belongs to no squad

	Stats            *model.UnitStats
	StatsInitialized bool
	Health           *model.Health
	Buffs            *effect.BuffStack
	Debuffs          *effect.DebuffStack

	Location model.Location
	State    model.UnitState
	Attack   AttackClock
	Target   model.EntityID
}

// IsEnemy reports whether the unit fights for the enemy faction.
func (u *Unit) IsEnemy() bool { return u.Faction == model.FactionEnemy }

// Alive reports whether the unit should count as a live combatant.
// Units whose stats were not applied yet have no health and count as alive.
func (u *Unit) Alive() bool {
	return u.Health == nil || u.Health.IsAlive()
}

// SquadRecord is a squad entity together with its bookkeeping components.
type SquadRecord struct {
	ID     model.EntityID
	Squad  *model.Squad
	Loss   model.SquadLossTracker
	Hits   model.SquadHitCount
	Taken  model.SquadTakeHitCount
	Origin model.Location
}
