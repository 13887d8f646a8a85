package model

// AttackEvent is raised by the engagement layer whenever an attack lands.
type AttackEvent struct {
	From   EntityID
	To     EntityID
	Damage float32
}

// TakeDamageMessage is emitted for every damage application.
// Attacker is NoEntity for damage without a source (poison ticks).
type TakeDamageMessage struct {
	Attacker EntityID
	Target   EntityID
	Damage   float32
}

// HasAttacker reports whether the damage came from an attack.
func (m TakeDamageMessage) HasAttacker() bool { return m.Attacker != NoEntity }

// UnitDeathMessage is emitted once per despawned unit.
// Squad is captured before despawn so accounting works after removal.
type UnitDeathMessage struct {
	Entity   EntityID
	Squad    EntityID
	Location Location
	IsEnemy  bool
}

// SquadLossThresholdMessage fires once per squad per crossed threshold.
type SquadLossThresholdMessage struct {
	Squad          EntityID
	LossPercentage uint32
	RemainingUnits uint32
	MaxUnits       uint32
}

// CombatTrigger names a high-level combat event.
type CombatTrigger uint8

const (
	TriggerKillStreak  CombatTrigger = iota + 1 // rapid kills by one faction
	TriggerSquadRouted                          // an opposing squad lost 90%
)

// String returns the trigger name.
func (t CombatTrigger) String() string {
	switch t {
	case TriggerKillStreak:
		return "kill_streak"
	case TriggerSquadRouted:
		return "squad_routed"
	default:
		return "unknown"
	}
}

// CombatMessage is a narrative event consumed by memory-artifact spawners.
type CombatMessage struct {
	Trigger CombatTrigger
	Source  Faction
	Value   float32
}
