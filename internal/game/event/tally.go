package event

import "github.com/udisondev/squadfall/internal/model"

// Tally keeps running counts and damage sums of the messages on a bus.
// Unlike Recorder its size does not grow with battle length.
type Tally struct {
	Deaths       int
	SquadLosses  int
	CombatEvents int
	AttackDamage float32 // damage with an attacker
	PoisonDamage float32 // damage without one (debuff ticks)
}

// NewTally creates a Tally subscribed to bus.
func NewTally(bus *Bus) *Tally {
	t := &Tally{}
	bus.OnTakeDamage(func(m model.TakeDamageMessage) {
		if m.HasAttacker() {
			t.AttackDamage += m.Damage
			return
		}
		t.PoisonDamage += m.Damage
	})
	bus.OnUnitDeath(func(model.UnitDeathMessage) { t.Deaths++ })
	bus.OnSquadLoss(func(model.SquadLossThresholdMessage) { t.SquadLosses++ })
	bus.OnCombat(func(model.CombatMessage) { t.CombatEvents++ })
	return t
}
