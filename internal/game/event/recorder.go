package event

import "github.com/udisondev/squadfall/internal/model"

// Recorder keeps every message published on the buses it is subscribed to.
type Recorder struct {
	Damage []model.TakeDamageMessage
	Deaths []model.UnitDeathMessage
	Losses []model.SquadLossThresholdMessage
	Combat []model.CombatMessage
}

// NewRecorder creates a Recorder subscribed to bus.
func NewRecorder(bus *Bus) *Recorder {
	r := &Recorder{}
	r.Subscribe(bus)
	return r
}

// Subscribe attaches the recorder to bus.
func (r *Recorder) Subscribe(bus *Bus) {
	bus.OnTakeDamage(func(m model.TakeDamageMessage) { r.Damage = append(r.Damage, m) })
	bus.OnUnitDeath(func(m model.UnitDeathMessage) { r.Deaths = append(r.Deaths, m) })
	bus.OnSquadLoss(func(m model.SquadLossThresholdMessage) { r.Losses = append(r.Losses, m) })
	bus.OnCombat(func(m model.CombatMessage) { r.Combat = append(r.Combat, m) })
}

// TotalDamage sums all recorded damage, optionally only attack damage.
func (r *Recorder) TotalDamage(attacksOnly bool) float32 {
	var sum float32
	for _, m := range r.Damage {
		if attacksOnly && !m.HasAttacker() {
			continue
		}
		sum += m.Damage
	}
	return sum
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.Damage = r.Damage[:0]
	r.Deaths = r.Deaths[:0]
	r.Losses = r.Losses[:0]
	r.Combat = r.Combat[:0]
}
