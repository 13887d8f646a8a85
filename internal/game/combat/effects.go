package combat

import (
	"log/slog"

	"github.com/udisondev/squadfall/internal/game/effect"
	"github.com/udisondev/squadfall/internal/model"
)

// TickEffects advances buff regen and debuff timers of every unit by dt.
// Poison damage is applied here and published without an attacker.
func (p *Pipeline) TickEffects(dt float32) {
	for _, u := range p.world.Units() {
		if u.Buffs != nil {
			u.Buffs.Tick(dt)
		}
		if u.Debuffs == nil {
			continue
		}
		dmg := u.Debuffs.Tick(dt)
		if dmg <= 0 || u.Health == nil {
			continue
		}
		u.Health.TakeDamage(dmg)
		p.bus.PublishTakeDamage(model.TakeDamageMessage{Attacker: model.NoEntity, Target: u.ID, Damage: dmg})
		slog.Debug("poison tick", "unit", u.ID, "damage", dmg, "hp", u.Health.Current)
	}
}

// UpdateAttackSpeed recomputes every unit's effective attack interval from
// its base attack speed and live AttackSpeed buff stacks.
func (p *Pipeline) UpdateAttackSpeed() {
	for _, u := range p.world.Units() {
		if u.Stats == nil {
			continue
		}
		stacks := 0
		if u.Buffs != nil {
			stacks = u.Buffs.Stacks(effect.BuffAttackSpeed)
		}
		u.Attack.Interval = p.rules.EffectiveAttackInterval(u.Stats.AttackSpeed, stacks)
	}
}

// EnforceStun forces stunned units out of the attacking state.
// Returns the number of units moved to idle.
func (p *Pipeline) EnforceStun() int {
	n := 0
	for _, u := range p.world.Units() {
		if u.State != model.StateAttacking || u.Debuffs == nil || !u.Debuffs.IsStunned() {
			continue
		}
		u.State = model.StateIdle
		n++
	}
	return n
}
