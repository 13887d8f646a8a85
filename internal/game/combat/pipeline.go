// Package combat resolves attacks and the continuous combat systems of a
// battle: buff/debuff ticking, attack-speed scaling, stun gating, deaths.
package combat

import (
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/squadfall/internal/game/effect"
	"github.com/udisondev/squadfall/internal/game/event"
	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/world"
)

// HitResult содержит результат одной атаки для наблюдения в тестах.
type HitResult struct {
	Attacker model.EntityID
	Target   model.EntityID
	Damage   float32 // damage actually applied after mitigation
	Poison   int     // poison stacks transferred
	Stunned  bool
	Blocked  bool
}

// Pipeline drains queued attack events once per frame and applies them
// in a fixed order: poison transfer, stun roll, hit counts, damage.
// It is the only writer of Health and DebuffStack contents.
type Pipeline struct {
	world  *world.World
	rules  effect.Rules
	rng    *rand.Rand
	bus    *event.Bus
	status *model.BattleStatus

	queue []model.AttackEvent

	// hitObserver вызывается после каждого удара (nil в production).
	hitObserver func(HitResult)
}

// NewPipeline creates a pipeline over w. rng drives stun rolls and must not be
// shared with another goroutine. bus and status may be nil.
func NewPipeline(w *world.World, rules effect.Rules, rng *rand.Rand, bus *event.Bus, status *model.BattleStatus) *Pipeline {
	return &Pipeline{
		world:  w,
		rules:  rules,
		rng:    rng,
		bus:    bus,
		status: status,
	}
}

// SetHitObserver sets callback for observing attack results (for tests).
func (p *Pipeline) SetHitObserver(fn func(HitResult)) {
	p.hitObserver = fn
}

// Rules returns the buff/debuff rules of the pipeline.
func (p *Pipeline) Rules() effect.Rules { return p.rules }

// Enqueue schedules an attack for the next Process call.
func (p *Pipeline) Enqueue(ev model.AttackEvent) {
	p.queue = append(p.queue, ev)
}

// Pending returns the number of queued attacks.
func (p *Pipeline) Pending() int { return len(p.queue) }

// Process applies every queued attack in arrival order and clears the queue.
// Returns the number of attacks applied (abandoned ones are not counted).
func (p *Pipeline) Process() int {
	applied := 0
	for _, ev := range p.queue {
		if p.apply(ev) {
			applied++
		}
	}
	p.queue = p.queue[:0]
	return applied
}

// apply runs one attack through the pipeline.
// An attack whose target is gone is abandoned with no partial state.
func (p *Pipeline) apply(ev model.AttackEvent) bool {
	target, ok := p.world.Unit(ev.To)
	if !ok {
		slog.Debug("attack target gone", "attacker", ev.From, "target", ev.To)
		return false
	}
	attacker, _ := p.world.Unit(ev.From) // may be nil: attacker died earlier this frame

	res := HitResult{Attacker: ev.From, Target: ev.To}

	// 1. Poison transfer.
	res.Poison = p.transferPoison(attacker, target)

	// 2. Stun roll.
	res.Stunned = p.rollStun(attacker, target)

	// 3. Hit counts.
	p.countHit(ev.From, ev.To)

	// 4. Damage.
	dmg, blocked := p.mitigate(target, ev.Damage)
	res.Damage, res.Blocked = dmg, blocked
	if target.Health != nil {
		target.Health.TakeDamage(dmg)
	}
	p.bus.PublishTakeDamage(model.TakeDamageMessage{Attacker: ev.From, Target: ev.To, Damage: dmg})

	slog.Debug("attack applied",
		"attacker", ev.From,
		"target", ev.To,
		"damage", dmg,
		"poison", res.Poison,
		"stunned", res.Stunned,
		"blocked", blocked)

	if p.hitObserver != nil {
		p.hitObserver(res)
	}
	return true
}

// transferPoison copies the attacker's Poison buff stacks onto the target.
// The attacker's stacks are not consumed.
func (p *Pipeline) transferPoison(attacker, target *world.Unit) int {
	if attacker == nil || attacker.Buffs == nil || target.Debuffs == nil {
		return 0
	}
	stacks := attacker.Buffs.Stacks(effect.BuffPoison)
	if stacks <= 0 {
		return 0
	}
	target.Debuffs.ApplyPoison(stacks)
	return stacks
}

// rollStun stuns the target with chance stacks*StunChancePerStack.
func (p *Pipeline) rollStun(attacker, target *world.Unit) bool {
	if attacker == nil || attacker.Buffs == nil || target.Debuffs == nil {
		return false
	}
	stacks := attacker.Buffs.Stacks(effect.BuffStun)
	if stacks <= 0 {
		return false
	}
	chance := float64(stacks) * p.rules.StunChancePerStack
	if p.rng.Float64() >= chance {
		return false
	}
	target.Debuffs.ApplyStun()
	return true
}

// countHit bumps SquadHitCount of the attacker's squad and SquadTakeHitCount
// of the target's squad. Units outside a squad are skipped.
func (p *Pipeline) countHit(from, to model.EntityID) {
	if sq, ok := p.world.SquadOf(from); ok {
		sq.Hits++
	}
	if sq, ok := p.world.SquadOf(to); ok {
		sq.Taken++
	}
}

// mitigate applies defensive buffs of the target: Invincible ignores the hit,
// a Block stack is consumed to ignore it.
func (p *Pipeline) mitigate(target *world.Unit, dmg float32) (float32, bool) {
	if target.Buffs == nil {
		return dmg, false
	}
	if target.Buffs.Has(effect.BuffInvincible) {
		return 0, true
	}
	if target.Buffs.Consume(effect.BuffBlock) {
		return 0, true
	}
	return dmg, false
}
