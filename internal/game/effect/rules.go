// Package effect implements per-unit buff and debuff stacks: stacking,
// regeneration, poison decay and stun duration.
package effect

import "github.com/udisondev/squadfall/internal/config"

// Rules holds the numeric rules shared by every buff/debuff stack of a battle.
// All durations are in seconds.
type Rules struct {
	MaxStacks     int
	BuffRegenTime float32

	PoisonDamagePerTick float32
	PoisonTickTime      float32

	StunDuration       float32
	StunChancePerStack float64

	AttackSpeedPerStack float32
	AttackSpeedFloor    float32
}

// RulesFromConfig converts combat config into Rules.
func RulesFromConfig(c config.Combat) Rules {
	return Rules{
		MaxStacks:           c.MaxStacks,
		BuffRegenTime:       float32(c.BuffRegenTime.Seconds()),
		PoisonDamagePerTick: c.PoisonDamagePerTick,
		PoisonTickTime:      float32(c.PoisonTickTime.Seconds()),
		StunDuration:        float32(c.StunDuration.Seconds()),
		StunChancePerStack:  c.StunChancePerStack,
		AttackSpeedPerStack: c.AttackSpeedPerStack,
		AttackSpeedFloor:    c.AttackSpeedFloor,
	}
}

// DefaultRules returns Rules for the stock combat config.
func DefaultRules() Rules {
	return RulesFromConfig(config.DefaultCombat())
}

// clampStacks keeps n within [0, limit].
func clampStacks(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}

// AttackSpeedMultiplier returns max(floor, 1 - perStack*stacks).
// Negative stack totals are treated as zero.
func AttackSpeedMultiplier(stacks int, perStack, floor float32) float32 {
	if stacks < 0 {
		stacks = 0
	}
	return max(floor, 1-perStack*float32(stacks))
}

// EffectiveAttackInterval scales a base attack interval by the attack-speed stacks.
// The floor caps attack speed at 1/floor times the base rate.
func (r Rules) EffectiveAttackInterval(base float32, stacks int) float32 {
	return base * AttackSpeedMultiplier(stacks, r.AttackSpeedPerStack, r.AttackSpeedFloor)
}
