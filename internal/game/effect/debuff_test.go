package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebuffStack_PoisonCreateAndAccumulate(t *testing.T) {
	d := NewDebuffStack(DefaultRules())

	d.ApplyPoison(3)
	require.NotNil(t, d.Poison())
	assert.Equal(t, 3, d.Poison().Stacks)

	d.ApplyPoison(3)
	assert.Equal(t, 5, d.Poison().Stacks, "min(3+3, 5)")

	d.ApplyPoison(0)
	assert.Equal(t, 5, d.Poison().Stacks)
}

func TestDebuffStack_PoisonReapplyResetsTickTimer(t *testing.T) {
	d := NewDebuffStack(DefaultRules())
	d.ApplyPoison(1)

	assert.Equal(t, float32(0), d.Tick(0.75))
	d.ApplyPoison(1)

	// Timer restarted: 0.75s after reapply is still short of a tick.
	assert.Equal(t, float32(0), d.Tick(0.75))
	assert.Equal(t, float32(2), d.Tick(0.25))
}

func TestDebuffStack_PoisonDecay(t *testing.T) {
	rules := DefaultRules()
	rules.PoisonDamagePerTick = 5
	d := NewDebuffStack(rules)
	d.ApplyPoison(3)

	hp := float32(100)
	for range 3 {
		hp -= d.Tick(1)
	}
	assert.Equal(t, float32(70), hp)
	assert.Equal(t, 0, d.Poison().Stacks)

	// Fourth tick: inert, still attached.
	assert.Equal(t, float32(0), d.Tick(1))
	assert.NotNil(t, d.Poison())
}

func TestDebuffStack_PoisonAtMostOneTickPerFrame(t *testing.T) {
	d := NewDebuffStack(DefaultRules())
	d.ApplyPoison(2)

	assert.Equal(t, float32(2), d.Tick(5))
	assert.Equal(t, 1, d.Poison().Stacks)
}

func TestDebuffStack_StunExpiresAndRefreshes(t *testing.T) {
	d := NewDebuffStack(DefaultRules())
	assert.False(t, d.IsStunned())

	d.ApplyStun()
	assert.True(t, d.IsStunned())

	d.Tick(0.5)
	assert.True(t, d.IsStunned())

	d.ApplyStun() // restart
	d.Tick(0.75)
	assert.True(t, d.IsStunned())

	d.Tick(0.25)
	assert.False(t, d.IsStunned())
	assert.NotNil(t, d.Stun())

	d.Tick(10)
	assert.False(t, d.IsStunned())

	d.ApplyStun()
	assert.True(t, d.IsStunned())
}

func TestAttackSpeedMultiplier(t *testing.T) {
	tests := []struct {
		name   string
		stacks int
		want   float32
	}{
		{name: "no stacks", stacks: 0, want: 1},
		{name: "five stacks", stacks: 5, want: 0.75},
		{name: "exactly at floor", stacks: 15, want: 0.25},
		{name: "beyond floor", stacks: 20, want: 0.25},
		{name: "negative treated as zero", stacks: -4, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AttackSpeedMultiplier(tt.stacks, 0.05, 0.25), 1e-6)
		})
	}
}

func TestRules_EffectiveAttackInterval(t *testing.T) {
	r := DefaultRules()
	assert.InDelta(t, 0.25, r.EffectiveAttackInterval(1.0, 20), 1e-6)
	assert.InDelta(t, 1.5, r.EffectiveAttackInterval(2.0, 5), 1e-6)
}
