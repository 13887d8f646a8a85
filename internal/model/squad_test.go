package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquad_LossPercentage(t *testing.T) {
	tests := []struct {
		name    string
		max     uint32
		current uint32
		want    uint32
	}{
		{name: "full squad", max: 10, current: 10, want: 0},
		{name: "thirty percent", max: 10, current: 7, want: 30},
		{name: "floor rounding", max: 3, current: 2, want: 33},
		{name: "wiped", max: 10, current: 0, want: 100},
		{name: "empty squad never loses", max: 0, current: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Squad{MaxUnitCount: tt.max, CurrentUnitCount: tt.current}
			assert.Equal(t, tt.want, s.LossPercentage())
		})
	}
}

func TestSquad_InitCountOnce(t *testing.T) {
	s := NewSquad("Spear", FactionPlayer, 8)
	assert.False(t, s.Counted())
	assert.True(t, s.InitCount())
	assert.Equal(t, uint32(8), s.CurrentUnitCount)

	s.RemoveUnit()
	assert.False(t, s.InitCount(), "second init must not refill the squad")
	assert.Equal(t, uint32(7), s.CurrentUnitCount)
}

func TestSquad_RemoveUnitStopsAtZero(t *testing.T) {
	s := NewSquad("Archer", FactionEnemy, 1)
	s.InitCount()
	assert.True(t, s.RemoveUnit())
	assert.False(t, s.RemoveUnit())
	assert.Equal(t, uint32(0), s.CurrentUnitCount)
}

func TestSquadLossTracker_LatchesOnce(t *testing.T) {
	var tr SquadLossTracker
	for _, th := range LossThresholds {
		assert.False(t, tr.Crossed(th))
		assert.True(t, tr.Cross(th))
		assert.False(t, tr.Cross(th), "threshold %d fired twice", th)
		assert.True(t, tr.Crossed(th))
	}
	assert.False(t, tr.Cross(50), "unknown threshold has no latch")
}
