package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocation_Distance(t *testing.T) {
	tests := []struct {
		name string
		a, b Location
		want float32
	}{
		{name: "same point", a: NewLocation(1, 1), b: NewLocation(1, 1), want: 0},
		{name: "3-4-5", a: NewLocation(0, 0), b: NewLocation(3, 4), want: 5},
		{name: "negative coordinates", a: NewLocation(-3, 0), b: NewLocation(0, -4), want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.Distance(tt.b), 1e-5)
			assert.InDelta(t, tt.want*tt.want, tt.a.DistanceSquared(tt.b), 1e-4)
		})
	}
}

func TestLocation_MoveTowards(t *testing.T) {
	from := NewLocation(0, 0)
	to := NewLocation(10, 0)

	assert.Equal(t, NewLocation(2, 0), from.MoveTowards(to, 2))
	// Never overshoots.
	assert.Equal(t, to, from.MoveTowards(to, 25))
	// Non-positive step keeps the location.
	assert.Equal(t, from, from.MoveTowards(to, 0))
	assert.Equal(t, from, from.MoveTowards(to, -1))
}
