package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/squadfall/internal/model"
)

func TestWorld_CreateAndLookup(t *testing.T) {
	w := New()
	sq := w.CreateSquad(model.FactionPlayer, "Spear", 3, model.NewLocation(1, 2))
	u := w.CreateUnit(model.UnitSpear, model.FactionPlayer, sq.ID, model.NewLocation(1, 2))

	require.NotEqual(t, model.NoEntity, sq.ID)
	require.NotEqual(t, sq.ID, u.ID, "units and squads share one id space")

	got, ok := w.Unit(u.ID)
	require.True(t, ok)
	assert.Same(t, u, got)

	rec, ok := w.SquadOf(u.ID)
	require.True(t, ok)
	assert.Same(t, sq, rec)
	assert.False(t, rec.Squad.Counted())

	assert.True(t, w.Valid(u.ID))
	assert.True(t, w.Valid(sq.ID))
	assert.False(t, w.Valid(999))
}

func TestWorld_SquadOf_Missing(t *testing.T) {
	w := New()
	loner := w.CreateUnit(model.UnitArcher, model.FactionEnemy, model.NoEntity, model.Location{})

	_, ok := w.SquadOf(loner.ID)
	assert.False(t, ok, "unit without squad")

	_, ok = w.SquadOf(12345)
	assert.False(t, ok, "unknown unit")

	sq := w.CreateSquad(model.FactionEnemy, "Archer", 1, model.Location{})
	member := w.CreateUnit(model.UnitArcher, model.FactionEnemy, sq.ID, model.Location{})
	require.True(t, w.RemoveSquad(sq.ID))

	_, ok = w.SquadOf(member.ID)
	assert.False(t, ok, "squad despawned")
}

func TestWorld_RemovePreservesOrder(t *testing.T) {
	w := New()
	a := w.CreateUnit(model.UnitShield, model.FactionPlayer, model.NoEntity, model.Location{})
	b := w.CreateUnit(model.UnitShield, model.FactionPlayer, model.NoEntity, model.Location{})
	c := w.CreateUnit(model.UnitShield, model.FactionPlayer, model.NoEntity, model.Location{})

	assert.True(t, w.RemoveUnit(b.ID))
	assert.False(t, w.RemoveUnit(b.ID), "second removal is a no-op")

	units := w.Units()
	require.Len(t, units, 2)
	assert.Equal(t, a.ID, units[0].ID)
	assert.Equal(t, c.ID, units[1].ID)
	assert.Equal(t, 2, w.UnitCount())
}

func TestWorld_UnitsSnapshotAllowsRemoval(t *testing.T) {
	w := New()
	for range 4 {
		w.CreateUnit(model.UnitCavalry, model.FactionEnemy, model.NoEntity, model.Location{})
	}
	for _, u := range w.Units() {
		w.RemoveUnit(u.ID)
	}
	assert.Zero(t, w.UnitCount())
	assert.Empty(t, w.Units())
}

func TestWorld_LiveCount(t *testing.T) {
	w := New()
	p := w.CreateUnit(model.UnitShield, model.FactionPlayer, model.NoEntity, model.Location{})
	w.CreateUnit(model.UnitShield, model.FactionPlayer, model.NoEntity, model.Location{})
	e := w.CreateUnit(model.UnitShield, model.FactionEnemy, model.NoEntity, model.Location{})

	hp := model.NewHealth(10)
	p.Health = &hp
	dead := model.NewHealth(10)
	dead.TakeDamage(10)
	e.Health = &dead

	assert.Equal(t, uint32(2), w.LiveCount(model.FactionPlayer))
	assert.Equal(t, uint32(0), w.LiveCount(model.FactionEnemy))
}

func TestWorld_SpawnSquad(t *testing.T) {
	tests := []struct {
		name    string
		faction model.Faction
		count   int
		dirSign float32
	}{
		{"player rows extend left", model.FactionPlayer, 7, -1},
		{"enemy rows extend right", model.FactionEnemy, 7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			origin := model.NewLocation(10, 0)
			rec, units := w.SpawnSquad(tt.faction, model.UnitSpear, tt.count, origin, 2)

			require.Len(t, units, tt.count)
			assert.Equal(t, uint32(tt.count), rec.Squad.MaxUnitCount)
			assert.Equal(t, "Spear", rec.Squad.ChildPrefabName)
			assert.Equal(t, tt.faction, rec.Squad.Faction)

			for _, u := range units {
				assert.Equal(t, rec.ID, u.Squad)
				assert.Equal(t, tt.faction, u.Faction)
				assert.Equal(t, model.StateIdle, u.State)
			}
			// first row sits on origin.X, second row one spacing away from the enemy
			assert.Equal(t, float32(10), units[0].Location.X)
			assert.Equal(t, 10+tt.dirSign*2, units[squadColumns].Location.X)
			// middle column is centred on origin.Y
			assert.Equal(t, float32(0), units[2].Location.Y)
		})
	}
}

func TestWorld_SpawnSquad_NegativeCount(t *testing.T) {
	w := New()
	rec, units := w.SpawnSquad(model.FactionPlayer, model.UnitArcher, -3, model.Location{}, 1)
	assert.Empty(t, units)
	assert.Zero(t, rec.Squad.MaxUnitCount)
}
