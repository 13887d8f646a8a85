package battle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/game/event"
	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/world"
)

func newFlux(t *testing.T) (*Flux, *event.Recorder, *world.World) {
	t.Helper()
	cfg := config.DefaultCombat()
	cfg.KillStreakWindow = 2 * time.Second
	cfg.KillStreakSize = 3
	w := world.New()
	bus := event.NewBus()
	return NewFlux(w, bus, cfg), event.NewRecorder(bus), w
}

func enemyDeath() model.UnitDeathMessage { return model.UnitDeathMessage{IsEnemy: true} }

func TestFlux_KillStreak(t *testing.T) {
	f, rec, _ := newFlux(t)

	assert.Empty(t, f.ObserveDeaths([]model.UnitDeathMessage{enemyDeath(), enemyDeath()}))
	f.Advance(1)
	msgs := f.ObserveDeaths([]model.UnitDeathMessage{enemyDeath()})
	require.Len(t, msgs, 1)
	assert.Equal(t, model.CombatMessage{Trigger: model.TriggerKillStreak, Source: model.FactionPlayer, Value: 3}, msgs[0])
	assert.Equal(t, msgs, rec.Combat)

	// Counter restarted: two more kills are not a streak.
	assert.Empty(t, f.ObserveDeaths([]model.UnitDeathMessage{enemyDeath(), enemyDeath()}))
}

func TestFlux_WindowExpires(t *testing.T) {
	f, _, _ := newFlux(t)

	f.ObserveDeaths([]model.UnitDeathMessage{enemyDeath(), enemyDeath()})
	f.Advance(2.5)
	assert.Empty(t, f.ObserveDeaths([]model.UnitDeathMessage{enemyDeath()}), "old kills fell out of the window")
}

func TestFlux_FactionsAreSeparate(t *testing.T) {
	f, _, _ := newFlux(t)
	player := model.UnitDeathMessage{IsEnemy: false}

	msgs := f.ObserveDeaths([]model.UnitDeathMessage{enemyDeath(), player, enemyDeath(), player, player})
	require.Len(t, msgs, 1)
	assert.Equal(t, model.FactionEnemy, msgs[0].Source, "enemy killed three player units")
}

func TestFlux_SquadRouted(t *testing.T) {
	f, _, w := newFlux(t)
	sq := w.CreateSquad(model.FactionEnemy, "Spear", 10, model.Location{})

	msgs := f.ObserveLosses([]model.SquadLossThresholdMessage{
		{Squad: sq.ID, LossPercentage: 60},
		{Squad: sq.ID, LossPercentage: 90},
		{Squad: 999, LossPercentage: 90},
	})
	require.Len(t, msgs, 1)
	assert.Equal(t, model.CombatMessage{Trigger: model.TriggerSquadRouted, Source: model.FactionPlayer, Value: 90}, msgs[0])
}
