package combat

import (
	"math/rand/v2"
	"testing"

	"github.com/udisondev/squadfall/internal/game/effect"
	"github.com/udisondev/squadfall/internal/game/event"
	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/world"
)

type fixture struct {
	world    *world.World
	pipeline *Pipeline
	bus      *event.Bus
	rec      *event.Recorder
	status   *model.BattleStatus
	rules    effect.Rules
}

func newFixture(t *testing.T, rules effect.Rules) *fixture {
	t.Helper()
	w := world.New()
	bus := event.NewBus()
	status := &model.BattleStatus{}
	return &fixture{
		world:    w,
		pipeline: NewPipeline(w, rules, rand.New(rand.NewPCG(1, 2)), bus, status),
		bus:      bus,
		rec:      event.NewRecorder(bus),
		status:   status,
		rules:    rules,
	}
}

// spawn creates a fully equipped unit with the given hp.
func (f *fixture) spawn(faction model.Faction, squad model.EntityID, hp float32, loc model.Location) *world.Unit {
	u := f.world.CreateUnit(model.UnitSpear, faction, squad, loc)
	health := model.NewHealth(hp)
	u.Health = &health
	u.Stats = &model.UnitStats{
		Kind:        model.UnitSpear,
		Damage:      10,
		AttackSpeed: 1,
		MoveSpeed:   2,
		AttackRange: 1,
	}
	u.Attack.Interval = 1
	u.StatsInitialized = true
	u.Buffs = effect.NewBuffStack(f.rules)
	u.Debuffs = effect.NewDebuffStack(f.rules)
	return u
}
