package combat

import (
	"errors"

	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/world"
)

// Engagement decides when units attack: each unit locks onto the nearest
// enemy, walks into range and raises an AttackEvent whenever its cooldown
// allows. It only enqueues events; the Pipeline applies them.
type Engagement struct {
	world       *world.World
	pipeline    *Pipeline
	counterMult float32
	cellSize    float32
}

// NewEngagement creates the engagement layer feeding pipeline.
func NewEngagement(w *world.World, pipeline *Pipeline, counterMult float32) *Engagement {
	return &Engagement{
		world:       w,
		pipeline:    pipeline,
		counterMult: counterMult,
		cellSize:    world.DefaultCellSize,
	}
}

// Step advances cooldowns, targeting and movement by dt.
// Returns the number of attacks enqueued.
func (e *Engagement) Step(dt float32) int {
	ix := e.world.BuildIndex(e.cellSize)
	attacks := 0

	for _, u := range e.world.Units() {
		if u.Stats == nil || !u.Alive() {
			continue
		}
		u.Attack.Cooldown = max(0, u.Attack.Cooldown-dt)

		if u.Debuffs != nil && u.Debuffs.IsStunned() {
			continue
		}

		target := e.acquire(u, ix)
		if target == nil {
			u.Target = model.NoEntity
			u.State = model.StateIdle
			continue
		}
		u.Target = target.ID

		err := ValidateAttack(u, target)
		switch {
		case err == nil:
			u.State = model.StateAttacking
			if u.Attack.Cooldown > 0 {
				continue
			}
			e.pipeline.Enqueue(model.AttackEvent{
				From:   u.ID,
				To:     target.ID,
				Damage: CalcDamage(u.Stats, target.Stats, e.counterMult),
			})
			u.Attack.Cooldown = u.Attack.Interval
			attacks++
		case errors.Is(err, ErrOutOfRange):
			u.State = model.StateMoving
			dist := u.Location.Distance(target.Location)
			step := min(u.Stats.MoveSpeed*dt, dist-u.Stats.AttackRange)
			u.Location = u.Location.MoveTowards(target.Location, step)
		default:
			u.Target = model.NoEntity
			u.State = model.StateIdle
		}
	}
	return attacks
}

// acquire keeps the current target while it is alive and hostile,
// otherwise picks the nearest live enemy.
func (e *Engagement) acquire(u *world.Unit, ix *world.SpatialIndex) *world.Unit {
	if u.Target != model.NoEntity {
		if t, ok := e.world.Unit(u.Target); ok && t.Alive() && t.Faction != u.Faction {
			return t
		}
	}
	t, ok := ix.Nearest(u.Location, func(c *world.Unit) bool {
		return c.Faction != u.Faction && c.Alive()
	})
	if !ok {
		return nil
	}
	return t
}
