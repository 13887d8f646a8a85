package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/data"
	"github.com/udisondev/squadfall/internal/game/battle"
	"github.com/udisondev/squadfall/internal/game/combat"
	"github.com/udisondev/squadfall/internal/game/effect"
	"github.com/udisondev/squadfall/internal/game/event"
	"github.com/udisondev/squadfall/internal/game/squad"
	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/world"
)

// Result summarizes a finished (or timed out) battle.
type Result struct {
	ID              uuid.UUID
	Scenario        string
	Seed            uint64
	Outcome         battle.Outcome // Ongoing when the tick limit was hit
	Ticks           uint64
	Elapsed         time.Duration // simulated time
	PlayerRemaining uint32
	EnemyRemaining  uint32
	Score           float32

	Deaths       int
	SquadLosses  int
	CombatEvents int
	AttackDamage float32
	PoisonDamage float32
	LastDeath    model.Location
	FinishedAt   time.Time
}

// Battle is one headless battle. All systems share the battle's world and
// run on the caller's goroutine.
type Battle struct {
	ID       uuid.UUID
	scenario *Scenario
	seed     uint64
	weights  config.Campaign

	world      *world.World
	table      *data.Table
	bus        *event.Bus
	status     model.BattleStatus
	pipeline   *combat.Pipeline
	engagement *combat.Engagement
	accounting *squad.Accounting
	tracker    *battle.Tracker
	flux       *battle.Flux
	tally      *event.Tally

	tick    uint64
	elapsed float32
	outcome battle.Outcome
}

// NewBattle spawns the scenario into a fresh world and applies balance stats.
// bus receives every outbound message; nil creates a private bus.
func NewBattle(sc *Scenario, table *data.Table, cfg config.Simulation, seed uint64, bus *event.Bus) (*Battle, error) {
	if bus == nil {
		bus = event.NewBus()
	}
	rules := effect.RulesFromConfig(cfg.Combat)

	b := &Battle{
		ID:       uuid.New(),
		scenario: sc,
		seed:     seed,
		weights:  cfg.Campaign,
		world:    world.New(),
		table:    table,
		bus:      bus,
	}
	if err := b.spawn(rules); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	b.pipeline = combat.NewPipeline(b.world, rules, rng, bus, &b.status)
	b.engagement = combat.NewEngagement(b.world, b.pipeline, cfg.Combat.CounterMultiplier)
	b.accounting = squad.NewAccounting(b.world, bus)
	b.tracker = battle.NewTracker(b.world, &b.status)
	b.flux = battle.NewFlux(b.world, bus, cfg.Combat)
	b.tally = event.NewTally(bus)

	b.table.Apply(b.world)
	b.tracker.Start()
	return b, nil
}

func (b *Battle) spawn(rules effect.Rules) error {
	for i, spec := range b.scenario.Squads {
		faction, err := model.ParseFaction(spec.Faction)
		if err != nil {
			return fmt.Errorf("squad %d: %w", i, err)
		}
		kind, err := model.ParseUnitKind(spec.Kind)
		if err != nil {
			return fmt.Errorf("squad %d: %w", i, err)
		}
		_, units := b.world.SpawnSquad(faction, kind, spec.Count, model.NewLocation(spec.Origin.X, spec.Origin.Y), b.scenario.Spacing)
		for _, u := range units {
			buffs, err := effect.NewBuffStackFromLoadout(spec.Buffs, rules)
			if err != nil {
				return fmt.Errorf("squad %d: %w", i, err)
			}
			u.Buffs = buffs
			u.Debuffs = effect.NewDebuffStack(rules)
		}
	}
	return nil
}

// World returns the battle world.
func (b *Battle) World() *world.World { return b.world }

// Bus returns the battle's message bus.
func (b *Battle) Bus() *event.Bus { return b.bus }

// Status returns the live battle status.
func (b *Battle) Status() *model.BattleStatus { return &b.status }

// Tick returns the number of steps taken.
func (b *Battle) Tick() uint64 { return b.tick }

// Outcome returns the outcome after the last step.
func (b *Battle) Outcome() battle.Outcome { return b.outcome }

// Enqueue injects an attack from an external collaborator.
func (b *Battle) Enqueue(ev model.AttackEvent) { b.pipeline.Enqueue(ev) }

// Step advances the battle by one frame of dt seconds, in fixed order:
// stats → regen/debuff ticking → attack speed → stun gating → engagement →
// attack pipeline → deaths → squad accounting → flux → outcome check.
// Stepping a finished battle is a no-op.
func (b *Battle) Step(dt float32) battle.Outcome {
	if b.outcome != battle.Ongoing {
		return b.outcome
	}
	b.tick++
	b.elapsed += dt

	b.table.Apply(b.world)
	b.pipeline.TickEffects(dt)
	b.pipeline.UpdateAttackSpeed()
	b.pipeline.EnforceStun()
	b.engagement.Step(dt)
	b.pipeline.Process()

	deaths := b.pipeline.ProcessDeaths()
	b.accounting.InitCounts()
	losses := b.accounting.Record(deaths)

	b.flux.Advance(dt)
	b.flux.ObserveDeaths(deaths)
	b.flux.ObserveLosses(losses)

	b.outcome = b.tracker.Check()
	if b.outcome != battle.Ongoing {
		slog.Debug("battle decided",
			"battle", b.ID,
			"outcome", b.outcome.String(),
			"tick", b.tick,
			"player", b.status.Player.Current,
			"enemy", b.status.Enemy.Current)
	}
	return b.outcome
}

// Run steps the battle until it is decided, maxTicks is reached or ctx is done.
func (b *Battle) Run(ctx context.Context, maxTicks uint64, dt float32) (Result, error) {
	for b.outcome == battle.Ongoing && (maxTicks == 0 || b.tick < maxTicks) {
		if b.tick%64 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("battle %s interrupted at tick %d: %w", b.ID, b.tick, err)
			}
		}
		b.Step(dt)
	}
	return b.Result(), nil
}

// Result summarizes the battle so far.
func (b *Battle) Result() Result {
	r := Result{
		ID:              b.ID,
		Scenario:        b.scenario.Name,
		Seed:            b.seed,
		Outcome:         b.outcome,
		Ticks:           b.tick,
		Elapsed:         time.Duration(float64(b.elapsed) * float64(time.Second)),
		PlayerRemaining: b.status.Player.Current,
		EnemyRemaining:  b.status.Enemy.Current,
		Deaths:          b.tally.Deaths,
		SquadLosses:     b.tally.SquadLosses,
		CombatEvents:    b.tally.CombatEvents,
		AttackDamage:    b.tally.AttackDamage,
		PoisonDamage:    b.tally.PoisonDamage,
		LastDeath:       b.status.LastDeath,
		FinishedAt:      time.Now().UTC(),
	}
	if b.outcome != battle.Ongoing {
		r.Score = battle.Score(r.PlayerRemaining, b.scenario.Gold, b.weights)
	}
	return r
}
