// Package sim builds battles from scenarios, steps them frame by frame in
// the fixed system order and runs seeded batches concurrently.
package sim

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/squadfall/internal/game/effect"
	"github.com/udisondev/squadfall/internal/model"
)

//go:embed scenario.yaml
var defaultScenario []byte

// Point is a scenario coordinate.
type Point struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// SquadSpec describes one squad to spawn.
type SquadSpec struct {
	Faction string         `yaml:"faction"`
	Kind    string         `yaml:"kind"`
	Count   int            `yaml:"count"`
	Origin  Point          `yaml:"origin"`
	Buffs   map[string]int `yaml:"buffs,omitempty"` // buff name → starting stacks
}

// Scenario is the starting layout of a battle.
type Scenario struct {
	Name    string      `yaml:"name"`
	Spacing float32     `yaml:"spacing"`
	Gold    int         `yaml:"gold"` // player gold counted into the score
	Squads  []SquadSpec `yaml:"squads"`
}

// DefaultScenario returns the embedded skirmish scenario.
func DefaultScenario() (*Scenario, error) {
	return ParseScenario(defaultScenario)
}

// LoadScenario reads a scenario from path. An empty path yields the default scenario.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return DefaultScenario()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := ParseScenario(raw)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(raw []byte) (*Scenario, error) {
	sc := &Scenario{Spacing: 1.5}
	if err := yaml.Unmarshal(raw, sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks factions, kinds, counts and buff names.
// Both factions must field at least one unit.
func (s *Scenario) Validate() error {
	var errs []error
	var units [2]int
	for i, sq := range s.Squads {
		f, err := model.ParseFaction(sq.Faction)
		if err != nil {
			errs = append(errs, fmt.Errorf("squad %d: %w", i, err))
			continue
		}
		if _, err := model.ParseUnitKind(sq.Kind); err != nil {
			errs = append(errs, fmt.Errorf("squad %d: %w", i, err))
		}
		if sq.Count < 0 {
			errs = append(errs, fmt.Errorf("squad %d: negative count %d", i, sq.Count))
		}
		for name := range sq.Buffs {
			if _, err := effect.ParseBuffKind(name); err != nil {
				errs = append(errs, fmt.Errorf("squad %d: %w", i, err))
			}
		}
		units[f] += max(sq.Count, 0)
	}
	if units[model.FactionPlayer] == 0 || units[model.FactionEnemy] == 0 {
		errs = append(errs, errors.New("both factions need at least one unit"))
	}
	if s.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("spacing must be positive, got %v", s.Spacing))
	}
	return errors.Join(errs...)
}
