// Package data holds the unit balance table and applies it to spawned units.
package data

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/squadfall/internal/model"
	"github.com/udisondev/squadfall/internal/world"
)

// ErrUnknownUnitKind is returned when a balance row names a kind that does not exist.
var ErrUnknownUnitKind = errors.New("unknown unit kind")

//go:embed balance.yaml
var defaultBalance []byte

// UnitStatRow описывает строку таблицы баланса для одного типа юнита.
type UnitStatRow struct {
	Kind      string  `yaml:"kind"`
	HP        float32 `yaml:"hp"`
	Atk       float32 `yaml:"atk"`
	Def       float32 `yaml:"def"`
	AtkSpeed  float32 `yaml:"atk_speed"`
	MoveSpeed float32 `yaml:"move_speed"`
	Range     float32 `yaml:"range"`
	Weight    int     `yaml:"weight"`
	Cost      int     `yaml:"cost"`
	Counter   string  `yaml:"counter,omitempty"`
}

// stats converts the row into UnitStats.
func (r UnitStatRow) stats(kind, counter model.UnitKind) model.UnitStats {
	return model.UnitStats{
		Kind:        kind,
		Damage:      r.Atk,
		AttackSpeed: r.AtkSpeed,
		MoveSpeed:   r.MoveSpeed,
		AttackRange: r.Range,
		Defense:     r.Def,
		Counter:     counter,
	}
}

type balanceFile struct {
	Units []UnitStatRow `yaml:"units"`
}

type entry struct {
	row   UnitStatRow
	stats model.UnitStats
}

// Table is a parsed balance table indexed by unit kind.
// Read-only after load, safe to share between battles.
type Table struct {
	rows map[model.UnitKind]entry
}

// LoadDefault parses the embedded stock balance table.
func LoadDefault() (*Table, error) {
	return Parse(defaultBalance)
}

// LoadFile parses a balance table from path.
// An empty path yields the embedded table.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return LoadDefault()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading balance table: %w", err)
	}
	t, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("balance table %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a balance table from YAML.
func Parse(raw []byte) (*Table, error) {
	var f balanceFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing balance table: %w", err)
	}

	t := &Table{rows: make(map[model.UnitKind]entry, len(f.Units))}
	for _, row := range f.Units {
		kind, err := model.ParseUnitKind(row.Kind)
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", row.Kind, ErrUnknownUnitKind)
		}
		var counter model.UnitKind
		if row.Counter != "" {
			counter, err = model.ParseUnitKind(row.Counter)
			if err != nil {
				return nil, fmt.Errorf("row %q counter %q: %w", row.Kind, row.Counter, ErrUnknownUnitKind)
			}
		}
		if row.HP <= 0 {
			return nil, fmt.Errorf("row %q: hp must be positive, got %v", row.Kind, row.HP)
		}
		if _, dup := t.rows[kind]; dup {
			return nil, fmt.Errorf("row %q: duplicate kind", row.Kind)
		}
		t.rows[kind] = entry{row: row, stats: row.stats(kind, counter)}
	}

	slog.Debug("loaded balance table", "kinds", len(t.rows))
	return t, nil
}

// Row returns the raw balance row of a kind.
func (t *Table) Row(kind model.UnitKind) (UnitStatRow, bool) {
	e, ok := t.rows[kind]
	return e.row, ok
}

// Stats returns the unit stats of a kind.
func (t *Table) Stats(kind model.UnitKind) (model.UnitStats, bool) {
	e, ok := t.rows[kind]
	return e.stats, ok
}

// Len returns the number of kinds in the table.
func (t *Table) Len() int { return len(t.rows) }

// Apply sets stats and health on every unit that has not been initialized yet.
// Initialized units are never touched again. Returns the number of units updated.
func (t *Table) Apply(w *world.World) int {
	applied := 0
	for _, u := range w.Units() {
		if u.StatsInitialized {
			continue
		}
		e, ok := t.rows[u.Kind]
		if !ok {
			slog.Warn("no balance row for unit", "unit", u.ID, "kind", u.Kind.String())
			continue
		}
		stats := e.stats
		hp := model.NewHealth(e.row.HP)
		u.Stats = &stats
		u.Health = &hp
		u.Attack.Interval = stats.AttackSpeed
		u.StatsInitialized = true
		applied++
	}
	return applied
}
