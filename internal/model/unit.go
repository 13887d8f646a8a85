package model

import (
	"fmt"
	"strings"
)

// EntityID identifies a unit or squad in a battle world.
// IDs are never reused within one world; 0 means "no entity".
type EntityID uint32

// NoEntity is the zero EntityID.
const NoEntity EntityID = 0

// UnitKind classifies a unit (balance table key, counter relation).
type UnitKind uint8

const (
	UnitShield UnitKind = iota + 1
	UnitSpear
	UnitArcher
	UnitCavalry
)

// AllUnitKinds lists every playable kind in balance-table order.
var AllUnitKinds = [...]UnitKind{UnitShield, UnitSpear, UnitArcher, UnitCavalry}

// String returns the balance-table name of the kind.
func (k UnitKind) String() string {
	switch k {
	case UnitShield:
		return "Shield"
	case UnitSpear:
		return "Spear"
	case UnitArcher:
		return "Archer"
	case UnitCavalry:
		return "Cavalry"
	default:
		return "Unknown"
	}
}

// ParseUnitKind parses a balance-table name (case-insensitive).
func ParseUnitKind(s string) (UnitKind, error) {
	for _, k := range AllUnitKinds {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown unit kind %q", s)
}

// Faction is the side a unit fights for.
type Faction uint8

const (
	FactionPlayer Faction = iota
	FactionEnemy
)

// String returns lowercase faction name.
func (f Faction) String() string {
	if f == FactionEnemy {
		return "enemy"
	}
	return "player"
}

// ParseFaction parses "player" or "enemy" (case-insensitive).
func ParseFaction(s string) (Faction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player":
		return FactionPlayer, nil
	case "enemy":
		return FactionEnemy, nil
	}
	return 0, fmt.Errorf("unknown faction %q", s)
}

// Opponent returns the opposing faction.
func (f Faction) Opponent() Faction {
	if f == FactionEnemy {
		return FactionPlayer
	}
	return FactionEnemy
}

// UnitState is the externally driven behaviour state of a unit.
type UnitState uint8

const (
	StateIdle UnitState = iota
	StateMoving
	StateAttacking
)

// String returns human-readable state name
func (s UnitState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateMoving:
		return "MOVING"
	case StateAttacking:
		return "ATTACKING"
	default:
		return "UNKNOWN"
	}
}

// UnitStats содержит базовые характеристики юнита из таблицы баланса.
type UnitStats struct {
	Kind        UnitKind
	Damage      float32
	AttackSpeed float32 // seconds between attacks
	MoveSpeed   float32 // units per second
	AttackRange float32
	Defense     float32
	Counter     UnitKind // 0 = counters nothing
}

// Counters reports whether these stats give a type advantage against kind.
func (s UnitStats) Counters(kind UnitKind) bool {
	return s.Counter != 0 && s.Counter == kind
}
