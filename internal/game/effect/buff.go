package effect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBuff is returned when a loadout names a buff that does not exist.
var ErrUnknownBuff = errors.New("unknown buff")

// BuffKind is the variant tag of a buff. A unit carries at most one buff per kind.
type BuffKind uint8

const (
	BuffAttackSpeed BuffKind = iota
	BuffBlock
	BuffStun
	BuffPoison
	BuffInvincible

	numBuffKinds
)

var buffNames = [numBuffKinds]string{
	BuffAttackSpeed: "AttackSpeed",
	BuffBlock:       "Block",
	BuffStun:        "Stun",
	BuffPoison:      "Poison",
	BuffInvincible:  "Invincible",
}

// String returns the buff name.
func (k BuffKind) String() string {
	if k < numBuffKinds {
		return buffNames[k]
	}
	return "Unknown"
}

// Stackable reports whether the buff carries stacks and a regen timer.
func (k BuffKind) Stackable() bool {
	return k != BuffInvincible && k < numBuffKinds
}

// ParseBuffKind parses a buff name (case-insensitive).
func ParseBuffKind(name string) (BuffKind, error) {
	for k := range numBuffKinds {
		if strings.EqualFold(strings.TrimSpace(name), buffNames[k]) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBuff, name)
}

// Buff is one active buff instance.
// Stackable buffs gain one stack each time Regen completes, up to MaxStacks.
type Buff struct {
	Kind      BuffKind
	Stacks    int
	MaxStacks int
	Regen     Timer
}

// BuffStack holds the buffs of one unit, indexed by kind.
// The fixed array makes duplicate kinds impossible.
type BuffStack struct {
	slots   [numBuffKinds]Buff
	present [numBuffKinds]bool
	rules   Rules
}

// NewBuffStack creates an empty stack governed by rules.
func NewBuffStack(rules Rules) *BuffStack {
	return &BuffStack{rules: rules}
}

// NewBuffStackFromLoadout builds a stack from a name → stacks map
// (e.g. scenario YAML `buffs: {Poison: 3}`).
func NewBuffStackFromLoadout(loadout map[string]int, rules Rules) (*BuffStack, error) {
	s := NewBuffStack(rules)
	for name, stacks := range loadout {
		kind, err := ParseBuffKind(name)
		if err != nil {
			return nil, err
		}
		s.Add(kind, stacks)
	}
	return s, nil
}

// Add grants kind with the given stacks. An existing buff gains the stacks
// (capped at MaxStacks); its regen timer is left running.
func (s *BuffStack) Add(kind BuffKind, stacks int) {
	if kind >= numBuffKinds {
		return
	}
	b := &s.slots[kind]
	if !s.present[kind] {
		*b = Buff{Kind: kind}
		if kind.Stackable() {
			b.MaxStacks = s.rules.MaxStacks
			b.Regen = NewTimer(s.rules.BuffRegenTime, TimerOnce)
		}
		s.present[kind] = true
	}
	if kind.Stackable() {
		b.Stacks = clampStacks(b.Stacks+stacks, b.MaxStacks)
	}
}

// Get returns the buff of the given kind.
func (s *BuffStack) Get(kind BuffKind) (*Buff, bool) {
	if kind >= numBuffKinds || !s.present[kind] {
		return nil, false
	}
	return &s.slots[kind], true
}

// Has reports whether the unit carries kind.
func (s *BuffStack) Has(kind BuffKind) bool {
	_, ok := s.Get(kind)
	return ok
}

// Stacks returns the stack count of kind (0 if absent).
func (s *BuffStack) Stacks(kind BuffKind) int {
	if b, ok := s.Get(kind); ok {
		return b.Stacks
	}
	return 0
}

// Consume removes one stack of kind. Returns false if there was none to remove.
func (s *BuffStack) Consume(kind BuffKind) bool {
	b, ok := s.Get(kind)
	if !ok || b.Stacks <= 0 {
		return false
	}
	b.Stacks--
	return true
}

// Remove drops the buff of the given kind.
func (s *BuffStack) Remove(kind BuffKind) {
	if kind < numBuffKinds {
		s.present[kind] = false
		s.slots[kind] = Buff{}
	}
}

// Len returns the number of active buffs.
func (s *BuffStack) Len() int {
	n := 0
	for _, p := range s.present {
		if p {
			n++
		}
	}
	return n
}

// Kinds returns the active buff kinds in tag order.
func (s *BuffStack) Kinds() []BuffKind {
	kinds := make([]BuffKind, 0, numBuffKinds)
	for k := range numBuffKinds {
		if s.present[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Tick advances every regen timer by dt. Each completed timer adds one stack
// (capped) and restarts. Returns the number of stacks gained.
func (s *BuffStack) Tick(dt float32) int {
	gained := 0
	for k := range numBuffKinds {
		if !s.present[k] || !k.Stackable() {
			continue
		}
		b := &s.slots[k]
		if !b.Regen.Tick(dt) {
			continue
		}
		if b.Stacks < b.MaxStacks {
			b.Stacks++
			gained++
		}
		b.Regen.Reset()
	}
	return gained
}
