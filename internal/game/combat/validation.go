package combat

import (
	"errors"

	"github.com/udisondev/squadfall/internal/world"
)

var (
	ErrNoTarget     = errors.New("no target")
	ErrAttackerDead = errors.New("attacker is dead")
	ErrTargetDead   = errors.New("target is dead")
	ErrFriendly     = errors.New("target is friendly")
	ErrNoStats      = errors.New("attacker has no stats")
	ErrOutOfRange   = errors.New("target out of attack range")
)

// ValidateAttack validates attack before the engagement layer raises an AttackEvent.
// Returns error if validation fails (attack should not proceed).
//
// Checks:
//   - Target exists
//   - Attacker has stats and is alive
//   - Target alive and hostile
//   - Target in attack range
func ValidateAttack(attacker, target *world.Unit) error {
	if target == nil {
		return ErrNoTarget
	}
	if attacker.Stats == nil {
		return ErrNoStats
	}
	if !attacker.Alive() {
		return ErrAttackerDead
	}
	if !target.Alive() {
		return ErrTargetDead
	}
	if attacker.Faction == target.Faction {
		return ErrFriendly
	}
	if !IsInAttackRange(attacker, target) {
		return ErrOutOfRange
	}
	return nil
}

// IsInAttackRange checks if target is within the attacker's attack range.
func IsInAttackRange(attacker, target *world.Unit) bool {
	if attacker.Stats == nil {
		return false
	}
	r := attacker.Stats.AttackRange
	return attacker.Location.DistanceSquared(target.Location) <= r*r
}
