package combat

import "github.com/udisondev/squadfall/internal/model"

// MinDamage is the least damage a landed attack deals before mitigation buffs.
const MinDamage float32 = 1

// CalcDamage computes attack damage of attacker against target.
//
// Formula: max(MinDamage, atk * (counterMult if attacker counters target) - def)
func CalcDamage(attacker, target *model.UnitStats, counterMult float32) float32 {
	if attacker == nil {
		return 0
	}
	dmg := attacker.Damage
	var def float32
	if target != nil {
		if attacker.Counters(target.Kind) {
			dmg *= counterMult
		}
		def = target.Defense
	}
	return max(MinDamage, dmg-def)
}
