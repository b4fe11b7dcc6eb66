package formula

import (
	"math"

	"github.com/udisondev/combatlab/internal/model"
)

// MinResistanceDivisor floors the percentage-mitigation divisor so negative
// resistance cannot divide by zero or flip the sign of damage.
const MinResistanceDivisor = 0.01

// EffectiveArmor returns armor net of flat penetration, floored at 0.
func EffectiveArmor(armor, armorPen float64) float64 {
	return math.Max(0, armor-armorPen)
}

// EffectiveResistance returns resistance reduced by penPercent percent of itself.
func EffectiveResistance(resistance, penPercent float64) float64 {
	return resistance * (1 - Clamp(penPercent, 0, 100)/100)
}

// Defense returns the defender's armor and resistance after the attacker's
// penetration.
func Defense(attacker, defender *model.StatBlock) (armor, resistance float64) {
	return EffectiveArmor(defender.Armor, attacker.ArmorPen),
		EffectiveResistance(defender.Resistance, attacker.PenPercent)
}

// ApplyFlat subtracts flat armor.
func ApplyFlat(dmg, armor float64) float64 {
	return dmg - armor
}

// ApplyPercent divides by 1 + resistance/100 (floored at MinResistanceDivisor).
func ApplyPercent(dmg, resistance float64) float64 {
	return dmg / math.Max(1+resistance/100, MinResistanceDivisor)
}

// Mitigate applies armor and resistance in the configured order. Non-positive
// raw damage yields 0; anything that connects deals at least 1.
func Mitigate(raw, armor, resistance float64, flatFirst bool) float64 {
	if raw <= 0 {
		return 0
	}
	var d float64
	if flatFirst {
		d = ApplyPercent(ApplyFlat(raw, armor), resistance)
	} else {
		d = ApplyFlat(ApplyPercent(raw, resistance), armor)
	}
	return math.Max(1, d)
}

// OutcomeDamage applies an outcome multiplier and mitigation. With
// applyBeforeCrit the mitigated hit is multiplied; otherwise the multiplied hit
// is mitigated. A non-positive multiplier always deals 0.
func OutcomeDamage(base, mult, armor, resistance float64, flatFirst, applyBeforeCrit bool) float64 {
	if mult <= 0 || base <= 0 {
		return 0
	}
	if applyBeforeCrit {
		return Mitigate(base, armor, resistance, flatFirst) * mult
	}
	return Mitigate(base*mult, armor, resistance, flatFirst)
}

// EffectiveDamage is a plain hit of s against its own mitigation profile,
// floored at 1.
func EffectiveDamage(s *model.StatBlock) float64 {
	armor, res := Defense(s, s)
	return math.Max(1, Mitigate(s.Damage, armor, res, s.ConfigFlatFirst))
}
