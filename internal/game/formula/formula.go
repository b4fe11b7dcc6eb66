// Package formula holds the leaf combat math shared by the solver, the combat
// state machine and the analyzers. All functions are pure.
package formula

import (
	"math"

	"github.com/udisondev/combatlab/internal/model"
)

// Sentinel stands in for "effectively infinite" ratios (zero or negative denominators).
const Sentinel = 999.0

// BaseHitChance is the hit chance in percent for equal TxC and evasion.
const BaseHitChance = 50.0

// HTK returns raw hits-to-kill, hp/damage.
func HTK(hp, damage float64) float64 {
	if damage <= 0 {
		return Sentinel
	}
	return hp / damage
}

// HitChance returns the raw hit chance in percent: 50 + txc − evasion.
// The value is not clamped; use Probability to turn it into a roll threshold.
func HitChance(txc, evasion float64) float64 {
	return BaseHitChance + txc - evasion
}

// Probability converts a percent value into a probability in [0, 1].
func Probability(percent float64) float64 {
	return Clamp(percent/100, 0, 1)
}

// Clamp limits v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OutcomeHitChance returns the hit chance in percent after the outcome's TxC
// adjustment: crits add critTxCBonus, fails subtract failTxCMalus.
func OutcomeHitChance(hitChance float64, o Outcome, s *model.StatBlock) float64 {
	switch o {
	case OutcomeCrit:
		return hitChance + s.CritTxCBonus
	case OutcomeFail:
		return hitChance - s.FailTxCMalus
	default:
		return hitChance
	}
}

// Multiplier returns the damage multiplier of an outcome.
func Multiplier(o Outcome, s *model.StatBlock) float64 {
	switch o {
	case OutcomeCrit:
		return s.CritMult
	case OutcomeFail:
		return s.FailMult
	default:
		return 1
	}
}

// Expectation is the closed-form per-attack summary of attacker vs defender.
type Expectation struct {
	// HitChance is the outcome-weighted hit probability in [0, 1].
	HitChance float64
	// AverageDamage is the mean damage of a landed hit.
	AverageDamage float64
	// DamagePerAttack is HitChance × AverageDamage.
	DamagePerAttack float64
}

// Expect folds crit/fail odds, their TxC adjustments, mitigation and the
// attacker's ordering flags into the expected damage of one attack.
func Expect(attacker, defender *model.StatBlock, p Precedence) Expectation {
	odds := OutcomeProbabilities(attacker.CritChance, attacker.FailChance, p)
	base := HitChance(attacker.TxC, defender.Evasion)
	armor, res := Defense(attacker, defender)

	var hit, dmg float64
	for _, o := range outcomes {
		po := odds.Of(o)
		if po == 0 {
			continue
		}
		h := Probability(OutcomeHitChance(base, o, attacker))
		d := OutcomeDamage(attacker.Damage, Multiplier(o, attacker), armor, res,
			attacker.ConfigFlatFirst, attacker.ConfigApplyBeforeCrit)
		hit += po * h
		dmg += po * h * d
	}

	e := Expectation{HitChance: hit, DamagePerAttack: dmg}
	if hit > 0 {
		e.AverageDamage = dmg / hit
	}
	return e
}

// AttacksToKill returns hp divided by expected damage per attack, or Sentinel
// when the denominator is not positive.
func AttacksToKill(hp, damagePerAttack float64) float64 {
	if damagePerAttack <= 0 || math.IsNaN(damagePerAttack) {
		return Sentinel
	}
	return hp / damagePerAttack
}
