// Package metrics computes closed-form per-turn combat estimates for a single
// StatBlock fighting a mirror copy of itself.
package metrics

import (
	"github.com/udisondev/combatlab/internal/game/formula"
	"github.com/udisondev/combatlab/internal/model"
)

// EarlyTurns is the horizon of the earlyImpact metric.
const EarlyTurns = 3

// Metrics is every derived value of a StatBlock.
type Metrics struct {
	HTK             float64
	HitChance       float64
	EffectiveDamage float64

	// EffectiveHitChance folds crit/fail TxC adjustments, in [0, 1].
	EffectiveHitChance float64
	// AverageDamage is the mean damage of a landed hit.
	AverageDamage float64

	AttacksPerKO float64
	EDPT         float64
	TTK          float64
	EarlyImpact  float64
}

// Compute evaluates every derived field of s.
func Compute(s model.StatBlock, p formula.Precedence) Metrics {
	e := formula.Expect(&s, &s, p)
	edpt := EDPT(s, e)
	return Metrics{
		HTK:                formula.HTK(s.HP, s.Damage),
		HitChance:          formula.HitChance(s.TxC, s.Evasion),
		EffectiveDamage:    formula.EffectiveDamage(&s),
		EffectiveHitChance: e.HitChance,
		AverageDamage:      e.AverageDamage,
		AttacksPerKO:       formula.AttacksToKill(s.HP, e.DamagePerAttack),
		EDPT:               edpt,
		TTK:                TTK(s, edpt),
		EarlyImpact:        EarlyImpact(s, edpt),
	}
}

// EDPT is expected damage per turn: one attack plus thorns reflected off the
// opponent's landed hits.
func EDPT(s model.StatBlock, e formula.Expectation) float64 {
	return e.DamagePerAttack + s.Thorns*e.HitChance
}

// TTK is turns to kill: the opponent's pool (hp + energy shield) over damage
// per turn net of its regen.
func TTK(s model.StatBlock, edpt float64) float64 {
	net := edpt - s.Regen
	if net <= 0 {
		return formula.Sentinel
	}
	return (s.HP + s.EnergyShield) / net
}

// EarlyImpact is the share of hp, in percent, dealt over the first EarlyTurns turns.
func EarlyImpact(s model.StatBlock, edpt float64) float64 {
	if s.HP <= 0 {
		return formula.Sentinel
	}
	return 100 * EarlyTurns * edpt / s.HP
}

// Apply writes m into the derived fields of s.
func (m Metrics) Apply(s *model.StatBlock) {
	s.HTK = m.HTK
	s.HitChance = m.HitChance
	s.EffectiveDamage = m.EffectiveDamage
	s.AttacksPerKO = m.AttacksPerKO
	s.EDPT = m.EDPT
	s.TTK = m.TTK
	s.EarlyImpact = m.EarlyImpact
}
