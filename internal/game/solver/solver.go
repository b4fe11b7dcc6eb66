// Package solver keeps a StatBlock internally consistent when any single field,
// base or derived, is edited.
package solver

import (
	"log/slog"
	"math"

	"github.com/udisondev/combatlab/internal/game/formula"
	"github.com/udisondev/combatlab/internal/game/metrics"
	"github.com/udisondev/combatlab/internal/model"
)

// lockTolerance is the relative drift a locked derived value may show after a
// compensating rule before the generic re-derivation kicks in.
const lockTolerance = 1e-6

// Solver is stateless apart from the crit/fail precedence used by the formulas.
// Safe for concurrent use.
type Solver struct {
	Precedence formula.Precedence
}

// New creates a Solver.
func New(p formula.Precedence) *Solver {
	return &Solver{Precedence: p}
}

// Recalculate recomputes every derived field from the base fields. Idempotent.
func (s *Solver) Recalculate(stats model.StatBlock) model.StatBlock {
	metrics.Compute(stats, s.Precedence).Apply(&stats)
	return stats
}

// Solve applies value to changed and restores consistency.
//
// Editing a derived field solves a base field for it (damage by default, the
// alternate target when damage is locked). Editing a base field under a
// derived lock moves a compensating base field so the locked value holds.
// The result is always fully recalculated.
func (s *Solver) Solve(current model.StatBlock, changed model.StatID, value float64, locked model.StatID) model.StatBlock {
	prev := s.Recalculate(current)
	next := prev
	next.Set(changed, value)

	if changed == locked {
		// Editing the locked field itself: the edit wins over the lock.
		locked = model.Any
	}

	r, ok := lookupRule(changed, locked)
	switch {
	case ok && r.kind == ruleReverse:
		slog.Debug("solver reverse derivation", "changed", changed, "locked", locked, "target", r.target)
		if !s.invert(&next, changed, r.target, value) {
			slog.Debug("solver target unreachable", "changed", changed, "target", r.target, "value", value)
		}

	case ok && r.kind == ruleCompensate:
		slog.Debug("solver compensation", "changed", changed, "locked", locked, "target", r.target)
		if !compensate(prev, &next, changed, r.target) || s.drifted(prev, next, locked) {
			s.restore(prev, &next, changed, locked)
		}

	case locked.IsDerived():
		s.restore(prev, &next, changed, locked)
	}

	return s.Recalculate(next)
}

// restore re-derives the locked field back to its previous value, keeping the
// edited field pinned.
func (s *Solver) restore(prev model.StatBlock, next *model.StatBlock, changed, locked model.StatID) {
	target, ok := reverseTarget(locked, changed)
	if !ok || target == changed {
		slog.Debug("solver lock cannot be held", "changed", changed, "locked", locked)
		return
	}
	slog.Debug("solver restoring lock", "changed", changed, "locked", locked, "target", target)
	if !s.invert(next, locked, target, prev.Get(locked)) {
		slog.Debug("solver lock unreachable", "locked", locked, "target", target)
	}
}

func (s *Solver) drifted(prev, next model.StatBlock, locked model.StatID) bool {
	want := prev.Get(locked)
	got := s.metric(next, locked)
	return math.Abs(got-want) > lockTolerance*math.Max(1, math.Abs(want))
}

// metric evaluates a derived field of stats.
func (s *Solver) metric(stats model.StatBlock, derived model.StatID) float64 {
	stats = s.Recalculate(stats)
	return stats.Get(derived)
}

// invert sets target on st so that derived evaluates to want. Linear
// relations are solved directly, the rest by bisection. Returns false and
// leaves st untouched when want is unreachable.
func (s *Solver) invert(st *model.StatBlock, derived, target model.StatID, want float64) bool {
	switch {
	case derived == model.StatHTK && target == model.StatDamage:
		if want <= 0 || want >= formula.Sentinel {
			return false
		}
		st.Damage = st.HP / want
		return true
	case derived == model.StatHTK && target == model.StatHP:
		st.HP = want * st.Damage
		return true
	case derived == model.StatHitChance && target == model.StatTxC:
		st.TxC = want - formula.BaseHitChance + st.Evasion
		return true
	case derived == model.StatHitChance && target == model.StatEvasion:
		st.Evasion = formula.BaseHitChance + st.TxC - want
		return true
	}

	probe := *st
	f := func(x float64) float64 {
		probe.Set(target, x)
		return s.metric(probe, derived)
	}
	lo, hi := bracket(target, st.Get(target))
	x, ok := Bisect(f, want, lo, hi)
	if !ok {
		return false
	}
	st.Set(target, x)
	return true
}

// bracket returns the initial search interval for a solved base field.
func bracket(target model.StatID, cur float64) (lo, hi float64) {
	span := math.Max(2*math.Abs(cur), 16)
	switch target {
	case model.StatDamage, model.StatHP:
		return bracketLowEpsilon, span
	case model.StatArmor:
		return 0, span
	case model.StatTxC, model.StatEvasion:
		return cur - 512, cur + 512
	}
	return cur - span, cur + span
}

// compensate moves target so the mitigation/accuracy/ratio meaning of the edit
// is cancelled out. Returns false when no valid compensating value exists.
func compensate(prev model.StatBlock, next *model.StatBlock, changed, target model.StatID) bool {
	delta := next.Get(changed) - prev.Get(changed)

	switch target {
	case model.StatArmorPen, model.StatArmor, model.StatEvasion, model.StatTxC:
		next.Set(target, prev.Get(target)+delta)
		return true

	case model.StatPenPercent:
		eff := formula.EffectiveResistance(prev.Resistance, prev.PenPercent)
		if next.Resistance == 0 {
			return eff == 0
		}
		p := 100 * (1 - eff/next.Resistance)
		if p < 0 || p > 100 {
			return false
		}
		next.PenPercent = p
		return true

	case model.StatResistance:
		eff := formula.EffectiveResistance(prev.Resistance, prev.PenPercent)
		p := formula.Clamp(next.PenPercent, 0, 100)
		if p >= 100 {
			return eff == 0
		}
		next.Resistance = eff / (1 - p/100)
		return true

	case model.StatDamage:
		if prev.HTK <= 0 || prev.HTK >= formula.Sentinel {
			return false
		}
		next.Damage = next.HP / prev.HTK
		return true

	case model.StatHP:
		if prev.HTK >= formula.Sentinel {
			return false
		}
		next.HP = prev.HTK * next.Damage
		return true
	}
	return false
}
