package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/combatlab/internal/game/formula"
	"github.com/udisondev/combatlab/internal/model"
)

const tol = 1e-6

func baseStats() model.StatBlock {
	return model.StatBlock{
		HP:              120,
		Damage:          15,
		TxC:             10,
		Evasion:         5,
		CritChance:      10,
		CritMult:        2,
		FailChance:      5,
		FailMult:        0,
		Armor:           4,
		Resistance:      20,
		ArmorPen:        1,
		PenPercent:      10,
		Regen:           1,
		ConfigFlatFirst: true,
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	s := New(formula.FailOverCrit)
	once := s.Recalculate(baseStats())
	twice := s.Recalculate(once)
	assert.Equal(t, once, twice)
	assert.InDelta(t, 8.0, once.HTK, tol)
	assert.InDelta(t, 55.0, once.HitChance, tol)
}

func TestSolve_HTKRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		locked     model.StatID
		wantHP     float64
		wantDamage float64
	}{
		{"hp locked moves damage", model.StatHP, 120, 30},
		{"damage locked moves hp", model.StatDamage, 60, 15},
		{"no lock moves damage", model.Any, 120, 30},
	}

	s := New(formula.FailOverCrit)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Solve(baseStats(), model.StatHTK, 4, tt.locked)
			assert.InDelta(t, 4.0, got.HTK, tol)
			assert.InDelta(t, tt.wantHP, got.HP, tol)
			assert.InDelta(t, tt.wantDamage, got.Damage, tol)
			assert.Equal(t, got, s.Recalculate(got), "solve output must be at rest")
		})
	}
}

func TestSolve_HitChance(t *testing.T) {
	s := New(formula.FailOverCrit)

	got := s.Solve(baseStats(), model.StatHitChance, 70, model.Any)
	assert.InDelta(t, 70.0, got.HitChance, tol)
	assert.InDelta(t, 25.0, got.TxC, tol)
	assert.InDelta(t, 5.0, got.Evasion, tol)

	got = s.Solve(baseStats(), model.StatHitChance, 70, model.StatTxC)
	assert.InDelta(t, 70.0, got.HitChance, tol)
	assert.InDelta(t, 10.0, got.TxC, tol)
	assert.InDelta(t, -10.0, got.Evasion, tol)
}

func TestSolve_ReverseDerivedFields(t *testing.T) {
	s := New(formula.FailOverCrit)
	start := s.Recalculate(baseStats())

	tests := []struct {
		derived model.StatID
		locked  model.StatID
		value   float64
		moved   model.StatID
	}{
		{model.StatAttacksPerKO, model.Any, start.AttacksPerKO * 0.5, model.StatDamage},
		{model.StatAttacksPerKO, model.StatDamage, start.AttacksPerKO * 1.5, model.StatHP},
		{model.StatEffectiveDamage, model.Any, 20, model.StatDamage},
		{model.StatEffectiveDamage, model.StatDamage, start.EffectiveDamage - 2, model.StatArmor},
		{model.StatEDPT, model.Any, start.EDPT * 2, model.StatDamage},
		{model.StatEDPT, model.StatDamage, start.EDPT * 1.1, model.StatTxC},
		{model.StatTTK, model.Any, start.TTK * 0.5, model.StatDamage},
		{model.StatTTK, model.StatDamage, start.TTK * 2, model.StatHP},
		{model.StatEarlyImpact, model.Any, start.EarlyImpact * 1.5, model.StatDamage},
		{model.StatEarlyImpact, model.StatDamage, start.EarlyImpact * 0.5, model.StatHP},
	}

	for _, tt := range tests {
		t.Run(string(tt.derived)+"/"+tt.locked.String(), func(t *testing.T) {
			got := s.Solve(start, tt.derived, tt.value, tt.locked)
			assert.InDelta(t, tt.value, got.Get(tt.derived), 1e-4*math.Max(1, tt.value))
			assert.NotEqual(t, start.Get(tt.moved), got.Get(tt.moved), "target field should move")
			if tt.locked != model.Any {
				assert.Equal(t, start.Get(tt.locked), got.Get(tt.locked), "locked field must not move")
			}
		})
	}
}

func TestSolve_LockedAttacksPerKO_ArmorRaisesPen(t *testing.T) {
	s := New(formula.FailOverCrit)
	start := s.Recalculate(baseStats())

	got := s.Solve(start, model.StatArmor, start.Armor+6, model.StatAttacksPerKO)

	assert.InDelta(t, start.ArmorPen+6, got.ArmorPen, tol)
	assert.InDelta(t, start.AttacksPerKO, got.AttacksPerKO, tol)
	assert.Equal(t, start.Damage, got.Damage)
}

func TestSolve_LockedAttacksPerKO_ResistanceRescalesPen(t *testing.T) {
	s := New(formula.FailOverCrit)
	start := s.Recalculate(baseStats())

	got := s.Solve(start, model.StatResistance, 40, model.StatAttacksPerKO)

	assert.InDelta(t, 40.0, got.Resistance, tol)
	assert.InDelta(t, 55.0, got.PenPercent, tol) // 40 * (1 - 0.55) = 18 = 20 * 0.9
	assert.InDelta(t, start.AttacksPerKO, got.AttacksPerKO, tol)
}

func TestSolve_LockedDerived_GenericRestore(t *testing.T) {
	s := New(formula.FailOverCrit)
	start := s.Recalculate(baseStats())

	// hp has no explicit pair under an attacksPerKo lock: damage follows.
	got := s.Solve(start, model.StatHP, 240, model.StatAttacksPerKO)
	assert.InDelta(t, 240.0, got.HP, tol)
	assert.InDelta(t, start.AttacksPerKO, got.AttacksPerKO, 1e-5)
	assert.Greater(t, got.Damage, start.Damage)

	// crit chance under a ttk lock: damage drops to compensate.
	got = s.Solve(start, model.StatCritChance, 40, model.StatTTK)
	assert.InDelta(t, 40.0, got.CritChance, tol)
	assert.InDelta(t, start.TTK, got.TTK, 1e-5)
	assert.Less(t, got.Damage, start.Damage)
}

func TestSolve_LockedHitChance(t *testing.T) {
	s := New(formula.FailOverCrit)
	start := s.Recalculate(baseStats())

	got := s.Solve(start, model.StatTxC, 30, model.StatHitChance)
	assert.InDelta(t, 25.0, got.Evasion, tol)
	assert.InDelta(t, start.HitChance, got.HitChance, tol)
}

func TestSolve_LockedHTK(t *testing.T) {
	s := New(formula.FailOverCrit)
	start := s.Recalculate(baseStats())

	got := s.Solve(start, model.StatHP, 60, model.StatHTK)
	assert.InDelta(t, 7.5, got.Damage, tol)
	assert.InDelta(t, start.HTK, got.HTK, tol)
}

func TestSolve_BaseLockIgnoredForBaseEdit(t *testing.T) {
	s := New(formula.FailOverCrit)
	start := s.Recalculate(baseStats())

	got := s.Solve(start, model.StatDamage, 30, model.StatHP)
	assert.Equal(t, 30.0, got.Damage)
	assert.Equal(t, start.HP, got.HP)
	assert.InDelta(t, 4.0, got.HTK, tol)
}

func TestSolve_FlagCoercion(t *testing.T) {
	s := New(formula.FailOverCrit)
	start := s.Recalculate(baseStats())

	got := s.Solve(start, model.StatConfigFlatFirst, 0, model.Any)
	require.False(t, got.ConfigFlatFirst)
	// percent first: 15/1.18 - 3
	assert.InDelta(t, 15/1.18-3, got.EffectiveDamage, tol)

	got = s.Solve(got, model.StatConfigApplyBeforeCrit, 7, model.Any)
	assert.True(t, got.ConfigApplyBeforeCrit)
}

func TestSolve_ZeroDamageSentinels(t *testing.T) {
	s := New(formula.FailOverCrit)
	got := s.Solve(baseStats(), model.StatDamage, 0, model.Any)

	assert.Equal(t, formula.Sentinel, got.HTK)
	assert.Equal(t, formula.Sentinel, got.AttacksPerKO)
	assert.Equal(t, 1.0, got.EffectiveDamage)
	assert.False(t, math.IsNaN(got.TTK))
}

func TestSolve_UnreachableKeepsStats(t *testing.T) {
	s := New(formula.FailOverCrit)
	start := s.Recalculate(baseStats())

	// htk of zero has no damage that produces it
	got := s.Solve(start, model.StatHTK, 0, model.Any)
	assert.Equal(t, start.Damage, got.Damage)
	assert.Equal(t, start.HTK, got.HTK)
}

func TestBisect(t *testing.T) {
	x, ok := Bisect(func(x float64) float64 { return x * x }, 9, 0, 1)
	require.True(t, ok)
	assert.InDelta(t, 3.0, x, 1e-6)

	x, ok = Bisect(func(x float64) float64 { return 10 - x }, 4, 0, 100)
	require.True(t, ok)
	assert.InDelta(t, 6.0, x, 1e-6)

	_, ok = Bisect(func(float64) float64 { return 1 }, 5, 0, 1)
	assert.False(t, ok)
}
