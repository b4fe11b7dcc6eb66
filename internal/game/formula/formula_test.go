package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/combatlab/internal/model"
)

func TestHTK(t *testing.T) {
	assert.InDelta(t, 5.0, HTK(100, 20), 1e-12)
	assert.Equal(t, Sentinel, HTK(100, 0))
	assert.Equal(t, Sentinel, HTK(100, -3))
}

func TestHitChanceAndProbability(t *testing.T) {
	assert.Equal(t, 150.0, HitChance(100, 0))
	assert.Equal(t, -50.0, HitChance(-100, 0))
	assert.Equal(t, 1.0, Probability(HitChance(100, 0)))
	assert.Equal(t, 0.0, Probability(HitChance(-100, 0)))
	assert.InDelta(t, 0.6, Probability(HitChance(20, 10)), 1e-12)
}

func TestOutcomeProbabilities(t *testing.T) {
	tests := []struct {
		name string
		p    Precedence
		want OutcomeOdds
	}{
		{"fail wins", FailOverCrit, OutcomeOdds{Crit: 0.2 * 0.9, Fail: 0.1, Normal: 0.8 * 0.9}},
		{"crit wins", CritOverFail, OutcomeOdds{Crit: 0.2, Fail: 0.1 * 0.8, Normal: 0.8 * 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutcomeProbabilities(20, 10, tt.p)
			assert.InDelta(t, tt.want.Crit, got.Crit, 1e-12)
			assert.InDelta(t, tt.want.Fail, got.Fail, 1e-12)
			assert.InDelta(t, tt.want.Normal, got.Normal, 1e-12)
			assert.InDelta(t, 1.0, got.Crit+got.Fail+got.Normal, 1e-12)
		})
	}
}

func TestResolveOutcome(t *testing.T) {
	assert.Equal(t, OutcomeFail, ResolveOutcome(true, true, FailOverCrit))
	assert.Equal(t, OutcomeCrit, ResolveOutcome(true, true, CritOverFail))
	assert.Equal(t, OutcomeCrit, ResolveOutcome(true, false, FailOverCrit))
	assert.Equal(t, OutcomeFail, ResolveOutcome(false, true, CritOverFail))
	assert.Equal(t, OutcomeNormal, ResolveOutcome(false, false, FailOverCrit))
}

func TestParsePrecedence(t *testing.T) {
	p, err := ParsePrecedence("")
	require.NoError(t, err)
	assert.Equal(t, FailOverCrit, p)

	p, err = ParsePrecedence("crit_over_fail")
	require.NoError(t, err)
	assert.Equal(t, CritOverFail, p)

	_, err = ParsePrecedence("coin_flip")
	assert.Error(t, err)
}

func TestMitigate_Order(t *testing.T) {
	// flat first: (30-10)/2 = 10; percent first: 30/2-10 = 5
	assert.InDelta(t, 10.0, Mitigate(30, 10, 100, true), 1e-12)
	assert.InDelta(t, 5.0, Mitigate(30, 10, 100, false), 1e-12)
}

func TestMitigate_Floors(t *testing.T) {
	assert.Equal(t, 1.0, Mitigate(5, 100, 0, true), "connected hit deals at least 1")
	assert.Equal(t, 0.0, Mitigate(0, 0, 0, true))
	// resistance -100 would divide by zero without the floor
	got := ApplyPercent(10, -100)
	assert.InDelta(t, 10/MinResistanceDivisor, got, 1e-9)
}

func TestOutcomeDamage_CritOrder(t *testing.T) {
	// before crit: (20-10)*2 = 20; after crit: 40-10 = 30
	assert.InDelta(t, 20.0, OutcomeDamage(20, 2, 10, 0, true, true), 1e-12)
	assert.InDelta(t, 30.0, OutcomeDamage(20, 2, 10, 0, true, false), 1e-12)
	assert.Equal(t, 0.0, OutcomeDamage(20, 0, 10, 0, true, false), "fail multiplier 0 deals nothing")
}

func TestPenetration(t *testing.T) {
	assert.Equal(t, 0.0, EffectiveArmor(10, 25))
	assert.Equal(t, 15.0, EffectiveArmor(40, 25))
	assert.InDelta(t, 30.0, EffectiveResistance(40, 25), 1e-12)
	assert.InDelta(t, 40.0, EffectiveResistance(40, -10), 1e-12, "negative pen is ignored")
}

func TestEffectiveDamage(t *testing.T) {
	s := model.StatBlock{Damage: 20, Armor: 5, ArmorPen: 2, Resistance: 50, ConfigFlatFirst: true}
	// (20 - 3) / 1.5
	assert.InDelta(t, 17.0/1.5, EffectiveDamage(&s), 1e-12)

	s = model.StatBlock{Damage: 1, Armor: 50}
	assert.Equal(t, 1.0, EffectiveDamage(&s))
}

func TestExpect(t *testing.T) {
	a := model.StatBlock{Damage: 10, TxC: 0, CritChance: 50, CritMult: 2, CritTxCBonus: 20, FailMult: 0}
	d := model.StatBlock{}
	e := Expect(&a, &d, FailOverCrit)

	// crit 0.5 * hit 0.7 * 20 + normal 0.5 * hit 0.5 * 10
	wantHit := 0.5*0.7 + 0.5*0.5
	wantDmg := 0.5*0.7*20 + 0.5*0.5*10
	assert.InDelta(t, wantHit, e.HitChance, 1e-12)
	assert.InDelta(t, wantDmg, e.DamagePerAttack, 1e-12)
	assert.InDelta(t, wantDmg/wantHit, e.AverageDamage, 1e-12)
}

func TestExpect_NeverHits(t *testing.T) {
	a := model.StatBlock{Damage: 10, TxC: -100}
	d := model.StatBlock{}
	e := Expect(&a, &d, FailOverCrit)
	assert.Equal(t, 0.0, e.HitChance)
	assert.Equal(t, 0.0, e.AverageDamage)
	assert.Equal(t, Sentinel, AttacksToKill(100, e.DamagePerAttack))
}
