package ehp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/combatlab/internal/model"
)

func TestArmorReduction_Exact(t *testing.T) {
	assert.Equal(t, 0.5, ArmorReduction(200, 20))
	assert.Equal(t, 0.0, ArmorReduction(0, 20))
	assert.Equal(t, 0.0, ArmorReduction(-50, 20))
	assert.Equal(t, MaxArmorReduction, ArmorReduction(1e9, 20))
	assert.Equal(t, MaxArmorReduction, ArmorReduction(10, 0), "zero hit is fully mitigated up to the cap")
}

func TestEvasionChance_Cap(t *testing.T) {
	for _, acc := range []float64{0, 1, 50, 1000} {
		assert.LessOrEqual(t, EvasionChance(10000, acc), MaxEvasionChance)
	}
	assert.Equal(t, 0.5, EvasionChance(50, 50))
}

func TestResistanceReduction(t *testing.T) {
	assert.Equal(t, 0.3, ResistanceReduction(30))
	assert.Equal(t, MaxResistanceReduction, ResistanceReduction(500))
	assert.Equal(t, 0.0, ResistanceReduction(-20))
}

func TestCalculate(t *testing.T) {
	s := model.StatBlock{HP: 100, Armor: 200, Resistance: 50}
	r := Calculate(s, DefaultProfile())

	assert.Equal(t, 100.0, r.Pool)
	assert.InDelta(t, 200.0, r.PhysicalEHP, 1e-9)
	assert.InDelta(t, 200.0, r.MagicalEHP, 1e-9)
	assert.InDelta(t, 200.0, r.MixedEHP, 1e-9)
}

func TestCalculate_MixedIsDamageWeighted(t *testing.T) {
	s := model.StatBlock{HP: 100, Armor: 200}
	r := Calculate(s, DefaultProfile())

	assert.InDelta(t, 200.0, r.PhysicalEHP, 1e-9)
	assert.InDelta(t, 100.0, r.MagicalEHP, 1e-9)
	// half the damage is halved: 100 / 0.75
	assert.InDelta(t, 100/0.75, r.MixedEHP, 1e-9)
}

func TestCalculate_PoolWardBlock(t *testing.T) {
	s := model.StatBlock{HP: 80, EnergyShield: 20, Ward: 5, Block: 200}
	r := Calculate(s, DefaultProfile())

	assert.Equal(t, 100.0, r.Pool)
	assert.Equal(t, 0.25, r.WardReduction)
	assert.Equal(t, MaxBlockChance, r.BlockChance)
	assert.InDelta(t, 100/0.75/0.25, r.MixedEHP, 1e-9)
}

func TestCalculate_ZeroDefensesIsHP(t *testing.T) {
	r := Calculate(model.StatBlock{HP: 123}, DefaultProfile())
	assert.Equal(t, 123.0, r.PhysicalEHP)
	assert.Equal(t, 123.0, r.MagicalEHP)
	assert.Equal(t, 123.0, r.MixedEHP)
}

func TestMarginalValue_ArmorDiminishes(t *testing.T) {
	p := DefaultProfile()
	prev := MarginalValue(model.StatBlock{HP: 100}, model.StatArmor, p)
	for armor := 50.0; armor <= 1000; armor += 50 {
		cur := MarginalValue(model.StatBlock{HP: 100, Armor: armor}, model.StatArmor, p)
		assert.Less(t, cur, prev, "armor=%v", armor)
		assert.Positive(t, cur)
		prev = cur
	}
}

func TestMarginalValue_HP(t *testing.T) {
	p := DefaultProfile()
	for _, hp := range []float64{1, 100, 5000} {
		assert.InDelta(t, 1.0, MarginalValue(model.StatBlock{HP: hp}, model.StatHP, p), 1e-9)
	}

	// with defenses the gain is constant in hp
	a := MarginalValue(model.StatBlock{HP: 100, Armor: 100}, model.StatHP, p)
	b := MarginalValue(model.StatBlock{HP: 900, Armor: 100}, model.StatHP, p)
	assert.InDelta(t, a, b, 1e-9)
}

func BenchmarkCalculate(b *testing.B) {
	s := model.StatBlock{HP: 100, Armor: 150, Resistance: 20, Evasion: 30, Ward: 2, Block: 10}
	p := DefaultProfile()
	b.ReportAllocs()
	for range b.N {
		_ = Calculate(s, p)
	}
}
