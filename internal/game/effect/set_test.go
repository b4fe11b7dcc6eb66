package effect

import (
	"testing"

	"github.com/udisondev/combatlab/internal/model"
)

func TestStatValue_AddThenMul(t *testing.T) {
	s := NewSet()
	s.AddBuff(StatModifier("focus", model.StatTxC, ModAdd, 10, 3))
	s.AddBuff(StatModifier("haste", model.StatTxC, ModMul, 1.5, 3))
	s.AddBuff(StatModifier("bulk", model.StatArmor, ModAdd, 99, 3))

	if got := s.StatValue(model.StatTxC, 20); got != 45 {
		t.Fatalf("expected (20+10)*1.5 = 45, got %v", got)
	}

	stats := s.Apply(model.StatBlock{TxC: 20, Armor: 1})
	if stats.TxC != 45 || stats.Armor != 100 {
		t.Errorf("unexpected applied stats: txc=%v armor=%v", stats.TxC, stats.Armor)
	}
}

func TestAbsorbDamage_ShieldDepletes(t *testing.T) {
	s := NewSet()
	s.AddBuff(Shield("barrier", 20, 3))

	absorbed, rest := s.AbsorbDamage(100)
	if absorbed != 20 || rest != 80 {
		t.Fatalf("expected absorbed=20 rest=80, got %v/%v", absorbed, rest)
	}
	if s.BuffCount() != 0 {
		t.Fatalf("depleted shield should be removed, %d buffs left", s.BuffCount())
	}
}

func TestAbsorbDamage_PartialKeepsShield(t *testing.T) {
	s := NewSet()
	s.AddBuff(Shield("a", 10, 3))
	s.AddBuff(Shield("b", 50, 3))

	absorbed, rest := s.AbsorbDamage(30)
	if absorbed != 30 || rest != 0 {
		t.Fatalf("expected full absorb, got %v/%v", absorbed, rest)
	}
	buffs := s.Buffs()
	if len(buffs) != 1 || buffs[0].Name != "b" || buffs[0].Remaining != 30 {
		t.Fatalf("expected shield b with 30 left, got %+v", buffs)
	}
	if s.ShieldRemaining() != 30 {
		t.Errorf("expected 30 remaining, got %v", s.ShieldRemaining())
	}
}

func TestTickBuffs(t *testing.T) {
	s := NewSet()
	s.AddBuff(StatModifier("short", model.StatDamage, ModAdd, 1, 1))
	s.AddBuff(StatModifier("long", model.StatDamage, ModAdd, 1, 2))
	s.AddBuff(StatModifier("aura", model.StatDamage, ModAdd, 1, Permanent))

	expired := s.TickBuffs()
	if len(expired) != 1 || expired[0].Name != "short" {
		t.Fatalf("expected short to expire, got %+v", expired)
	}
	s.TickBuffs()
	if s.BuffCount() != 1 || s.Buffs()[0].Name != "aura" {
		t.Fatalf("only the permanent buff should remain, got %+v", s.Buffs())
	}
}

func TestAddBuff_Rejects(t *testing.T) {
	s := NewSet()
	if s.AddBuff(StatModifier("x", model.StatDamage, ModAdd, 1, 0)) {
		t.Error("zero-duration buff should be rejected")
	}
	if s.AddBuff(Shield("empty", 0, 3)) {
		t.Error("empty shield should be rejected")
	}
}

func TestTickDots_StacksAndExpiry(t *testing.T) {
	s := NewSet()
	s.AddDot(Poison("a", 3, 1, 2))
	s.AddDot(Poison("a", 3, 1, 1)) // stacks onto the first

	if s.DotCount() != 1 {
		t.Fatalf("expected stacked dot, got %d", s.DotCount())
	}

	var total float64
	tick := func(d PeriodicEffect) { total += d.TickAmount() }

	s.TickDots(tick)
	if total != 6 {
		t.Fatalf("expected 2 stacks x 3 = 6, got %v", total)
	}
	expired := s.TickDots(tick)
	if len(expired) != 1 || s.DotCount() != 0 {
		t.Fatalf("dot should expire after 2 ticks, expired=%d left=%d", len(expired), s.DotCount())
	}
	if total != 12 {
		t.Errorf("expected 12 total, got %v", total)
	}
}

func TestReset(t *testing.T) {
	s := NewSet()
	s.AddBuff(Shield("barrier", 10, 2))
	s.AddDot(Poison("a", 1, 1, 2))

	s.Reset()

	if s.BuffCount() != 0 || s.DotCount() != 0 {
		t.Fatal("reset should drop everything")
	}
	if s.ShieldRemaining() != 0 {
		t.Fatal("reset should drop shields")
	}
}
