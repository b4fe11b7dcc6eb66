package effect

import (
	"math"

	"github.com/udisondev/combatlab/internal/model"
)

// Set tracks the active buffs and DoTs of one entity.
// Not safe for concurrent use: every battle owns its sets.
type Set struct {
	buffs []Buff
	dots  []PeriodicEffect
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{
		buffs: make([]Buff, 0, 4),
		dots:  make([]PeriodicEffect, 0, 2),
	}
}

// AddBuff appends a buff. Zero-duration buffs and empty shields are ignored.
func (s *Set) AddBuff(b Buff) bool {
	if b.Duration == 0 {
		return false
	}
	if b.Kind == BuffShield && b.Remaining <= 0 {
		return false
	}
	s.buffs = append(s.buffs, b)
	return true
}

// AddDot adds a periodic effect. A DoT with the same name and source stacks:
// stacks add up and the longer duration wins.
func (s *Set) AddDot(d PeriodicEffect) bool {
	if d.Duration <= 0 {
		return false
	}
	for i := range s.dots {
		existing := &s.dots[i]
		if existing.Kind == d.Kind && existing.Name == d.Name && existing.Source == d.Source {
			existing.Stacks += max(d.Stacks, 1)
			existing.Duration = max(existing.Duration, d.Duration)
			return true
		}
	}
	s.dots = append(s.dots, d)
	return true
}

// Buffs returns a copy of the active buffs.
func (s *Set) Buffs() []Buff { return append([]Buff(nil), s.buffs...) }

// Dots returns a copy of the active DoTs.
func (s *Set) Dots() []PeriodicEffect { return append([]PeriodicEffect(nil), s.dots...) }

// BuffCount returns the number of active buffs.
func (s *Set) BuffCount() int { return len(s.buffs) }

// DotCount returns the number of active DoTs.
func (s *Set) DotCount() int { return len(s.dots) }

// StatValue applies every stat_modifier targeting id to base: additive bonuses
// first, then multiplicative ones.
func (s *Set) StatValue(id model.StatID, base float64) float64 {
	add, mul := 0.0, 1.0
	for _, b := range s.buffs {
		if b.Kind != BuffStatModifier || b.Stat != id {
			continue
		}
		switch b.Mode {
		case ModAdd:
			add += b.Value
		case ModMul:
			mul *= b.Value
		}
	}
	return (base + add) * mul
}

// Apply returns stats with every stat_modifier folded in.
func (s *Set) Apply(stats model.StatBlock) model.StatBlock {
	seen := make(map[model.StatID]struct{}, len(s.buffs))
	for _, b := range s.buffs {
		if b.Kind != BuffStatModifier {
			continue
		}
		if _, ok := seen[b.Stat]; ok {
			continue
		}
		seen[b.Stat] = struct{}{}
		stats.Set(b.Stat, s.StatValue(b.Stat, stats.Get(b.Stat)))
	}
	return stats
}

// ShieldRemaining is the total capacity left across active shields.
func (s *Set) ShieldRemaining() float64 {
	var total float64
	for _, b := range s.buffs {
		if b.Kind == BuffShield {
			total += b.Remaining
		}
	}
	return total
}

// AbsorbDamage routes amount through the shields in the order they were
// applied. Depleted shields are removed. Returns absorbed and overflow.
func (s *Set) AbsorbDamage(amount float64) (absorbed, rest float64) {
	rest = math.Max(0, amount)
	kept := s.buffs[:0]
	for _, b := range s.buffs {
		if b.Kind == BuffShield && rest > 0 {
			take := math.Min(b.Remaining, rest)
			b.Remaining -= take
			absorbed += take
			rest -= take
			if b.Remaining <= 0 {
				continue
			}
		}
		kept = append(kept, b)
	}
	s.buffs = kept
	return absorbed, rest
}

// TickBuffs decrements buff durations and removes expired ones.
func (s *Set) TickBuffs() []Buff {
	var expired []Buff
	kept := s.buffs[:0]
	for _, b := range s.buffs {
		if b.Duration != Permanent {
			b.Duration--
			if b.Duration <= 0 {
				expired = append(expired, b)
				continue
			}
		}
		kept = append(kept, b)
	}
	s.buffs = kept
	return expired
}

// TickDots calls apply for each active DoT, then decrements durations and
// removes expired effects. Returns the expired effects.
func (s *Set) TickDots(apply func(PeriodicEffect)) []PeriodicEffect {
	var expired []PeriodicEffect
	kept := s.dots[:0]
	for _, d := range s.dots {
		apply(d)
		d.Duration--
		if d.Duration <= 0 {
			expired = append(expired, d)
			continue
		}
		kept = append(kept, d)
	}
	s.dots = kept
	return expired
}

// Reset drops every effect.
func (s *Set) Reset() {
	s.buffs = s.buffs[:0]
	s.dots = s.dots[:0]
}
