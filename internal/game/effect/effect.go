// Package effect models the timed buffs, shields and periodic effects an
// entity carries during one battle.
package effect

import "github.com/udisondev/combatlab/internal/model"

// Permanent marks a buff that never decays.
const Permanent = -1

// ModMode defines how a stat modifier is applied.
type ModMode int8

const (
	ModAdd ModMode = iota // Additive bonus (e.g. +10 txc)
	ModMul                // Multiplicative bonus (e.g. ×1.2 damage)
)

func (m ModMode) String() string {
	if m == ModMul {
		return "mul"
	}
	return "add"
}

// BuffKind tags the Buff variant.
type BuffKind uint8

const (
	BuffStatModifier BuffKind = iota
	BuffShield
)

func (k BuffKind) String() string {
	switch k {
	case BuffShield:
		return "shield"
	default:
		return "stat_modifier"
	}
}

// Buff is a closed tagged union. Stat/Mode/Value are meaningful for
// BuffStatModifier; Capacity/Remaining for BuffShield.
type Buff struct {
	Kind BuffKind
	Name string

	Stat  model.StatID
	Mode  ModMode
	Value float64

	Capacity  float64
	Remaining float64

	// Duration is the number of turns left; Permanent never decays.
	Duration int
}

// StatModifier creates a stat_modifier buff.
func StatModifier(name string, stat model.StatID, mode ModMode, value float64, duration int) Buff {
	return Buff{Kind: BuffStatModifier, Name: name, Stat: stat, Mode: mode, Value: value, Duration: duration}
}

// Shield creates a shield buff at full capacity.
func Shield(name string, capacity float64, duration int) Buff {
	return Buff{Kind: BuffShield, Name: name, Capacity: capacity, Remaining: capacity, Duration: duration}
}

// PeriodicKind tags the PeriodicEffect variant.
type PeriodicKind uint8

const (
	PeriodicDamage PeriodicKind = iota
)

func (k PeriodicKind) String() string { return "damage" }

// PeriodicEffect is a DoT applied at turn start.
type PeriodicEffect struct {
	Kind      PeriodicKind
	Name      string
	Source    string
	Magnitude float64
	Stacks    int
	Duration  int
}

// Poison creates the stock damage-over-time effect.
func Poison(source string, magnitude float64, stacks, duration int) PeriodicEffect {
	return PeriodicEffect{
		Kind:      PeriodicDamage,
		Name:      "Poison",
		Source:    source,
		Magnitude: magnitude,
		Stacks:    stacks,
		Duration:  duration,
	}
}

// TickAmount is the per-turn magnitude across all stacks.
func (p PeriodicEffect) TickAmount() float64 {
	stacks := p.Stacks
	if stacks < 1 {
		stacks = 1
	}
	return p.Magnitude * float64(stacks)
}
