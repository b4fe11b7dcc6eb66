// Package ehp computes the effective health pool of a stat profile against an
// assumed incoming-hit profile. Closed form, no simulation.
package ehp

import (
	"math"

	"github.com/udisondev/combatlab/internal/model"
)

// Reduction caps.
const (
	MaxArmorReduction      = 0.90
	MaxResistanceReduction = 0.75
	MaxEvasionChance       = 0.95
	MaxWardReduction       = 0.90
	MaxBlockChance         = 0.75

	// armorHitScale: armor/(armor + 10×hit).
	armorHitScale = 10.0
)

// Profile describes the incoming hits the pool is measured against.
type Profile struct {
	PhysicalHit float64 `yaml:"physical_hit" json:"physicalHit"`
	MagicalHit  float64 `yaml:"magical_hit" json:"magicalHit"`
	Accuracy    float64 `yaml:"accuracy" json:"accuracy"`
}

// DefaultProfile is a 20-point physical and magical hit at accuracy 50.
func DefaultProfile() Profile {
	return Profile{PhysicalHit: 20, MagicalHit: 20, Accuracy: 50}
}

// Result holds the individual reductions and the three pools.
type Result struct {
	Pool                float64 `json:"pool"`
	ArmorReduction      float64 `json:"armorReduction"`
	ResistanceReduction float64 `json:"resistanceReduction"`
	EvasionChance       float64 `json:"evasionChance"`
	WardReduction       float64 `json:"wardReduction"`
	BlockChance         float64 `json:"blockChance"`
	PhysicalEHP         float64 `json:"physicalEhp"`
	MagicalEHP          float64 `json:"magicalEhp"`
	MixedEHP            float64 `json:"mixedEhp"`
}

// Calculate computes the EHP of s against p.
//
// MixedEHP assumes a 50/50 split of incoming damage: the pool divided by the
// average fraction that gets through, so it is the harmonic mean of the two
// pools rather than their arithmetic mean.
func Calculate(s model.StatBlock, p Profile) Result {
	r := Result{
		Pool:                math.Max(0, s.HP) + math.Max(0, s.EnergyShield),
		ArmorReduction:      ArmorReduction(s.Armor, p.PhysicalHit),
		ResistanceReduction: ResistanceReduction(s.Resistance),
		EvasionChance:       EvasionChance(s.Evasion, p.Accuracy),
		BlockChance:         clamp(s.Block/100, 0, MaxBlockChance),
	}
	r.WardReduction = wardReduction(s.Ward, (p.PhysicalHit+p.MagicalHit)/2)

	// Evasion, ward and block apply to both damage types.
	common := (1 - r.EvasionChance) * (1 - r.WardReduction) * (1 - r.BlockChance)

	r.PhysicalEHP = r.Pool / (1 - r.ArmorReduction) / common
	r.MagicalEHP = r.Pool / (1 - r.ResistanceReduction) / common
	through := ((1 - r.ArmorReduction) + (1 - r.ResistanceReduction)) / 2
	r.MixedEHP = r.Pool / through / common
	return r
}

// MarginalValue is the mixed-EHP gain of one more point of id.
func MarginalValue(s model.StatBlock, id model.StatID, p Profile) float64 {
	return Calculate(s.Add(id, 1), p).MixedEHP - Calculate(s, p).MixedEHP
}

// ArmorReduction is armor/(armor + 10×hit), capped at 0.9. Bigger hits are
// reduced less.
func ArmorReduction(armor, hit float64) float64 {
	if armor <= 0 {
		return 0
	}
	den := armor + armorHitScale*math.Max(0, hit)
	return clamp(armor/den, 0, MaxArmorReduction)
}

// ResistanceReduction is resistance/100, capped at 0.75.
func ResistanceReduction(resistance float64) float64 {
	return clamp(resistance/100, 0, MaxResistanceReduction)
}

// EvasionChance is evasion/(evasion + accuracy), capped at 0.95.
func EvasionChance(evasion, accuracy float64) float64 {
	if evasion <= 0 {
		return 0
	}
	return clamp(evasion/(evasion+math.Max(0, accuracy)), 0, MaxEvasionChance)
}

func wardReduction(ward, hit float64) float64 {
	if ward <= 0 {
		return 0
	}
	if hit <= 0 {
		return MaxWardReduction
	}
	return clamp(ward/hit, 0, MaxWardReduction)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
