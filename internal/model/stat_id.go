package model

import (
	"errors"
	"fmt"
)

// ErrUnknownStat is returned when a stat identifier does not name a StatBlock field.
var ErrUnknownStat = errors.New("unknown stat")

// StatID names a single StatBlock field. Values match the yaml/json keys.
type StatID string

// Any is the wildcard lock used by the solver rule table ("nothing locked").
const Any StatID = ""

// Core.
const (
	StatHP     StatID = "hp"
	StatDamage StatID = "damage"
)

// Hit and hit-derived.
const (
	StatTxC             StatID = "txc"
	StatEvasion         StatID = "evasion"
	StatHTK             StatID = "htk"
	StatHitChance       StatID = "hitChance"
	StatAttacksPerKO    StatID = "attacksPerKo"
	StatEffectiveDamage StatID = "effectiveDamage"
)

// Critical / fail.
const (
	StatCritChance   StatID = "critChance"
	StatCritMult     StatID = "critMult"
	StatCritTxCBonus StatID = "critTxCBonus"
	StatFailChance   StatID = "failChance"
	StatFailMult     StatID = "failMult"
	StatFailTxCMalus StatID = "failTxCMalus"
)

// Mitigation / sustain.
const (
	StatArmor        StatID = "armor"
	StatResistance   StatID = "resistance"
	StatArmorPen     StatID = "armorPen"
	StatPenPercent   StatID = "penPercent"
	StatLifesteal    StatID = "lifesteal"
	StatRegen        StatID = "regen"
	StatWard         StatID = "ward"
	StatBlockChance  StatID = "block"
	StatEnergyShield StatID = "energyShield"
	StatThorns       StatID = "thorns"
)

// Combat-metric derived.
const (
	StatEDPT        StatID = "edpt"
	StatTTK         StatID = "ttk"
	StatEarlyImpact StatID = "earlyImpact"
)

// Ordering flags.
const (
	StatConfigFlatFirst       StatID = "configFlatFirst"
	StatConfigApplyBeforeCrit StatID = "configApplyBeforeCrit"
)

var baseStats = []StatID{
	StatHP, StatDamage,
	StatTxC, StatEvasion,
	StatCritChance, StatCritMult, StatCritTxCBonus,
	StatFailChance, StatFailMult, StatFailTxCMalus,
	StatArmor, StatResistance, StatArmorPen, StatPenPercent,
	StatLifesteal, StatRegen, StatWard, StatBlockChance, StatEnergyShield, StatThorns,
}

var derivedStats = []StatID{
	StatHTK, StatHitChance, StatAttacksPerKO, StatEffectiveDamage,
	StatEDPT, StatTTK, StatEarlyImpact,
}

var flagStats = []StatID{StatConfigFlatFirst, StatConfigApplyBeforeCrit}

var knownStats = func() map[StatID]struct{} {
	m := make(map[StatID]struct{}, len(baseStats)+len(derivedStats)+len(flagStats))
	for _, group := range [][]StatID{baseStats, derivedStats, flagStats} {
		for _, id := range group {
			m[id] = struct{}{}
		}
	}
	return m
}()

// BaseStats returns the editable numeric fields in canonical order.
func BaseStats() []StatID { return append([]StatID(nil), baseStats...) }

// DerivedStats returns the fields recomputed from base stats.
func DerivedStats() []StatID { return append([]StatID(nil), derivedStats...) }

// AllStats returns base, derived and flag fields.
func AllStats() []StatID {
	out := make([]StatID, 0, len(knownStats))
	out = append(out, baseStats...)
	out = append(out, derivedStats...)
	return append(out, flagStats...)
}

// ParseStatID validates s as a stat identifier.
func ParseStatID(s string) (StatID, error) {
	id := StatID(s)
	if _, ok := knownStats[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStat, s)
	}
	return id, nil
}

// IsDerived reports whether the field is computed from base stats.
func (id StatID) IsDerived() bool {
	switch id {
	case StatHTK, StatHitChance, StatAttacksPerKO, StatEffectiveDamage,
		StatEDPT, StatTTK, StatEarlyImpact:
		return true
	}
	return false
}

// IsFlag reports whether the field is one of the two ordering flags.
func (id StatID) IsFlag() bool {
	return id == StatConfigFlatFirst || id == StatConfigApplyBeforeCrit
}

func (id StatID) String() string {
	if id == Any {
		return "<none>"
	}
	return string(id)
}
