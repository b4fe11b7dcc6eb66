package model

// StatBlock is the canonical attribute record of one combat participant.
//
// Percent-valued fields (HitChance, CritChance, FailChance, Lifesteal, Block,
// PenPercent) are stored in percent points. Derived fields are only valid after
// the block went through solver.Recalculate.
type StatBlock struct {
	// Core
	HP     float64 `yaml:"hp" json:"hp"`
	Damage float64 `yaml:"damage" json:"damage"`

	// Hit
	TxC             float64 `yaml:"txc" json:"txc"`
	Evasion         float64 `yaml:"evasion" json:"evasion"`
	HTK             float64 `yaml:"htk" json:"htk"`
	HitChance       float64 `yaml:"hitChance" json:"hitChance"`
	AttacksPerKO    float64 `yaml:"attacksPerKo" json:"attacksPerKo"`
	EffectiveDamage float64 `yaml:"effectiveDamage" json:"effectiveDamage"`

	// Critical / fail
	CritChance   float64 `yaml:"critChance" json:"critChance"`
	CritMult     float64 `yaml:"critMult" json:"critMult"`
	CritTxCBonus float64 `yaml:"critTxCBonus" json:"critTxCBonus"`
	FailChance   float64 `yaml:"failChance" json:"failChance"`
	FailMult     float64 `yaml:"failMult" json:"failMult"`
	FailTxCMalus float64 `yaml:"failTxCMalus" json:"failTxCMalus"`

	// Mitigation / sustain
	Armor        float64 `yaml:"armor" json:"armor"`
	Resistance   float64 `yaml:"resistance" json:"resistance"`
	ArmorPen     float64 `yaml:"armorPen" json:"armorPen"`
	PenPercent   float64 `yaml:"penPercent" json:"penPercent"`
	Lifesteal    float64 `yaml:"lifesteal" json:"lifesteal"`
	Regen        float64 `yaml:"regen" json:"regen"`
	Ward         float64 `yaml:"ward" json:"ward"`
	Block        float64 `yaml:"block" json:"block"`
	EnergyShield float64 `yaml:"energyShield" json:"energyShield"`
	Thorns       float64 `yaml:"thorns" json:"thorns"`

	// Combat metrics
	EDPT        float64 `yaml:"edpt" json:"edpt"`
	TTK         float64 `yaml:"ttk" json:"ttk"`
	EarlyImpact float64 `yaml:"earlyImpact" json:"earlyImpact"`

	// Ordering flags
	ConfigFlatFirst       bool `yaml:"configFlatFirst" json:"configFlatFirst"`
	ConfigApplyBeforeCrit bool `yaml:"configApplyBeforeCrit" json:"configApplyBeforeCrit"`
}

// DefaultStatBlock returns a neutral profile: 100 HP, 10 damage, no mitigation,
// x2 crits and fails that deal nothing. Derived fields are not computed.
func DefaultStatBlock() StatBlock {
	return StatBlock{
		HP:              100,
		Damage:          10,
		CritMult:        2,
		FailMult:        0,
		ConfigFlatFirst: true,
	}
}

// Get returns the numeric value of a field. Flags read as 0 or 1, unknown ids as 0.
func (s *StatBlock) Get(id StatID) float64 {
	switch id {
	case StatHP:
		return s.HP
	case StatDamage:
		return s.Damage
	case StatTxC:
		return s.TxC
	case StatEvasion:
		return s.Evasion
	case StatHTK:
		return s.HTK
	case StatHitChance:
		return s.HitChance
	case StatAttacksPerKO:
		return s.AttacksPerKO
	case StatEffectiveDamage:
		return s.EffectiveDamage
	case StatCritChance:
		return s.CritChance
	case StatCritMult:
		return s.CritMult
	case StatCritTxCBonus:
		return s.CritTxCBonus
	case StatFailChance:
		return s.FailChance
	case StatFailMult:
		return s.FailMult
	case StatFailTxCMalus:
		return s.FailTxCMalus
	case StatArmor:
		return s.Armor
	case StatResistance:
		return s.Resistance
	case StatArmorPen:
		return s.ArmorPen
	case StatPenPercent:
		return s.PenPercent
	case StatLifesteal:
		return s.Lifesteal
	case StatRegen:
		return s.Regen
	case StatWard:
		return s.Ward
	case StatBlockChance:
		return s.Block
	case StatEnergyShield:
		return s.EnergyShield
	case StatThorns:
		return s.Thorns
	case StatEDPT:
		return s.EDPT
	case StatTTK:
		return s.TTK
	case StatEarlyImpact:
		return s.EarlyImpact
	case StatConfigFlatFirst:
		return boolToFloat(s.ConfigFlatFirst)
	case StatConfigApplyBeforeCrit:
		return boolToFloat(s.ConfigApplyBeforeCrit)
	}
	return 0
}

// Set assigns a field. Flags are coerced: any non-zero value is true.
// Unknown ids are ignored.
func (s *StatBlock) Set(id StatID, v float64) {
	switch id {
	case StatHP:
		s.HP = v
	case StatDamage:
		s.Damage = v
	case StatTxC:
		s.TxC = v
	case StatEvasion:
		s.Evasion = v
	case StatHTK:
		s.HTK = v
	case StatHitChance:
		s.HitChance = v
	case StatAttacksPerKO:
		s.AttacksPerKO = v
	case StatEffectiveDamage:
		s.EffectiveDamage = v
	case StatCritChance:
		s.CritChance = v
	case StatCritMult:
		s.CritMult = v
	case StatCritTxCBonus:
		s.CritTxCBonus = v
	case StatFailChance:
		s.FailChance = v
	case StatFailMult:
		s.FailMult = v
	case StatFailTxCMalus:
		s.FailTxCMalus = v
	case StatArmor:
		s.Armor = v
	case StatResistance:
		s.Resistance = v
	case StatArmorPen:
		s.ArmorPen = v
	case StatPenPercent:
		s.PenPercent = v
	case StatLifesteal:
		s.Lifesteal = v
	case StatRegen:
		s.Regen = v
	case StatWard:
		s.Ward = v
	case StatBlockChance:
		s.Block = v
	case StatEnergyShield:
		s.EnergyShield = v
	case StatThorns:
		s.Thorns = v
	case StatEDPT:
		s.EDPT = v
	case StatTTK:
		s.TTK = v
	case StatEarlyImpact:
		s.EarlyImpact = v
	case StatConfigFlatFirst:
		s.ConfigFlatFirst = v != 0
	case StatConfigApplyBeforeCrit:
		s.ConfigApplyBeforeCrit = v != 0
	}
}

// With returns a copy of s with id set to v.
func (s StatBlock) With(id StatID, v float64) StatBlock {
	s.Set(id, v)
	return s
}

// Add returns a copy of s with delta added to id.
func (s StatBlock) Add(id StatID, delta float64) StatBlock {
	s.Set(id, s.Get(id)+delta)
	return s
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
