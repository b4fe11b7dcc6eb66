package solver

import "github.com/udisondev/combatlab/internal/model"

// ruleKey is one state of the solver's (changed, locked) state machine.
// locked == model.Any matches every lock without a more specific entry.
type ruleKey struct {
	changed model.StatID
	locked  model.StatID
}

type ruleKind uint8

const (
	// ruleReverse: a derived field was edited; solve a base field for it.
	ruleReverse ruleKind = iota
	// ruleCompensate: a base field was edited under a derived lock; move a
	// paired base field so the locked value keeps its meaning.
	ruleCompensate
)

type rule struct {
	kind ruleKind
	// target is the base field that absorbs the change.
	target model.StatID
}

// reverseTargets picks the base field solved when a derived field is edited.
// damage is the default target; the locked-damage rows name the alternate.
var reverseTargets = map[ruleKey]model.StatID{
	{model.StatHTK, model.Any}:                    model.StatDamage,
	{model.StatHTK, model.StatDamage}:             model.StatHP,
	{model.StatHitChance, model.Any}:              model.StatTxC,
	{model.StatHitChance, model.StatTxC}:          model.StatEvasion,
	{model.StatAttacksPerKO, model.Any}:           model.StatDamage,
	{model.StatAttacksPerKO, model.StatDamage}:    model.StatHP,
	{model.StatEffectiveDamage, model.Any}:        model.StatDamage,
	{model.StatEffectiveDamage, model.StatDamage}: model.StatArmor,
	{model.StatEDPT, model.Any}:                   model.StatDamage,
	{model.StatEDPT, model.StatDamage}:            model.StatTxC,
	{model.StatTTK, model.Any}:                    model.StatDamage,
	{model.StatTTK, model.StatDamage}:             model.StatHP,
	{model.StatEarlyImpact, model.Any}:            model.StatDamage,
	{model.StatEarlyImpact, model.StatDamage}:     model.StatHP,
}

// mitigationLocks are the derived fields that read effective armor/resistance.
var mitigationLocks = []model.StatID{
	model.StatAttacksPerKO,
	model.StatEffectiveDamage,
	model.StatEDPT,
	model.StatTTK,
	model.StatEarlyImpact,
}

// rules is the full transition table. Built once; read-only afterwards.
var rules = buildRules()

func buildRules() map[ruleKey]rule {
	r := make(map[ruleKey]rule, len(reverseTargets)+4*len(mitigationLocks))
	for k, target := range reverseTargets {
		r[k] = rule{kind: ruleReverse, target: target}
	}

	// Penetration pairs: raising a defence under lock raises the matching
	// penetration so the net mitigation is unchanged, and vice versa.
	for _, locked := range mitigationLocks {
		r[ruleKey{model.StatArmor, locked}] = rule{kind: ruleCompensate, target: model.StatArmorPen}
		r[ruleKey{model.StatArmorPen, locked}] = rule{kind: ruleCompensate, target: model.StatArmor}
		r[ruleKey{model.StatResistance, locked}] = rule{kind: ruleCompensate, target: model.StatPenPercent}
		r[ruleKey{model.StatPenPercent, locked}] = rule{kind: ruleCompensate, target: model.StatResistance}
	}

	// Accuracy pairs under a hitChance lock.
	r[ruleKey{model.StatTxC, model.StatHitChance}] = rule{kind: ruleCompensate, target: model.StatEvasion}
	r[ruleKey{model.StatEvasion, model.StatHitChance}] = rule{kind: ruleCompensate, target: model.StatTxC}

	// Ratio pairs under an htk lock.
	r[ruleKey{model.StatHP, model.StatHTK}] = rule{kind: ruleCompensate, target: model.StatDamage}
	r[ruleKey{model.StatDamage, model.StatHTK}] = rule{kind: ruleCompensate, target: model.StatHP}

	return r
}

// lookupRule resolves (changed, locked): exact pair first, then the wildcard lock.
func lookupRule(changed, locked model.StatID) (rule, bool) {
	if r, ok := rules[ruleKey{changed, locked}]; ok {
		return r, true
	}
	r, ok := rules[ruleKey{changed, model.Any}]
	return r, ok
}

// reverseTarget returns the base field solved for derived while pinned must not move.
func reverseTarget(derived, pinned model.StatID) (model.StatID, bool) {
	if t, ok := reverseTargets[ruleKey{derived, pinned}]; ok {
		return t, true
	}
	t, ok := reverseTargets[ruleKey{derived, model.Any}]
	return t, ok
}
