package combat

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/udisondev/combatlab/internal/game/effect"
	"github.com/udisondev/combatlab/internal/game/formula"
	"github.com/udisondev/combatlab/internal/model"
)

// MaxBlockChance caps the block stat (percent).
const MaxBlockChance = 75.0

// Rand is the randomness source of the resolver. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Resolver advances battles one turn at a time. It holds no battle state; one
// Resolver per goroutine (the Rand is not shared-safe).
type Resolver struct {
	Rand       Rand
	Precedence formula.Precedence
}

// NewResolver creates a Resolver. A nil r uses the global math/rand/v2 source.
func NewResolver(r Rand, p formula.Precedence) *Resolver {
	if r == nil {
		r = globalRand{}
	}
	return &Resolver{Rand: r, Precedence: p}
}

// ResolveRound advances s by exactly one turn:
//
//  1. DoT phase: periodic effects of living entities tick.
//  2. Action phase: every living entity, initiative side first and then by
//     Order, attacks the first living opponent.
//  3. Regen: each living entity heals its regen once.
//  4. Buff decay: buff durations tick down, expired buffs are removed.
//  5. Termination: a side with no living entity loses; both empty is a draw.
//
// Never panics on degenerate stats. A finished state is returned unchanged.
func (r *Resolver) ResolveRound(s *State) *State {
	if s.Finished {
		return s
	}
	s.Turn++

	r.dotPhase(s)
	r.actionPhase(s)
	r.regenPhase(s)
	r.decayPhase(s)
	r.checkTermination(s)
	return s
}

func (r *Resolver) dotPhase(s *State) {
	for _, e := range s.Entities() {
		if !e.Alive() {
			continue
		}
		s.EffectsOf(e.ID).TickDots(func(d effect.PeriodicEffect) {
			switch d.Kind {
			case effect.PeriodicDamage:
				wasAlive := e.Alive()
				lost := e.TakeDamage(d.TickAmount())
				s.record(Event{Type: EventDot, Actor: d.Source, Target: e.ID, Amount: lost,
					Message: fmt.Sprintf("%s takes %.1f damage from %s", e.Name, lost, d.Name)})
				r.noteDeath(s, e, wasAlive)
			}
		})
	}
}

func (r *Resolver) actionPhase(s *State) {
	for _, attacker := range s.Entities() {
		if !attacker.Alive() {
			continue
		}
		target := s.FirstLiving(attacker.Team.Opponent())
		if target == nil {
			continue
		}
		r.attack(s, attacker, target)
	}
}

func (r *Resolver) attack(s *State, attacker, target *Entity) {
	aFx, tFx := s.EffectsOf(attacker.ID), s.EffectsOf(target.ID)
	as, ts := aFx.Apply(attacker.Stats), tFx.Apply(target.Stats)

	// Crit and fail are rolled independently; precedence picks one. The
	// applied outcome shifts the hit roll by its TxC bonus/malus.
	crit := r.roll(as.CritChance)
	fail := r.roll(as.FailChance)
	outcome := formula.ResolveOutcome(crit, fail, r.Precedence)

	// hitChance modifiers act on the chance against this target, not on the
	// attacker's stored mirror-match value.
	base := aFx.StatValue(model.StatHitChance, formula.HitChance(as.TxC, ts.Evasion))
	chance := formula.OutcomeHitChance(base, outcome, &as)
	if !r.roll(chance) {
		s.record(Event{Type: EventMiss, Actor: attacker.ID, Target: target.ID,
			Message: fmt.Sprintf("%s misses %s", attacker.Name, target.Name)})
		return
	}

	switch outcome {
	case formula.OutcomeCrit:
		s.record(Event{Type: EventCrit, Actor: attacker.ID, Target: target.ID, Amount: as.CritMult,
			Message: fmt.Sprintf("%s lands a critical hit on %s (x%.2f)", attacker.Name, target.Name, as.CritMult)})
	case formula.OutcomeFail:
		s.record(Event{Type: EventFail, Actor: attacker.ID, Target: target.ID, Amount: as.FailMult,
			Message: fmt.Sprintf("%s fumbles against %s (x%.2f)", attacker.Name, target.Name, as.FailMult)})
	}

	if ts.Block > 0 && r.roll(math.Min(ts.Block, MaxBlockChance)) {
		s.record(Event{Type: EventBlock, Actor: target.ID, Target: attacker.ID,
			Message: fmt.Sprintf("%s blocks %s's attack", target.Name, attacker.Name)})
		return
	}

	armor, res := formula.Defense(&as, &ts)
	dmg := formula.OutcomeDamage(as.Damage, formula.Multiplier(outcome, &as), armor, res,
		as.ConfigFlatFirst, as.ConfigApplyBeforeCrit)
	dmg = math.Max(0, dmg-math.Max(0, ts.Ward))

	s.record(Event{Type: EventAttack, Actor: attacker.ID, Target: target.ID, Amount: dmg,
		Message: fmt.Sprintf("%s hits %s for %.1f", attacker.Name, target.Name, dmg)})

	dealt := r.applyDamage(s, target, tFx, dmg)

	if as.Lifesteal > 0 && dealt > 0 {
		if healed := attacker.Heal(dealt * as.Lifesteal / 100); healed > 0 {
			s.record(Event{Type: EventHeal, Actor: attacker.ID, Target: attacker.ID, Amount: healed,
				Message: fmt.Sprintf("%s heals %.1f from lifesteal", attacker.Name, healed)})
		}
	}

	if ts.Thorns > 0 {
		s.record(Event{Type: EventThorns, Actor: target.ID, Target: attacker.ID, Amount: ts.Thorns,
			Message: fmt.Sprintf("%s's thorns strike %s for %.1f", target.Name, attacker.Name, ts.Thorns)})
		r.applyDamage(s, attacker, aFx, ts.Thorns)
	}
}

// applyDamage routes damage through shield buffs, then the energy shield,
// then HP. Returns the total damage taken across all layers.
func (r *Resolver) applyDamage(s *State, target *Entity, fx *effect.Set, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	wasAlive := target.Alive()

	absorbed, rest := fx.AbsorbDamage(amount)
	if absorbed > 0 {
		s.record(Event{Type: EventShield, Target: target.ID, Amount: absorbed,
			Message: fmt.Sprintf("%s's shield absorbs %.1f damage", target.Name, absorbed)})
	}

	esAbsorbed, rest := target.AbsorbWithEnergyShield(rest)
	if esAbsorbed > 0 {
		s.record(Event{Type: EventShield, Target: target.ID, Amount: esAbsorbed,
			Message: fmt.Sprintf("%s's energy shield absorbs %.1f damage", target.Name, esAbsorbed)})
	}

	lost := target.TakeDamage(rest)
	if lost > 0 {
		s.record(Event{Type: EventDamage, Target: target.ID, Amount: lost,
			Message: fmt.Sprintf("%s takes %.1f damage (%.1f HP left)", target.Name, lost, target.CurrentHP)})
	}
	r.noteDeath(s, target, wasAlive)
	return absorbed + esAbsorbed + lost
}

func (r *Resolver) regenPhase(s *State) {
	for _, e := range s.Entities() {
		if !e.Alive() {
			continue
		}
		regen := s.EffectsOf(e.ID).StatValue(model.StatRegen, e.Stats.Regen)
		if healed := e.Heal(regen); healed > 0 {
			s.record(Event{Type: EventHeal, Actor: e.ID, Target: e.ID, Amount: healed,
				Message: fmt.Sprintf("%s regenerates %.1f", e.Name, healed)})
		}
	}
}

func (r *Resolver) decayPhase(s *State) {
	for _, e := range s.Entities() {
		for _, b := range s.EffectsOf(e.ID).TickBuffs() {
			msg := fmt.Sprintf("%s's %s fades", e.Name, b.Name)
			if b.Kind == effect.BuffStatModifier {
				msg = fmt.Sprintf("%s's %s (%s) fades", e.Name, b.Name, b.Stat)
			}
			s.record(Event{Type: EventBuff, Actor: e.ID, Message: msg})
		}
	}
}

func (r *Resolver) checkTermination(s *State) {
	aliveA, aliveB := s.Alive(TeamA), s.Alive(TeamB)
	switch {
	case !aliveA && !aliveB:
		s.Winner = OutcomeDraw
		s.record(Event{Type: EventResult, Message: "both sides fall: draw"})
	case !aliveB:
		s.Winner = OutcomeTeamA
		s.record(Event{Type: EventResult, Message: "teamA wins"})
	case !aliveA:
		s.Winner = OutcomeTeamB
		s.record(Event{Type: EventResult, Message: "teamB wins"})
	default:
		return
	}
	s.Finished = true
}

func (r *Resolver) noteDeath(s *State, e *Entity, wasAlive bool) {
	if wasAlive && !e.Alive() {
		s.record(Event{Type: EventDeath, Target: e.ID,
			Message: fmt.Sprintf("%s is defeated", e.Name)})
	}
}

// roll succeeds with chance percent, clamped to [0, 100].
func (r *Resolver) roll(chance float64) bool {
	p := formula.Probability(chance)
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Rand.Float64() < p
}
