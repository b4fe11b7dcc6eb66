package combat

import (
	"fmt"
	"sort"

	"github.com/udisondev/combatlab/internal/game/effect"
)

// State is one battle: two rosters, the turn counter, the result and the
// append-only combat log.
type State struct {
	TeamA []*Entity
	TeamB []*Entity

	Turn     int
	Finished bool
	Winner   Outcome

	// Initiative is the side whose entities act first every turn.
	Initiative Team

	// Effects maps entity ID to its active buffs and DoTs.
	Effects map[string]*effect.Set

	Log []Event

	// NoLog suppresses event recording (Monte Carlo iterations).
	NoLog bool

	order []*Entity
}

// NewState builds a battle. Entities keep their team from the roster they
// are passed in; IDs must be unique across both rosters.
func NewState(teamA, teamB []*Entity) *State {
	s := &State{
		TeamA:   teamA,
		TeamB:   teamB,
		Effects: make(map[string]*effect.Set, len(teamA)+len(teamB)),
	}
	for _, e := range teamA {
		e.Team = TeamA
		s.Effects[e.ID] = effect.NewSet()
	}
	for _, e := range teamB {
		e.Team = TeamB
		s.Effects[e.ID] = effect.NewSet()
	}
	s.rebuildOrder()
	return s
}

// Reset restores every entity and clears effects, turn, result and log so the
// state can host a fresh battle with the same rosters.
func (s *State) Reset(initiative Team) {
	for _, e := range s.TeamA {
		e.Reset()
	}
	for _, e := range s.TeamB {
		e.Reset()
	}
	for _, fx := range s.Effects {
		fx.Reset()
	}
	s.Turn = 0
	s.Finished = false
	s.Winner = OutcomeNone
	s.Log = s.Log[:0]
	if s.Initiative != initiative {
		s.Initiative = initiative
		s.rebuildOrder()
	}
}

// SetInitiative changes which side acts first.
func (s *State) SetInitiative(t Team) {
	s.Initiative = t
	s.rebuildOrder()
}

// EffectsOf returns the effect set of an entity, creating it on first use.
func (s *State) EffectsOf(id string) *effect.Set {
	fx, ok := s.Effects[id]
	if !ok {
		fx = effect.NewSet()
		s.Effects[id] = fx
	}
	return fx
}

// ApplyBuff adds a buff to an entity and logs it.
func (s *State) ApplyBuff(e *Entity, b effect.Buff) {
	if !s.EffectsOf(e.ID).AddBuff(b) {
		return
	}
	switch b.Kind {
	case effect.BuffShield:
		s.record(Event{Type: EventBuff, Actor: e.ID, Amount: b.Capacity,
			Message: fmt.Sprintf("%s gains %s shield (%.1f)", e.Name, b.Name, b.Capacity)})
	case effect.BuffStatModifier:
		s.record(Event{Type: EventBuff, Actor: e.ID, Amount: b.Value,
			Message: fmt.Sprintf("%s gains %s: %s %s %.2f", e.Name, b.Name, b.Stat, b.Mode, b.Value)})
	}
}

// ApplyDot adds a periodic effect to an entity and logs it.
func (s *State) ApplyDot(e *Entity, d effect.PeriodicEffect) {
	if !s.EffectsOf(e.ID).AddDot(d) {
		return
	}
	s.record(Event{Type: EventDot, Actor: d.Source, Target: e.ID, Amount: d.TickAmount(),
		Message: fmt.Sprintf("%s is afflicted by %s (%.1f/turn, %d turns)", e.Name, d.Name, d.TickAmount(), d.Duration)})
}

// Entities returns every entity in action order: the initiative side first,
// then each side by Order, ties by roster position.
func (s *State) Entities() []*Entity {
	return s.order
}

// Roster returns the entities of a side.
func (s *State) Roster(t Team) []*Entity {
	if t == TeamB {
		return s.TeamB
	}
	return s.TeamA
}

// Alive reports whether any entity of the side still stands.
func (s *State) Alive(t Team) bool {
	for _, e := range s.Roster(t) {
		if e.Alive() {
			return true
		}
	}
	return false
}

// HPFraction is the side's pooled current HP over its pooled max HP, 0 when
// the side has no HP at all.
func (s *State) HPFraction(t Team) float64 {
	var cur, full float64
	for _, e := range s.Roster(t) {
		cur += e.CurrentHP
		full += e.Stats.HP
	}
	if full <= 0 {
		return 0
	}
	return cur / full
}

// FirstLiving returns the lowest-Order living entity of a side, or nil.
func (s *State) FirstLiving(t Team) *Entity {
	var best *Entity
	for _, e := range s.Roster(t) {
		if !e.Alive() {
			continue
		}
		if best == nil || e.Order < best.Order {
			best = e
		}
	}
	return best
}

func (s *State) rebuildOrder() {
	first, second := s.Roster(s.Initiative), s.Roster(s.Initiative.Opponent())
	order := make([]*Entity, 0, len(first)+len(second))
	order = append(order, sortedByOrder(first)...)
	order = append(order, sortedByOrder(second)...)
	s.order = order
}

func sortedByOrder(roster []*Entity) []*Entity {
	out := append([]*Entity(nil), roster...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (s *State) record(e Event) {
	if s.NoLog {
		return
	}
	e.Turn = s.Turn
	s.Log = append(s.Log, e)
}
