package combat

import (
	"math"

	"github.com/udisondev/combatlab/internal/model"
)

// Team identifies a side of the battle.
type Team uint8

const (
	TeamA Team = iota
	TeamB
)

func (t Team) String() string {
	if t == TeamB {
		return "teamB"
	}
	return "teamA"
}

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Outcome is the battle result.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeTeamA
	OutcomeTeamB
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTeamA:
		return "teamA"
	case OutcomeTeamB:
		return "teamB"
	case OutcomeDraw:
		return "draw"
	}
	return "none"
}

// Entity is one combatant: a static StatBlock snapshot plus live battle state.
type Entity struct {
	ID    string
	Name  string
	Team  Team
	Order int

	// Stats is the snapshot taken at construction; it is never mutated in battle.
	Stats model.StatBlock

	CurrentHP    float64
	EnergyShield float64
}

// NewEntity creates an entity at full HP and energy shield.
func NewEntity(id, name string, team Team, order int, stats model.StatBlock) *Entity {
	e := &Entity{ID: id, Name: name, Team: team, Order: order, Stats: stats}
	e.Reset()
	return e
}

// Reset restores HP and resource pools to their maxima.
func (e *Entity) Reset() {
	e.CurrentHP = math.Max(0, e.Stats.HP)
	e.EnergyShield = math.Max(0, e.Stats.EnergyShield)
}

// Alive reports whether the entity still has HP.
func (e *Entity) Alive() bool {
	return e.CurrentHP > 0
}

// TakeDamage lowers HP (floored at 0) and returns the HP actually lost.
func (e *Entity) TakeDamage(amount float64) float64 {
	if amount <= 0 || math.IsNaN(amount) {
		return 0
	}
	lost := math.Min(amount, e.CurrentHP)
	e.CurrentHP -= lost
	return lost
}

// Heal raises HP up to max HP and returns the HP actually gained.
func (e *Entity) Heal(amount float64) float64 {
	if amount <= 0 || math.IsNaN(amount) || !e.Alive() {
		return 0
	}
	gained := math.Min(amount, math.Max(0, e.Stats.HP-e.CurrentHP))
	e.CurrentHP += gained
	return gained
}

// AbsorbWithEnergyShield drains the energy shield pool and returns the overflow.
func (e *Entity) AbsorbWithEnergyShield(amount float64) (absorbed, rest float64) {
	absorbed = math.Min(math.Max(0, amount), e.EnergyShield)
	e.EnergyShield -= absorbed
	return absorbed, amount - absorbed
}
