package simulation

import "github.com/udisondev/combatlab/internal/game/combat"

type outcome struct {
	winner combat.Outcome
	capped bool
}

// tally is a worker-private accumulator; merged once all workers finish.
type tally struct {
	winsA, winsB, draws int
	battles, turns      int
	capped              int
}

func (t *tally) record(o outcome, turns int) {
	t.battles++
	t.turns += turns
	if o.capped {
		t.capped++
	}
	switch o.winner {
	case combat.OutcomeTeamA:
		t.winsA++
	case combat.OutcomeTeamB:
		t.winsB++
	default:
		t.draws++
	}
}

func (t *tally) add(o tally) {
	t.winsA += o.winsA
	t.winsB += o.winsB
	t.draws += o.draws
	t.battles += o.battles
	t.turns += o.turns
	t.capped += o.capped
}

func (t tally) result() Result {
	r := Result{
		WinsA:         t.winsA,
		WinsB:         t.winsB,
		Draws:         t.draws,
		TotalBattles:  t.battles,
		CappedBattles: t.capped,
	}
	if t.battles > 0 {
		r.AverageTurns = float64(t.turns) / float64(t.battles)
	}
	return r
}
