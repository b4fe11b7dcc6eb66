package weight

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/udisondev/combatlab/internal/model"
)

// Suggestion is one ranked stat with a human-readable rationale.
type Suggestion struct {
	Stat      model.StatID `json:"stat"`
	Weight    float64      `json:"weight"`
	Synergy   float64      `json:"synergy"`
	Rationale string       `json:"rationale"`
}

// Suggest ranks weights by dynamic value, highest first, and keeps the top n
// (all of them when n <= 0).
func Suggest(weights []Weight, n int) []Suggestion {
	ranked := slices.Clone(weights)
	slices.SortStableFunc(ranked, func(a, b Weight) int {
		if c := cmp.Compare(b.Dynamic, a.Dynamic); c != 0 {
			return c
		}
		return cmp.Compare(a.Stat, b.Stat)
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}

	out := make([]Suggestion, len(ranked))
	for i, w := range ranked {
		out[i] = Suggestion{
			Stat:      w.Stat,
			Weight:    w.Dynamic,
			Synergy:   w.Synergy,
			Rationale: rationale(w),
		}
	}
	return out
}

func rationale(w Weight) string {
	switch s := w.Synergy; {
	case s >= 25:
		return fmt.Sprintf("strong synergy: %s is worth %.0f%% more than its table weight", w.Stat, s)
	case s >= 5:
		return fmt.Sprintf("above table: %s outperforms its weight by %.0f%%", w.Stat, s)
	case s > -5:
		return fmt.Sprintf("in line: %s is valued as the table expects", w.Stat)
	case s > -25:
		return fmt.Sprintf("below table: %s underperforms by %.0f%%", w.Stat, -s)
	default:
		return fmt.Sprintf("poor fit: %s is worth %.0f%% less than its table weight", w.Stat, -s)
	}
}
