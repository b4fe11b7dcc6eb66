package metrics

import (
	"math"
	"sort"

	"github.com/udisondev/combatlab/internal/game/formula"
	"github.com/udisondev/combatlab/internal/model"
)

// Impact is the sensitivity of the combat metrics to one base stat.
type Impact struct {
	Stat              model.StatID
	Step              float64
	DeltaEDPT         float64
	DeltaTTK          float64
	DeltaAttacksPerKO float64
}

// SWIStep returns the perturbation used for a stat in the SWI report.
func SWIStep(id model.StatID) float64 {
	switch id {
	case model.StatCritMult, model.StatFailMult:
		return 0.1
	}
	return 1
}

// SWI builds the stat-weight-impact report: every base stat is raised by its
// step and the resulting metric deltas are reported, largest |ΔTTK| first.
func SWI(s model.StatBlock, p formula.Precedence) []Impact {
	base := Compute(s, p)

	out := make([]Impact, 0, len(model.BaseStats()))
	for _, id := range model.BaseStats() {
		step := SWIStep(id)
		m := Compute(s.Add(id, step), p)
		out = append(out, Impact{
			Stat:              id,
			Step:              step,
			DeltaEDPT:         m.EDPT - base.EDPT,
			DeltaTTK:          m.TTK - base.TTK,
			DeltaAttacksPerKO: m.AttacksPerKO - base.AttacksPerKO,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].DeltaTTK), math.Abs(out[j].DeltaTTK)
		if ai != aj {
			return ai > aj
		}
		return out[i].Stat < out[j].Stat
	})
	return out
}
