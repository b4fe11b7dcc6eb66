// Package weight measures what one point of a stat is actually worth in HP
// for a given profile, and compares it against the static weight table.
package weight

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"

	"github.com/udisondev/combatlab/internal/data"
	"github.com/udisondev/combatlab/internal/game/ehp"
	"github.com/udisondev/combatlab/internal/game/simulation"
	"github.com/udisondev/combatlab/internal/model"
)

const (
	// DefaultIterations per simulated comparison.
	DefaultIterations = 2000

	// calibrationHP is the HP perturbation used to price a win-rate shift.
	calibrationHP = 10.0

	// minSlope below which the HP calibration is considered flat.
	minSlope = 1e-9
)

// DefaultDeltas are the perturbation sizes of simulated stats. Analyzer.Deltas
// overrides them per stat; stats found in neither are perturbed by 1.
var DefaultDeltas = map[model.StatID]float64{
	model.StatDamage:       2,
	model.StatTxC:          5,
	model.StatCritChance:   5,
	model.StatCritMult:     0.25,
	model.StatCritTxCBonus: 5,
	model.StatFailChance:   5,
	model.StatFailMult:     0.25,
	model.StatFailTxCMalus: 5,
	model.StatArmorPen:     2,
	model.StatPenPercent:   5,
	model.StatLifesteal:    5,
	model.StatRegen:        1,
	model.StatEnergyShield: 5,
	model.StatThorns:       1,
}

// Defensive reports whether id is valued through the closed-form EHP model.
func Defensive(id model.StatID) bool {
	switch id {
	case model.StatHP, model.StatArmor, model.StatResistance,
		model.StatEvasion, model.StatWard, model.StatBlockChance:
		return true
	}
	return false
}

// Weight is the measured value of one stat.
type Weight struct {
	Stat model.StatID `json:"stat"`
	// Static is the table weight.
	Static float64 `json:"static"`
	// Dynamic is the measured HP-equivalent of one point.
	Dynamic float64 `json:"dynamic"`
	// Synergy is (Dynamic − Static)/|Static| in percent, 0 for a zero Static.
	Synergy float64 `json:"synergy"`
	// Simulated is set when Dynamic came from Monte Carlo runs.
	Simulated bool `json:"simulated"`
	// Calibrated is false when the HP slope was flat and Dynamic fell back to Static.
	Calibrated bool `json:"calibrated"`
}

// Analyzer computes dynamic weights.
type Analyzer struct {
	Runner     *simulation.Runner
	Profile    ehp.Profile
	Table      data.Table
	Iterations int
	// Deltas overrides DefaultDeltas for the stats it names.
	Deltas map[model.StatID]float64

	// Opponent is the profile simulations fight against; nil means a mirror
	// match against the unperturbed profile.
	Opponent *model.StatBlock
}

// NewAnalyzer builds an Analyzer with default deltas and iterations.
func NewAnalyzer(r *simulation.Runner, p ehp.Profile, table data.Table) *Analyzer {
	return &Analyzer{
		Runner:     r,
		Profile:    p,
		Table:      table,
		Iterations: DefaultIterations,
		Deltas:     maps.Clone(DefaultDeltas),
	}
}

// Analyze returns the weight of every id for stats, in the order given.
//
// Simulated stats reuse the Runner's seed for the baseline, the perturbed run
// and the HP calibration run, so all three see the same random streams and
// the win-rate differences are not swamped by sampling noise.
func (a *Analyzer) Analyze(ctx context.Context, stats model.StatBlock, ids []model.StatID) ([]Weight, error) {
	out := make([]Weight, 0, len(ids))

	var cal *calibration
	for _, id := range ids {
		w := Weight{Stat: id, Static: a.Table.Weight(id), Calibrated: true}

		if Defensive(id) {
			w.Dynamic = ehp.MarginalValue(stats, id, a.Profile)
		} else {
			if cal == nil {
				c, err := a.calibrate(ctx, stats)
				if err != nil {
					return nil, err
				}
				cal = &c
			}
			dyn, ok, err := a.simulated(ctx, stats, id, *cal)
			if err != nil {
				return nil, err
			}
			w.Simulated = true
			w.Calibrated = ok
			w.Dynamic = dyn
			if !ok {
				w.Dynamic = w.Static
			}
		}

		w.Synergy = Synergy(w.Dynamic, w.Static)
		slog.Debug("stat weight",
			"stat", id,
			"static", w.Static,
			"dynamic", w.Dynamic,
			"synergy", w.Synergy,
			"simulated", w.Simulated)
		out = append(out, w)
	}
	return out, nil
}

// Synergy is the signed percentage of dynamic over static.
func Synergy(dynamic, static float64) float64 {
	if static == 0 {
		return 0
	}
	return (dynamic - static) / math.Abs(static) * 100
}

type calibration struct {
	baseline float64
	// slope is the score gained per HP point.
	slope float64
}

func (a *Analyzer) calibrate(ctx context.Context, stats model.StatBlock) (calibration, error) {
	base, err := a.score(ctx, stats, stats)
	if err != nil {
		return calibration{}, fmt.Errorf("baseline: %w", err)
	}
	up, err := a.score(ctx, stats, stats.Add(model.StatHP, calibrationHP))
	if err != nil {
		return calibration{}, fmt.Errorf("hp calibration: %w", err)
	}
	return calibration{baseline: base, slope: (up - base) / calibrationHP}, nil
}

// simulated converts the score shift of a perturbed profile to HP per point.
func (a *Analyzer) simulated(ctx context.Context, stats model.StatBlock, id model.StatID, cal calibration) (float64, bool, error) {
	if math.Abs(cal.slope) < minSlope {
		return 0, false, nil
	}
	delta := a.delta(id)
	shifted, err := a.score(ctx, stats, stats.Add(id, delta))
	if err != nil {
		return 0, false, fmt.Errorf("simulating %s: %w", id, err)
	}
	hpEquivalent := (shifted - cal.baseline) / cal.slope
	return hpEquivalent / delta, true, nil
}

// score runs challenger against the opponent (or the unperturbed profile).
func (a *Analyzer) score(ctx context.Context, base, challenger model.StatBlock) (float64, error) {
	opp := base
	if a.Opponent != nil {
		opp = *a.Opponent
	}
	iters := a.Iterations
	if iters <= 0 {
		iters = DefaultIterations
	}
	res, err := a.Runner.Run(ctx, challenger, opp, iters)
	if err != nil {
		return 0, err
	}
	return res.Score(), nil
}

// delta looks id up in Deltas, then DefaultDeltas, then falls back to 1.
func (a *Analyzer) delta(id model.StatID) float64 {
	if d := a.Deltas[id]; d != 0 {
		return d
	}
	if d := DefaultDeltas[id]; d != 0 {
		return d
	}
	return 1
}
