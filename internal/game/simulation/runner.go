// Package simulation runs the combat state machine many times for a fixed
// pair of stat profiles and aggregates the outcomes.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/combatlab/internal/game/combat"
	"github.com/udisondev/combatlab/internal/game/formula"
	"github.com/udisondev/combatlab/internal/model"
)

// ErrNoIterations is returned for a non-positive iteration count.
var ErrNoIterations = errors.New("iterations must be positive")

// DefaultMaxTurns is the per-battle safety cap.
const DefaultMaxTurns = 100

// ctxCheckEvery is how many iterations a worker runs between context checks.
const ctxCheckEvery = 64

// CapPolicy decides the result of a battle that hits the turn cap.
type CapPolicy uint8

const (
	// CapDraw scores a capped battle as a draw.
	CapDraw CapPolicy = iota
	// CapHP awards a capped battle to the side with the higher remaining HP
	// fraction; equal fractions are a draw.
	CapHP
)

// ParseCapPolicy accepts "draw" (default when empty) and "hp".
func ParseCapPolicy(s string) (CapPolicy, error) {
	switch s {
	case "", "draw":
		return CapDraw, nil
	case "hp":
		return CapHP, nil
	}
	return CapDraw, fmt.Errorf("unknown cap policy %q", s)
}

func (p CapPolicy) String() string {
	if p == CapHP {
		return "hp"
	}
	return "draw"
}

// Config tunes the Runner.
type Config struct {
	MaxTurns   int
	CapPolicy  CapPolicy
	Workers    int
	Seed       uint64
	Precedence formula.Precedence
}

// DefaultConfig returns a 100-turn, draw-on-cap config using every CPU.
func DefaultConfig() Config {
	return Config{
		MaxTurns:  DefaultMaxTurns,
		CapPolicy: CapDraw,
		Workers:   runtime.NumCPU(),
		Seed:      1,
	}
}

// Result aggregates a simulation run. Immutable once returned.
type Result struct {
	WinsA         int     `json:"winsA"`
	WinsB         int     `json:"winsB"`
	Draws         int     `json:"draws"`
	TotalBattles  int     `json:"totalBattles"`
	AverageTurns  float64 `json:"averageTurns"`
	CappedBattles int     `json:"cappedBattles"`
}

// WinRateA is WinsA / TotalBattles.
func (r Result) WinRateA() float64 { return ratio(r.WinsA, r.TotalBattles) }

// WinRateB is WinsB / TotalBattles.
func (r Result) WinRateB() float64 { return ratio(r.WinsB, r.TotalBattles) }

// DrawRate is Draws / TotalBattles.
func (r Result) DrawRate() float64 { return ratio(r.Draws, r.TotalBattles) }

// Score is the expected result for side A with draws counted as half a win.
func (r Result) Score() float64 {
	if r.TotalBattles == 0 {
		return 0
	}
	return (float64(r.WinsA) + 0.5*float64(r.Draws)) / float64(r.TotalBattles)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Runner executes Monte Carlo battles. Safe for concurrent use: every call
// owns its entities, states and random sources.
type Runner struct {
	cfg Config
}

// NewRunner creates a Runner, filling zero values from DefaultConfig.
func NewRunner(cfg Config) *Runner {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Runner{cfg: cfg}
}

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// Run simulates a against b iterations times.
func (r *Runner) Run(ctx context.Context, a, b model.StatBlock, iterations int) (Result, error) {
	return r.RunTeams(ctx, []model.StatBlock{a}, []model.StatBlock{b}, iterations)
}

// RunTeams simulates two rosters iterations times.
//
// Iterations run in mirrored pairs: 2k and 2k+1 share the random stream
// (Seed, k), side A acts first in 2k and side B in 2k+1. Identical rosters
// therefore score exactly even over an even iteration count, and results do
// not depend on the worker count. Returns only after every iteration
// finished; a cancelled ctx yields ctx.Err() and no result.
func (r *Runner) RunTeams(ctx context.Context, teamA, teamB []model.StatBlock, iterations int) (Result, error) {
	if iterations <= 0 {
		return Result{}, ErrNoIterations
	}

	start := time.Now()
	workers := min(r.cfg.Workers, iterations)
	partials := make([]tally, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo, hi := span(iterations, workers, w)
		g.Go(func() error {
			return r.work(gctx, teamA, teamB, lo, hi, &partials[w])
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var total tally
	for _, p := range partials {
		total.add(p)
	}
	res := total.result()

	slog.Debug("simulation finished",
		"iterations", iterations,
		"workers", workers,
		"winsA", res.WinsA,
		"winsB", res.WinsB,
		"draws", res.Draws,
		"avgTurns", res.AverageTurns,
		"elapsed", time.Since(start))
	return res, nil
}

// Replay re-runs iteration i with the combat log enabled and returns the final state.
func (r *Runner) Replay(teamA, teamB []model.StatBlock, i int) *combat.State {
	src := rand.NewPCG(r.cfg.Seed, stream(i))
	resolver := combat.NewResolver(rand.New(src), r.cfg.Precedence)
	s := combat.NewState(buildRoster("a", teamA), buildRoster("b", teamB))
	s.SetInitiative(initiative(i))
	r.fight(resolver, s)
	return s
}

func (r *Runner) work(ctx context.Context, teamA, teamB []model.StatBlock, lo, hi int, out *tally) error {
	src := rand.NewPCG(0, 0)
	resolver := combat.NewResolver(rand.New(src), r.cfg.Precedence)
	s := combat.NewState(buildRoster("a", teamA), buildRoster("b", teamB))
	s.NoLog = true

	for i := lo; i < hi; i++ {
		if (i-lo)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		src.Seed(r.cfg.Seed, stream(i))
		s.Reset(initiative(i))

		out.record(r.fight(resolver, s), s.Turn)
	}
	return nil
}

// fight drives s to completion or the turn cap and returns the scored outcome.
func (r *Runner) fight(resolver *combat.Resolver, s *combat.State) outcome {
	for !s.Finished && s.Turn < r.cfg.MaxTurns {
		resolver.ResolveRound(s)
	}
	if s.Finished {
		return outcome{winner: s.Winner}
	}
	return outcome{winner: r.capWinner(s), capped: true}
}

func (r *Runner) capWinner(s *combat.State) combat.Outcome {
	if r.cfg.CapPolicy != CapHP {
		return combat.OutcomeDraw
	}
	a, b := s.HPFraction(combat.TeamA), s.HPFraction(combat.TeamB)
	switch {
	case a > b:
		return combat.OutcomeTeamA
	case b > a:
		return combat.OutcomeTeamB
	}
	return combat.OutcomeDraw
}

func stream(i int) uint64 { return uint64(i / 2) }

func initiative(i int) combat.Team {
	if i%2 == 0 {
		return combat.TeamA
	}
	return combat.TeamB
}

func buildRoster(prefix string, stats []model.StatBlock) []*combat.Entity {
	team := combat.TeamA
	if prefix == "b" {
		team = combat.TeamB
	}
	roster := make([]*combat.Entity, len(stats))
	for i, s := range stats {
		id := prefix + strconv.Itoa(i+1)
		roster[i] = combat.NewEntity(id, id, team, i, s)
	}
	return roster
}

// span returns the [lo, hi) iteration range of worker w.
func span(iterations, workers, w int) (int, int) {
	per, extra := iterations/workers, iterations%workers
	lo := w*per + min(w, extra)
	hi := lo + per
	if w < extra {
		hi++
	}
	return lo, hi
}
