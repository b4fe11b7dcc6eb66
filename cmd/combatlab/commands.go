package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/combatlab/internal/db"
	"github.com/udisondev/combatlab/internal/game/combat"
	"github.com/udisondev/combatlab/internal/game/ehp"
	"github.com/udisondev/combatlab/internal/game/metrics"
	"github.com/udisondev/combatlab/internal/game/simulation"
	"github.com/udisondev/combatlab/internal/game/weight"
	"github.com/udisondev/combatlab/internal/model"
)

const defaultBudget = 100

// profileFlags registers the flags of one profile: -p, -p-stats and -p-budget
// for prefix p, or -archetype, -stats and -budget without one.
func profileFlags(fs *flag.FlagSet, prefix, usage string) *profileSource {
	p := &profileSource{}
	name := "archetype"
	if prefix != "" {
		name = prefix
		prefix += "-"
	}
	fs.StringVar(&p.archetype, name, "", usage+": archetype name")
	fs.StringVar(&p.file, prefix+"stats", "", usage+": YAML stat block file")
	fs.Float64Var(&p.budget, prefix+"budget", defaultBudget, usage+": archetype point budget")
	return p
}

func (a *app) simulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(a.out)
	pa := profileFlags(fs, "a", "side A")
	pb := profileFlags(fs, "b", "side B")
	iterations := fs.Int("n", a.cfg.Simulation.Iterations, "iterations")
	seed := fs.Uint64("seed", a.simCfg.Seed, "random seed")
	replay := fs.Int("log", -1, "print the combat log of this iteration")
	label := fs.String("label", "", "label for the stored run")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sa, err := pa.load(a.solver, a.table)
	if err != nil {
		return err
	}
	sb, err := pb.load(a.solver, a.table)
	if err != nil {
		return err
	}

	simCfg := a.simCfg
	simCfg.Seed = *seed
	runner := simulation.NewRunner(simCfg)

	res, err := runner.Run(ctx, sa, sb, *iterations)
	if err != nil {
		return fmt.Errorf("simulating: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "battles\t%d\n", res.TotalBattles)
	fmt.Fprintf(w, "wins A\t%d\t%.2f%%\n", res.WinsA, res.WinRateA()*100)
	fmt.Fprintf(w, "wins B\t%d\t%.2f%%\n", res.WinsB, res.WinRateB()*100)
	fmt.Fprintf(w, "draws\t%d\t%.2f%%\n", res.Draws, res.DrawRate()*100)
	fmt.Fprintf(w, "avg turns\t%.2f\n", res.AverageTurns)
	fmt.Fprintf(w, "capped\t%d\n", res.CappedBattles)
	if err := w.Flush(); err != nil {
		return err
	}

	if *replay >= 0 {
		st := runner.Replay([]model.StatBlock{sa}, []model.StatBlock{sb}, *replay)
		fmt.Fprintf(a.out, "\niteration %d: %s after %d turns\n", *replay, st.Winner, st.Turn)
		fmt.Fprint(a.out, combat.FormatLog(st.Log))
	}

	if a.database == nil {
		return nil
	}
	rec := &db.RunRecord{
		Label:      *label,
		TeamA:      []model.StatBlock{sa},
		TeamB:      []model.StatBlock{sb},
		Iterations: *iterations,
		MaxTurns:   runner.Config().MaxTurns,
		CapPolicy:  simCfg.CapPolicy.String(),
		Precedence: simCfg.Precedence.String(),
		Seed:       simCfg.Seed,
		Result:     res,
	}
	if err := a.database.Runs().Save(ctx, rec); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "saved run %d\n", rec.ID)
	return nil
}

func (a *app) solve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	fs.SetOutput(a.out)
	p := profileFlags(fs, "", "profile")
	stat := fs.String("stat", "", "stat to change")
	value := fs.Float64("value", 0, "new value")
	lock := fs.String("lock", "", "stat to keep fixed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	changed, err := model.ParseStatID(*stat)
	if err != nil {
		return err
	}
	locked := model.Any
	if *lock != "" {
		if locked, err = model.ParseStatID(*lock); err != nil {
			return err
		}
	}

	stats, err := p.load(a.solver, a.table)
	if err != nil {
		return err
	}
	solved := a.solver.Solve(stats, changed, *value, locked)

	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(solved); err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	return enc.Close()
}

func (a *app) ehp(args []string) error {
	fs := flag.NewFlagSet("ehp", flag.ContinueOnError)
	fs.SetOutput(a.out)
	p := profileFlags(fs, "", "profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats, err := p.load(a.solver, a.table)
	if err != nil {
		return err
	}
	r := ehp.Calculate(stats, a.profile)

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "pool\t%.2f\n", r.Pool)
	fmt.Fprintf(w, "armor reduction\t%.4f\n", r.ArmorReduction)
	fmt.Fprintf(w, "resistance reduction\t%.4f\n", r.ResistanceReduction)
	fmt.Fprintf(w, "evasion chance\t%.4f\n", r.EvasionChance)
	fmt.Fprintf(w, "ward reduction\t%.4f\n", r.WardReduction)
	fmt.Fprintf(w, "block chance\t%.4f\n", r.BlockChance)
	fmt.Fprintf(w, "physical EHP\t%.2f\n", r.PhysicalEHP)
	fmt.Fprintf(w, "magical EHP\t%.2f\n", r.MagicalEHP)
	fmt.Fprintf(w, "mixed EHP\t%.2f\n", r.MixedEHP)
	return w.Flush()
}

func (a *app) weights(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("weights", flag.ContinueOnError)
	fs.SetOutput(a.out)
	p := profileFlags(fs, "", "profile")
	list := fs.String("list", "", "comma-separated stats (default: every base stat)")
	top := fs.Int("top", 0, "number of suggestions (0 = all)")
	iterations := fs.Int("n", a.cfg.Weights.Iterations, "iterations per simulated comparison")
	label := fs.String("label", "", "label for the stored report (default: archetype name)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ids, err := parseStatList(*list)
	if err != nil {
		return err
	}
	stats, err := p.load(a.solver, a.table)
	if err != nil {
		return err
	}

	an := weight.NewAnalyzer(simulation.NewRunner(a.simCfg), a.profile, a.table)
	an.Iterations = *iterations
	ws, err := an.Analyze(ctx, stats, ids)
	if err != nil {
		return fmt.Errorf("analyzing weights: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "stat\tstatic\tdynamic\tsynergy\trationale")
	for _, s := range weight.Suggest(ws, *top) {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%+.1f%%\t%s\n", s.Stat, a.table.Weight(s.Stat), s.Weight, s.Synergy, s.Rationale)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if a.database == nil {
		return nil
	}
	rep := &db.WeightReport{Label: *label, Stats: stats, Weights: ws}
	if rep.Label == "" {
		rep.Label = p.archetype
	}
	if err := a.database.WeightReports().Save(ctx, rep); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "saved report %d\n", rep.ID)
	return nil
}

func (a *app) swi(args []string) error {
	fs := flag.NewFlagSet("swi", flag.ContinueOnError)
	fs.SetOutput(a.out)
	p := profileFlags(fs, "", "profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats, err := p.load(a.solver, a.table)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "stat\tstep\tΔedpt\tΔttk\tΔattacks/ko")
	for _, im := range metrics.SWI(stats, a.simCfg.Precedence) {
		fmt.Fprintf(w, "%s\t%g\t%+.3f\t%+.3f\t%+.3f\n", im.Stat, im.Step, im.DeltaEDPT, im.DeltaTTK, im.DeltaAttacksPerKO)
	}
	return w.Flush()
}

func (a *app) runs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(a.out)
	limit := fs.Int("limit", 20, "number of runs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return fmt.Errorf("-limit must be positive, got %d", *limit)
	}
	if a.database == nil {
		return errNoDatabase
	}

	recs, err := a.database.Runs().List(ctx, *limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tlabel\tbattles\twin A\twin B\tdraw\tcreated")
	for _, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f%%\t%.2f%%\t%.2f%%\t%s\n", r.ID, r.Label, r.Result.TotalBattles,
			r.Result.WinRateA()*100, r.Result.WinRateB()*100, r.Result.DrawRate()*100,
			r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func parseStatList(s string) ([]model.StatID, error) {
	if s == "" {
		return model.BaseStats(), nil
	}
	parts := strings.Split(s, ",")
	ids := make([]model.StatID, 0, len(parts))
	for _, part := range parts {
		id, err := model.ParseStatID(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
