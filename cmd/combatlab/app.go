package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/combatlab/internal/config"
	"github.com/udisondev/combatlab/internal/data"
	"github.com/udisondev/combatlab/internal/db"
	"github.com/udisondev/combatlab/internal/game/ehp"
	"github.com/udisondev/combatlab/internal/game/formula"
	"github.com/udisondev/combatlab/internal/game/simulation"
	"github.com/udisondev/combatlab/internal/game/solver"
	"github.com/udisondev/combatlab/internal/model"
)

var errNoDatabase = errors.New("database disabled in config")

// app wires config, tables and engine components for one CLI invocation.
type app struct {
	cfg     config.Balancer
	out     io.Writer
	simCfg  simulation.Config
	solver  *solver.Solver
	profile ehp.Profile
	table   data.Table

	// database is nil unless enabled in config.
	database *db.DB
}

func newApp(ctx context.Context, cfgPath string, out io.Writer) (*app, error) {
	cfg, err := config.LoadBalancer(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lvl, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})))

	simCfg, err := simulationConfig(cfg.Simulation)
	if err != nil {
		return nil, err
	}

	if err := data.LoadWeights(); err != nil {
		return nil, err
	}
	if err := data.LoadArchetypes(); err != nil {
		return nil, err
	}
	overrides, err := data.FromMap(cfg.Weights.Overrides)
	if err != nil {
		return nil, fmt.Errorf("weight overrides: %w", err)
	}

	a := &app{
		cfg:    cfg,
		out:    out,
		simCfg: simCfg,
		solver: solver.New(simCfg.Precedence),
		profile: ehp.Profile{
			PhysicalHit: cfg.EHP.PhysicalHit,
			MagicalHit:  cfg.EHP.MagicalHit,
			Accuracy:    cfg.EHP.Accuracy,
		},
		table: data.WeightTable.With(overrides),
	}

	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, database.Pool()); err != nil {
			database.Close()
			return nil, err
		}
		a.database = database
		slog.Info("database connected")
	}
	return a, nil
}

func (a *app) close() {
	if a.database != nil {
		a.database.Close()
	}
}

func simulationConfig(c config.Simulation) (simulation.Config, error) {
	capPolicy, err := simulation.ParseCapPolicy(c.CapPolicy)
	if err != nil {
		return simulation.Config{}, err
	}
	prec, err := formula.ParsePrecedence(c.Precedence)
	if err != nil {
		return simulation.Config{}, err
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return simulation.Config{
		MaxTurns:   c.MaxTurns,
		CapPolicy:  capPolicy,
		Workers:    workers,
		Seed:       c.Seed,
		Precedence: prec,
	}, nil
}

// profileSource selects a stat profile on the command line: either a
// generated archetype or a YAML StatBlock file.
type profileSource struct {
	archetype string
	file      string
	budget    float64
}

func (p profileSource) load(s *solver.Solver, table data.Table) (model.StatBlock, error) {
	switch {
	case p.file != "":
		raw, err := os.ReadFile(p.file)
		if err != nil {
			return model.StatBlock{}, fmt.Errorf("reading profile %s: %w", p.file, err)
		}
		stats := model.DefaultStatBlock()
		if err := yaml.Unmarshal(raw, &stats); err != nil {
			return model.StatBlock{}, fmt.Errorf("parsing profile %s: %w", p.file, err)
		}
		return s.Recalculate(stats), nil
	case p.archetype != "":
		return data.Generate(p.archetype, p.budget, table, s)
	}
	return s.Recalculate(model.DefaultStatBlock()), nil
}
