package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/combatlab/internal/game/simulation"
	"github.com/udisondev/combatlab/internal/model"
)

// RunRecord is one persisted Monte Carlo run.
type RunRecord struct {
	ID         int64
	Label      string
	TeamA      []model.StatBlock
	TeamB      []model.StatBlock
	Iterations int
	MaxTurns   int
	CapPolicy  string
	Precedence string
	Seed       uint64
	Result     simulation.Result
	CreatedAt  time.Time
}

// RunRepository manages the simulation_runs table.
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

// Save inserts rec and fills its ID and CreatedAt.
func (r *RunRepository) Save(ctx context.Context, rec *RunRecord) error {
	teamA, err := json.Marshal(rec.TeamA)
	if err != nil {
		return fmt.Errorf("encoding team a: %w", err)
	}
	teamB, err := json.Marshal(rec.TeamB)
	if err != nil {
		return fmt.Errorf("encoding team b: %w", err)
	}

	query := `
		INSERT INTO simulation_runs (
			label, team_a, team_b, iterations, max_turns, cap_policy, precedence, seed,
			wins_a, wins_b, draws, total_battles, average_turns, capped_battles
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`

	res := rec.Result
	err = r.db.QueryRow(ctx, query,
		rec.Label, teamA, teamB, rec.Iterations, rec.MaxTurns, rec.CapPolicy, rec.Precedence, int64(rec.Seed),
		res.WinsA, res.WinsB, res.Draws, res.TotalBattles, res.AverageTurns, res.CappedBattles,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting simulation run %q: %w", rec.Label, err)
	}

	slog.Debug("saved simulation run", "id", rec.ID, "label", rec.Label)
	return nil
}

const runColumns = `
	id, label, team_a, team_b, iterations, max_turns, cap_policy, precedence, seed,
	wins_a, wins_b, draws, total_battles, average_turns, capped_battles, created_at
`

// Get returns the run with the given id, ErrRunNotFound when missing.
func (r *RunRepository) Get(ctx context.Context, id int64) (*RunRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+runColumns+` FROM simulation_runs WHERE id = $1`, id)
	rec, err := scanRun(row)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("querying simulation run %d: %w", id, err)
	}
	return rec, nil
}

// List returns up to limit runs, newest first. A non-positive limit yields
// no runs.
func (r *RunRepository) List(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+runColumns+` FROM simulation_runs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying simulation runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning simulation run: %w", err)
		}
		runs = append(runs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating simulation runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.Row) (*RunRecord, error) {
	var (
		rec          RunRecord
		teamA, teamB []byte
		seed         int64
	)
	err := row.Scan(
		&rec.ID, &rec.Label, &teamA, &teamB, &rec.Iterations, &rec.MaxTurns, &rec.CapPolicy, &rec.Precedence, &seed,
		&rec.Result.WinsA, &rec.Result.WinsB, &rec.Result.Draws, &rec.Result.TotalBattles,
		&rec.Result.AverageTurns, &rec.Result.CappedBattles, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Seed = uint64(seed)
	if err := json.Unmarshal(teamA, &rec.TeamA); err != nil {
		return nil, fmt.Errorf("decoding team a: %w", err)
	}
	if err := json.Unmarshal(teamB, &rec.TeamB); err != nil {
		return nil, fmt.Errorf("decoding team b: %w", err)
	}
	return &rec, nil
}
