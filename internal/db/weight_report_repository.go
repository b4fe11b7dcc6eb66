package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/combatlab/internal/game/weight"
	"github.com/udisondev/combatlab/internal/model"
)

// WeightReport is a persisted dynamic weight analysis of one profile.
type WeightReport struct {
	ID        int64
	Label     string
	Stats     model.StatBlock
	Weights   []weight.Weight
	CreatedAt time.Time
}

// WeightReportRepository manages the weight_reports table.
type WeightReportRepository struct {
	db *pgxpool.Pool
}

// NewWeightReportRepository creates a new WeightReportRepository.
func NewWeightReportRepository(db *pgxpool.Pool) *WeightReportRepository {
	return &WeightReportRepository{db: db}
}

// Save inserts rep and fills its ID and CreatedAt.
func (r *WeightReportRepository) Save(ctx context.Context, rep *WeightReport) error {
	stats, err := json.Marshal(rep.Stats)
	if err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	weights, err := json.Marshal(rep.Weights)
	if err != nil {
		return fmt.Errorf("encoding weights: %w", err)
	}

	query := `
		INSERT INTO weight_reports (label, stats, weights)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.db.QueryRow(ctx, query, rep.Label, stats, weights).Scan(&rep.ID, &rep.CreatedAt); err != nil {
		return fmt.Errorf("inserting weight report %q: %w", rep.Label, err)
	}
	return nil
}

// Latest returns the newest report with the given label, ErrReportNotFound when none.
func (r *WeightReportRepository) Latest(ctx context.Context, label string) (*WeightReport, error) {
	query := `
		SELECT id, label, stats, weights, created_at
		FROM weight_reports
		WHERE label = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var (
		rep            WeightReport
		stats, weights []byte
	)
	err := r.db.QueryRow(ctx, query, label).Scan(&rep.ID, &rep.Label, &stats, &weights, &rep.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("querying weight report %q: %w", label, err)
	}

	if err := json.Unmarshal(stats, &rep.Stats); err != nil {
		return nil, fmt.Errorf("decoding stats: %w", err)
	}
	if err := json.Unmarshal(weights, &rep.Weights); err != nil {
		return nil, fmt.Errorf("decoding weights: %w", err)
	}
	return &rep, nil
}
