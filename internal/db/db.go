// Package db persists simulation runs and weight reports in PostgreSQL.
// The engine never depends on it; the CLI stores results when the database
// is enabled in config.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRunNotFound is returned when a simulation run id does not exist.
var ErrRunNotFound = errors.New("simulation run not found")

// ErrReportNotFound is returned when no weight report matches.
var ErrReportNotFound = errors.New("weight report not found")

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Runs returns a RunRepository over this connection.
func (d *DB) Runs() *RunRepository {
	return NewRunRepository(d.pool)
}

// WeightReports returns a WeightReportRepository over this connection.
func (d *DB) WeightReports() *WeightReportRepository {
	return NewWeightReportRepository(d.pool)
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
