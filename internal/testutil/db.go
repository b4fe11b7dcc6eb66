// Package testutil holds shared test helpers.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/udisondev/combatlab/internal/db"
)

// DBAddrEnv points tests at an existing PostgreSQL instead of a container.
const DBAddrEnv = "DB_ADDR"

// SetupTestDB returns a migrated PostgreSQL pool. It uses DB_ADDR when set,
// otherwise starts a postgres:16-alpine testcontainer. Skips the test when
// neither is available or in -short mode. Cleanup is automatic.
func SetupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testing.Short() {
		tb.Skip("postgres tests skipped in short mode")
	}
	ctx := context.Background()

	dsn := os.Getenv(DBAddrEnv)
	if dsn == "" {
		var err error
		dsn, err = startPostgres(ctx, tb)
		if err != nil {
			tb.Skipf("postgres unavailable: %v", err)
		}
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		tb.Fatalf("connecting to test db: %v", err)
	}
	tb.Cleanup(func() { pool.Close() })

	if err := db.RunMigrations(ctx, pool); err != nil {
		tb.Fatalf("running migrations: %v", err)
	}
	// DB_ADDR databases are shared between runs.
	if _, err := pool.Exec(ctx, "TRUNCATE simulation_runs, weight_reports RESTART IDENTITY"); err != nil {
		tb.Fatalf("truncating tables: %v", err)
	}
	return pool
}

func startPostgres(ctx context.Context, tb testing.TB) (dsn string, err error) {
	// testcontainers may panic when no docker host can be resolved.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("starting container: %v", r)
		}
	}()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", fmt.Errorf("starting postgres container: %w", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("getting connection string: %w", err)
	}
	return dsn, nil
}
