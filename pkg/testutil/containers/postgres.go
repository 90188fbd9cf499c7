//go:build integration

package containers

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	_ "github.com/lib/pq"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgOnce sync.Once
	pgDSN  string
	pgErr  error
)

// PostgresContainer is a connection to the shared Postgres test instance.
type PostgresContainer struct {
	DSN string
	DB  *sql.DB
}

// NewPostgresContainer starts one Postgres container per test binary and
// returns a fresh connection pool to it. The pool is closed on test cleanup;
// the container is reaped by Ryuk when the process exits.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()
	pgOnce.Do(func() {
		var container *tcpostgres.PostgresContainer
		container, pgErr = tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("refguard"),
			tcpostgres.WithUsername("refguard"),
			tcpostgres.WithPassword("refguard"),
			tcpostgres.BasicWaitStrategies(),
		)
		if pgErr != nil {
			return
		}
		pgDSN, pgErr = container.ConnectionString(ctx, "sslmode=disable")
	})
	if pgErr != nil {
		t.Fatalf("failed to start postgres container: %v", pgErr)
	}

	db, err := sql.Open("postgres", pgDSN)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		t.Fatalf("failed to ping postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return &PostgresContainer{DSN: pgDSN, DB: db}
}

// TruncateTables empties the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return err
		}
	}
	return nil
}
