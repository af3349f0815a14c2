//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema is the full DDL the stores expect. Applied once when the container
// starts.
const schema = `
CREATE TABLE IF NOT EXISTS papers (
    bucket_id           TEXT PRIMARY KEY,
    title               TEXT NOT NULL,
    author              TEXT NOT NULL,
    current_fingerprint TEXT NOT NULL,
    created_at          TIMESTAMPTZ NOT NULL,
    version_count       INTEGER NOT NULL,
    CONSTRAINT papers_title_key UNIQUE (title)
);

CREATE INDEX IF NOT EXISTS papers_author_idx ON papers (author, created_at);

CREATE TABLE IF NOT EXISTS paper_versions (
    bucket_id       TEXT NOT NULL REFERENCES papers (bucket_id),
    sequence_number INTEGER NOT NULL,
    fingerprint     TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (bucket_id, sequence_number)
);

CREATE TABLE IF NOT EXISTS gate_throttles (
    author                TEXT PRIMARY KEY,
    checks_remaining      INTEGER NOT NULL,
    high_similarity_count INTEGER NOT NULL,
    is_banned             BOOLEAN NOT NULL,
    updated_at            TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_events (
    id          UUID PRIMARY KEY,
    occurred_at TIMESTAMPTZ NOT NULL,
    author      TEXT NOT NULL,
    action      TEXT NOT NULL,
    bucket_id   TEXT NOT NULL DEFAULT '',
    reason      TEXT NOT NULL DEFAULT '',
    request_id  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS audit_events_author_idx ON audit_events (author, occurred_at);
`

// PostgresContainer wraps a testcontainers Postgres instance with an open
// connection pool and the schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("opus_test"),
		tcpostgres.WithUsername("opus"),
		tcpostgres.WithPassword("opus"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		URL:       url,
		DB:        db,
	}
}

// TruncateTables empties the given tables. Use between tests for isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	stmt := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	if _, err := p.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
