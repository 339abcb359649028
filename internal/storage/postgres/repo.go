// Package postgres implements a Postgres repository using pgx v5. Bulk
// insertion runs COPY inside an explicit transaction so a batch either lands
// whole or not at all.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds Postgres repository configuration.
type Config struct {
	// DSN is the connection string for pgxpool.
	DSN string

	// Schema optionally qualifies table names (e.g. "public"). Empty means
	// the connection's default search path.
	Schema string
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a close function for
// cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, pool.Close, nil
}

// TableExists probes information_schema for the named table. The probe uses
// the bare table name; schema qualification only affects DML/DDL statements.
func (r *Repository) TableExists(ctx context.Context, table string) (bool, error) {
	parts := strings.Split(table, ".")
	name := parts[len(parts)-1]

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("table exists %q: %w", table, err)
	}
	return exists, nil
}

// Exec runs a statement outside any explicit transaction; pgx autocommits it.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

// CopyFrom bulk-inserts rows into table via COPY inside one transaction.
// Any failure rolls the whole batch back; partial inserts cannot escape the
// transaction. Postgres error detail (e.g. the offending value of a unique
// or foreign-key violation) is folded into the returned error.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(ctx, r.identifier(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("copy into %s: %s (%s)", table, pgErr.Detail, pgErr.SQLState())
		}
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit %s: %w", table, err)
	}
	return n, nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

// identifier builds the pgx.Identifier for table, applying the configured
// schema unless the name is already qualified.
func (r *Repository) identifier(table string) pgx.Identifier {
	if !strings.Contains(table, ".") && r.cfg.Schema != "" {
		return pgx.Identifier{r.cfg.Schema, table}
	}
	return splitFQN(table)
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}
