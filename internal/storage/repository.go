// Package storage contains storage-agnostic contracts and utilities: the
// Repository interface the pipeline writes through, a backend factory keyed
// by kind, idempotent schema provisioning, and the atomic batch loader.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Repository is the minimal storage capability the pipeline needs. Backends
// (Postgres today; the factory keeps the seam open) implement bulk insert
// with their most efficient primitive and must make CopyFrom atomic: either
// every row is inserted and committed, or none are.
type Repository interface {
	// TableExists reports whether the named table is present in the catalog.
	TableExists(ctx context.Context, table string) (bool, error)

	// Exec runs a statement (DDL in this pipeline) and commits it.
	Exec(ctx context.Context, sql string) error

	// CopyFrom bulk-inserts rows (aligned to the columns order) into table
	// as one transaction. On any failure the whole batch is rolled back and
	// the error returned; on success it reports the inserted row count.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Close releases the underlying connection resources.
	Close()
}

// Config selects and parameterizes a backend.
type Config struct {
	// Kind selects the registered backend (e.g. "postgres").
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Schema optionally qualifies table names (e.g. "public").
	Schema string
}

// Factory constructs a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a backend factory for the given kind. It
// is typically called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New constructs a Repository for cfg.Kind. Callers do not need to import
// backend packages directly; linking them is enough.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind=%q", cfg.Kind)
	}
	return fn(ctx, cfg)
}
