package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/KennielTorres/londonbikesETL/internal/ddl"
)

// SQLBuilder renders a CREATE TABLE statement for one table definition.
// Backends supply their dialect-specific builder (e.g. IF NOT EXISTS form).
type SQLBuilder func(ddl.TableDef) (string, error)

// SchemaIssue records one non-fatal provisioning failure. The run continues
// past it; a table that silently failed to appear will surface later as a
// load failure against that table.
type SchemaIssue struct {
	Table string
	Err   error
}

func (s SchemaIssue) Error() string {
	return fmt.Sprintf("table %q: %v", s.Table, s.Err)
}

// EnsureSchema provisions each table in defs that is absent from the catalog
// and leaves existing tables untouched, so repeated runs are no-ops. Tables
// are processed in order, which lets referenced tables (stations) precede
// their referrers (journeys).
//
// Failures — both catalog probes and CREATE statements — are logged and
// collected, never fatal: one broken table must not stop provisioning of the
// others or the run itself. Callers that need the condition observable
// inspect the returned issues.
func EnsureSchema(ctx context.Context, repo Repository, build SQLBuilder, defs []ddl.TableDef) []SchemaIssue {
	var issues []SchemaIssue

	for _, td := range defs {
		exists, err := repo.TableExists(ctx, td.FQN)
		if err != nil {
			log.Printf("Error: check table %q: %v", td.FQN, err)
			issues = append(issues, SchemaIssue{Table: td.FQN, Err: err})
			continue
		}
		if exists {
			log.Printf("Table %q exists.", td.FQN)
			continue
		}

		sql, err := build(td)
		if err != nil {
			log.Printf("Error: %v", err)
			issues = append(issues, SchemaIssue{Table: td.FQN, Err: err})
			continue
		}
		if err := repo.Exec(ctx, sql); err != nil {
			log.Printf("Error: %v", err)
			issues = append(issues, SchemaIssue{Table: td.FQN, Err: err})
			continue
		}
		log.Printf("Table %q has been created.", td.FQN)
	}

	return issues
}
