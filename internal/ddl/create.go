// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render simple CREATE TABLE statements from that model.
//
// The goal of this package is to stay generic: it does not assume any specific
// SQL dialect. In particular, it:
//
//   - Does not quote identifiers; it emits TableDef.FQN and ColumnDef.Name as-is.
//   - Does not insert dialect-specific clauses such as IF NOT EXISTS.
//   - Treats ColumnDef.Default and referential actions as raw SQL (the caller
//     is responsible for safety and dialect correctness).
//
// Backend-specific packages (e.g. internal/storage/postgres/ddl) adapt this
// model to their dialect as needed.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a generic CREATE TABLE statement from a TableDef.
//
// Each column is rendered as:
//
//	<Name> <SQLType> [PRIMARY KEY] [UNIQUE] [NOT NULL] [DEFAULT <Default>]
//	       [REFERENCES <t>(<c>) [ON DELETE <a>] [ON UPDATE <a>]]
//
// The resulting statement has the form:
//
//	CREATE TABLE <FQN> (
//	  <col1-def>,
//	  <col2-def>,
//	  ...
//	);
//
// This function does not attempt to be fully portable or exhaustive; it is a
// simple, deterministic baseline that backends can wrap or replace.
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(typ)

		if c.PrimaryKey {
			sb.WriteString(" PRIMARY KEY")
		}
		if c.Unique {
			sb.WriteString(" UNIQUE")
		}
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			// Default is emitted as raw SQL expression.
			sb.WriteString(def)
		}
		if r := c.References; r != nil {
			if strings.TrimSpace(r.Table) == "" || strings.TrimSpace(r.Column) == "" {
				return "", fmt.Errorf("ddl: column %s has incomplete reference", name)
			}
			fmt.Fprintf(&sb, " REFERENCES %s(%s)", r.Table, r.Column)
			if a := strings.TrimSpace(r.OnDelete); a != "" {
				sb.WriteString(" ON DELETE ")
				sb.WriteString(a)
			}
			if a := strings.TrimSpace(r.OnUpdate); a != "" {
				sb.WriteString(" ON UPDATE ")
				sb.WriteString(a)
			}
		}

		cols = append(cols, sb.String())
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		fqn,
		strings.Join(cols, ",\n  "),
	)

	return stmt, nil
}
