package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/KennielTorres/londonbikesETL/internal/ddl"
)

// fakeRepo is an in-memory Repository for exercising provisioning and load
// behavior without a database.
type fakeRepo struct {
	tables   map[string]bool
	execErr  map[string]error // keyed by table name substring
	probeErr error
	execs    []string
	copied   map[string][][]any
	copyErr  error
}

func newFakeRepo(existing ...string) *fakeRepo {
	t := map[string]bool{}
	for _, n := range existing {
		t[n] = true
	}
	return &fakeRepo{tables: t, execErr: map[string]error{}, copied: map[string][][]any{}}
}

func (f *fakeRepo) TableExists(_ context.Context, table string) (bool, error) {
	if f.probeErr != nil {
		return false, f.probeErr
	}
	return f.tables[table], nil
}

func (f *fakeRepo) Exec(_ context.Context, sql string) error {
	f.execs = append(f.execs, sql)
	for sub, err := range f.execErr {
		if strings.Contains(sql, sub) {
			return err
		}
	}
	// Crude but sufficient: register the table the statement creates.
	for name := range map[string]struct{}{"stations": {}, "journeys": {}} {
		if strings.Contains(sql, name) {
			f.tables[name] = true
		}
	}
	return nil
}

func (f *fakeRepo) CopyFrom(_ context.Context, table string, _ []string, rows [][]any) (int64, error) {
	if f.copyErr != nil {
		// Atomic contract: nothing lands on failure.
		return 0, f.copyErr
	}
	f.copied[table] = append(f.copied[table], rows...)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Close() {}

func testDefs() []ddl.TableDef {
	return []ddl.TableDef{
		{FQN: "stations", Columns: []ddl.ColumnDef{{Name: "station_id", SQLType: "TEXT"}}},
		{FQN: "journeys", Columns: []ddl.ColumnDef{{Name: "journey_id", SQLType: "TEXT"}}},
	}
}

func TestEnsureSchemaCreatesMissingTables(t *testing.T) {
	repo := newFakeRepo()
	issues := EnsureSchema(context.Background(), repo, ddl.BuildCreateTableSQL, testDefs())
	if len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}
	if len(repo.execs) != 2 {
		t.Fatalf("execs = %d, want 2", len(repo.execs))
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	repo := newFakeRepo("stations", "journeys")
	issues := EnsureSchema(context.Background(), repo, ddl.BuildCreateTableSQL, testDefs())
	if len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}
	if len(repo.execs) != 0 {
		t.Fatalf("already-provisioned schema issued DDL: %v", repo.execs)
	}
}

func TestEnsureSchemaContinuesPastCreateFailure(t *testing.T) {
	repo := newFakeRepo()
	boom := errors.New("permission denied for schema public")
	repo.execErr["stations"] = boom

	issues := EnsureSchema(context.Background(), repo, ddl.BuildCreateTableSQL, testDefs())

	// The failure is observable, not fatal: the second table is still
	// provisioned.
	if len(issues) != 1 || !errors.Is(issues[0].Err, boom) {
		t.Fatalf("issues = %v, want the stations failure", issues)
	}
	if issues[0].Table != "stations" {
		t.Fatalf("issue table = %q, want stations", issues[0].Table)
	}
	if !repo.tables["journeys"] {
		t.Fatalf("journeys was not provisioned after stations failure")
	}
}

func TestEnsureSchemaReportsProbeFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.probeErr = errors.New("connection reset")

	issues := EnsureSchema(context.Background(), repo, ddl.BuildCreateTableSQL, testDefs())
	if len(issues) != 2 {
		t.Fatalf("issues = %v, want one per table", issues)
	}
	if len(repo.execs) != 0 {
		t.Fatalf("DDL issued despite probe failures: %v", repo.execs)
	}
}
