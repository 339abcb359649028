package etl

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/KennielTorres/londonbikesETL/internal/config"
	"github.com/KennielTorres/londonbikesETL/internal/datasource"
)

const stationsCSV = `Station ID,Station Name,Capacity,Latitude,Longitude
S1,"""Square, Times""",24,51.5,-0.1
S2,Waterloo Station,40,51.503,-0.113
`

const journeysCSV = `Journey ID,Journey Duration,Start Station ID,Start Year,Start Month,Start Date,Start Hour,Start Minute,End Station ID,End Year,End Month,End Date,End Hour,End Minute
J1,840,S1,15,3,31,8,15,S2,15,3,31,8,29
J2,120,S1,15,3,31,9,0,S9,15,3,31,9,2
`

// memSource feeds an in-memory extract through the datasource seam.
type memSource struct{ data string }

func (m memSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(m.data)), nil
}

// fakeRepo is an in-memory Repository. copyErr fails CopyFrom for the named
// table; nothing is recorded for a failed copy, mirroring rollback.
type fakeRepo struct {
	tables  map[string]bool
	copied  map[string][][]any
	copyErr map[string]error
	execErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tables:  map[string]bool{},
		copied:  map[string][][]any{},
		copyErr: map[string]error{},
	}
}

func (f *fakeRepo) TableExists(_ context.Context, table string) (bool, error) {
	return f.tables[table], nil
}

func (f *fakeRepo) Exec(_ context.Context, sql string) error {
	if f.execErr != nil {
		return f.execErr
	}
	for _, name := range []string{"stations", "journeys"} {
		if strings.Contains(sql, name) {
			f.tables[name] = true
		}
	}
	return nil
}

func (f *fakeRepo) CopyFrom(_ context.Context, table string, _ []string, rows [][]any) (int64, error) {
	if err := f.copyErr[table]; err != nil {
		return 0, err
	}
	f.copied[table] = append(f.copied[table], rows...)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Close() {}

func withSources(t *testing.T, files map[string]string) {
	t.Helper()
	orig := newSource
	newSource = func(path string) datasource.Source {
		return memSource{data: files[path]}
	}
	t.Cleanup(func() { newSource = orig })
}

func runConfig() config.Load {
	return config.Load{
		Job:      "test_load",
		Stations: config.SourceFile{Path: "stations.csv"},
		Journeys: config.SourceFile{Path: "journeys.csv"},
	}
}

func TestRunFullLoad(t *testing.T) {
	withSources(t, map[string]string{
		"stations.csv": stationsCSV,
		"journeys.csv": journeysCSV,
	})
	repo := newFakeRepo()

	res, err := Run(context.Background(), runConfig(), repo)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !repo.tables["stations"] || !repo.tables["journeys"] {
		t.Errorf("tables not provisioned: %v", repo.tables)
	}
	if res.Stations.Inserted != 2 {
		t.Errorf("stations inserted = %d, want 2", res.Stations.Inserted)
	}
	// J2 references unknown station S9.
	if res.Journeys.Inserted != 1 {
		t.Errorf("journeys inserted = %d, want 1", res.Journeys.Inserted)
	}
	if res.Journeys.Filtered != 1 {
		t.Errorf("journeys filtered = %d, want 1", res.Journeys.Filtered)
	}

	rows := repo.copied["stations"]
	if len(rows) != 2 {
		t.Fatalf("stations rows = %d, want 2", len(rows))
	}
	// station_name is column 1 in the canonical order.
	if rows[0][1] != "Times Square" {
		t.Errorf("station_name = %v, want %q", rows[0][1], "Times Square")
	}

	jrows := repo.copied["journeys"]
	if len(jrows) != 1 {
		t.Fatalf("journeys rows = %d, want 1", len(jrows))
	}
	if jrows[0][0] != "J1" {
		t.Errorf("journey_id = %v, want J1", jrows[0][0])
	}
}

func TestRunIdempotentSchema(t *testing.T) {
	withSources(t, map[string]string{
		"stations.csv": stationsCSV,
		"journeys.csv": journeysCSV,
	})
	repo := newFakeRepo()
	repo.tables["stations"] = true
	repo.tables["journeys"] = true

	res, err := Run(context.Background(), runConfig(), repo)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.SchemaIssues) != 0 {
		t.Errorf("schema issues = %v, want none", res.SchemaIssues)
	}
}

func TestRunContinuesPastSchemaCreateFailure(t *testing.T) {
	withSources(t, map[string]string{
		"stations.csv": stationsCSV,
		"journeys.csv": journeysCSV,
	})
	repo := newFakeRepo()
	repo.execErr = errors.New("permission denied for schema public")

	res, err := Run(context.Background(), runConfig(), repo)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Both CREATEs failed; the failures are observable, not fatal.
	if len(res.SchemaIssues) != 2 {
		t.Fatalf("schema issues = %v, want 2", res.SchemaIssues)
	}
	for _, iss := range res.SchemaIssues {
		if !strings.Contains(iss.Err.Error(), "permission denied") {
			t.Errorf("issue = %v, want exec error", iss)
		}
	}

	// The load stages still ran to completion.
	if res.Stations.Inserted != 2 {
		t.Errorf("stations inserted = %d, want 2", res.Stations.Inserted)
	}
	if res.Journeys.Inserted != 1 {
		t.Errorf("journeys inserted = %d, want 1", res.Journeys.Inserted)
	}
}

func TestRunStationLoadFailureHaltsJourneys(t *testing.T) {
	withSources(t, map[string]string{
		"stations.csv": stationsCSV,
		"journeys.csv": journeysCSV,
	})
	repo := newFakeRepo()
	repo.copyErr["stations"] = errors.New("copy rejected")

	res, err := Run(context.Background(), runConfig(), repo)
	if err == nil {
		t.Fatal("Run: expected error")
	}
	if !strings.Contains(err.Error(), "journeys not attempted") {
		t.Errorf("err = %v, want journeys-not-attempted wrap", err)
	}
	if len(repo.copied["journeys"]) != 0 {
		t.Error("journeys were loaded after station failure")
	}
	if res.Journeys.Parsed != 0 {
		t.Errorf("journeys parsed = %d, want 0", res.Journeys.Parsed)
	}
}

func TestRunJourneyLoadFailureRollsBack(t *testing.T) {
	withSources(t, map[string]string{
		"stations.csv": stationsCSV,
		"journeys.csv": journeysCSV,
	})
	repo := newFakeRepo()
	repo.copyErr["journeys"] = errors.New("copy rejected")

	res, err := Run(context.Background(), runConfig(), repo)
	if err == nil {
		t.Fatal("Run: expected error")
	}
	if res.Stations.Inserted != 2 {
		t.Errorf("stations inserted = %d, want 2", res.Stations.Inserted)
	}
	if len(repo.copied["journeys"]) != 0 {
		t.Error("journeys table changed despite failed copy")
	}
}

func TestRunMissingExtractFails(t *testing.T) {
	// No stub: the real file source hits the filesystem and fails.
	cfg := runConfig()
	cfg.Stations.Path = "testdata/does-not-exist.csv"

	repo := newFakeRepo()
	if _, err := Run(context.Background(), cfg, repo); err == nil {
		t.Fatal("Run: expected error for missing extract")
	}
}
