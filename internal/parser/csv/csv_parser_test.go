package csv

import (
	"reflect"
	"strings"
	"testing"

	"github.com/KennielTorres/londonbikesETL/pkg/records"
)

func TestParseHeaderMap(t *testing.T) {
	in := "Station ID,Station Name,Capacity\nS1,Hyde Park,20\n"
	p := NewParser(Options{
		HasHeader: true,
		TrimSpace: true,
		HeaderMap: map[string]string{
			"Station ID":   "station_id",
			"Station Name": "station_name",
			"Capacity":     "capacity",
		},
	})

	got, skipped, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	want := []records.Record{
		{"station_id": "S1", "station_name": "Hyde Park", "capacity": "20"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestParseStripsBOM(t *testing.T) {
	in := "\ufeffJourney ID,Journey Duration\nJ1,600\n"
	p := NewParser(Options{HasHeader: true, TrimSpace: true})

	got, _, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got[0].String("Journey ID") != "J1" {
		t.Fatalf("BOM not stripped from first header: %#v", got[0])
	}
}

func TestParseSkipsRaggedRows(t *testing.T) {
	in := "a,b\n1,2\nonly-one-cell\n3,4\n"
	p := NewParser(Options{HasHeader: true})

	got, skipped, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
}

func TestParseEmptyCellBecomesNil(t *testing.T) {
	in := "a,b\n1,\n"
	p := NewParser(Options{HasHeader: true, TrimSpace: true})

	got, _, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got[0]["b"] != nil {
		t.Fatalf("empty cell = %#v, want nil", got[0]["b"])
	}
	if got[0].Has("b") {
		t.Fatalf("Has should be false for nil value")
	}
}
