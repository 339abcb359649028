// Package etl implements the transform-and-load pipeline for the two
// bike-share extracts: station normalization, journey date/time
// reconstruction and referential filtering, and the run orchestration that
// ties provisioning, transformation, and bulk loading together.
package etl

import (
	pgddl "github.com/KennielTorres/londonbikesETL/internal/storage/postgres/ddl"
	"github.com/KennielTorres/londonbikesETL/internal/transformer"
	"github.com/KennielTorres/londonbikesETL/internal/transformer/builtin"
	"github.com/KennielTorres/londonbikesETL/pkg/records"
)

// DefaultStationHeaderMap maps the station extract's headers to the storage
// schema. Runs can override it via the parser header_map option.
var DefaultStationHeaderMap = map[string]string{
	"Station ID":   "station_id",
	"Station Name": "station_name",
	"Capacity":     "capacity",
	"Latitude":     "latitude",
	"Longitude":    "longitude",
}

// StationSet is the set of station identifiers present in one transformed
// batch. Journey referential filtering resolves against it, not against
// previously persisted data.
type StationSet map[string]struct{}

// Contains reports whether id is a known station identifier.
func (s StationSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// TransformStations normalizes raw station rows into the storage schema:
// exact-duplicate rows are collapsed, display names are flipped from the
// extract's "suffix, prefix" form, and the batch is projected onto the
// canonical column order. No row is dropped for missing fields; absent
// values pass through as NULL.
//
// The returned StationSet holds every non-empty station_id in the batch and
// feeds the journey referential filter. deduped counts the collapsed rows.
func TransformStations(raw []records.Record) (out []records.Record, known StationSet, deduped int) {
	chain := transformer.Chain{
		builtin.DeDup{},
		builtin.NameFlip{Field: "station_name"},
		builtin.Project{Columns: pgddl.StationColumns},
	}

	before := len(raw)
	out = chain.Apply(raw)
	deduped = before - len(out)

	known = make(StationSet, len(out))
	for _, r := range out {
		if id := r.String("station_id"); id != "" {
			known[id] = struct{}{}
		}
	}
	return out, known, deduped
}
