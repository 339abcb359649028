package etl

import (
	"fmt"
	"log"
	"strconv"

	pgddl "github.com/KennielTorres/londonbikesETL/internal/storage/postgres/ddl"
	"github.com/KennielTorres/londonbikesETL/internal/transformer"
	"github.com/KennielTorres/londonbikesETL/internal/transformer/builtin"
	"github.com/KennielTorres/londonbikesETL/pkg/records"
)

// journeyRename maps the journey extract's headers to the storage schema.
// The partitioned date/time headers keep their source names; they are
// consumed by the reconstruction step and then dropped.
var journeyRename = map[string]string{
	"Journey ID":       "journey_id",
	"Journey Duration": "journey_duration",
	"Start Station ID": "start_station_id",
	"End Station ID":   "end_station_id",
}

// JourneyStats summarizes the per-row outcomes of one journey batch.
type JourneyStats struct {
	// Deduped counts exact-duplicate rows collapsed before transformation.
	Deduped int
	// Malformed counts rows excluded because a date/time component was out
	// of range or non-numeric.
	Malformed int
	// Filtered counts rows dropped because a station reference could not be
	// resolved in the current batch.
	Filtered int
}

// TransformJourneys normalizes raw journey rows into the storage schema.
// In order: exact-duplicate rows are collapsed; source columns are renamed;
// start/end dates and times are reconstructed from the partitioned numeric
// fields; the partitioned columns are dropped and the batch is reordered to
// the canonical column list; finally, rows whose start or end station is not
// in known are filtered out.
//
// A malformed date/time component fails only that row: it is excluded from
// the output and reported, never fatal to the batch.
func TransformJourneys(raw []records.Record, known StationSet) ([]records.Record, JourneyStats) {
	var stats JourneyStats

	chain := transformer.Chain{
		builtin.DeDup{},
		builtin.Rename{Mapping: journeyRename},
	}
	before := len(raw)
	rows := chain.Apply(raw)
	stats.Deduped = before - len(rows)

	rebuilt := rows[:0]
	for _, r := range rows {
		if err := rebuildDateTime(r); err != nil {
			log.Printf("Skipping journey %q: %v", r.String("journey_id"), err)
			stats.Malformed++
			continue
		}
		rebuilt = append(rebuilt, r)
	}

	out := builtin.Project{Columns: pgddl.JourneyColumns}.Apply(rebuilt)

	// Referential filter: both endpoints must resolve against the station
	// batch transformed in this run. Unresolvable rows are dropped silently
	// (counted, not logged) per the load's integrity contract.
	kept := out[:0]
	for _, r := range out {
		if known.Contains(r.String("start_station_id")) && known.Contains(r.String("end_station_id")) {
			kept = append(kept, r)
		} else {
			stats.Filtered++
		}
	}

	return kept, stats
}

// rebuildDateTime derives the four stored date/time fields from the
// partitioned numeric source fields, in place.
//
// The start/end times reuse the (year, month, day) triple as clock
// components (hour←year, minute←month, second←day), except end_time, which
// comes from the End Hour/End Minute pair. The triple-as-clock reading has
// no calendar meaning; it reproduces the source dataset's column semantics,
// which downstream consumers already depend on.
func rebuildDateTime(r records.Record) error {
	sy, sm, sd, err := intTriple(r, "Start Year", "Start Month", "Start Date")
	if err != nil {
		return err
	}
	ey, em, ed, err := intTriple(r, "End Year", "End Month", "End Date")
	if err != nil {
		return err
	}
	eh, err := intField(r, "End Hour")
	if err != nil {
		return err
	}
	emin, err := intField(r, "End Minute")
	if err != nil {
		return err
	}

	startDate, err := isoDate(sy, sm, sd)
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	startTime, err := isoTime(sy, sm, sd)
	if err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	endDate, err := isoDate(ey, em, ed)
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	endTime, err := isoTime(eh, emin, 0)
	if err != nil {
		return fmt.Errorf("end time: %w", err)
	}

	r["start_date"] = startDate
	r["start_time"] = startTime
	r["end_date"] = endDate
	r["end_time"] = endTime
	return nil
}

// intTriple reads three numeric fields at once.
func intTriple(r records.Record, a, b, c string) (int, int, int, error) {
	va, err := intField(r, a)
	if err != nil {
		return 0, 0, 0, err
	}
	vb, err := intField(r, b)
	if err != nil {
		return 0, 0, 0, err
	}
	vc, err := intField(r, c)
	if err != nil {
		return 0, 0, 0, err
	}
	return va, vb, vc, nil
}

// intField parses the named field as an integer. Absent and empty values are
// malformed: every date/time component is required to reconstruct the row.
func intField(r records.Record, key string) (int, error) {
	s := r.String(key)
	if s == "" {
		return 0, fmt.Errorf("missing %q", key)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return n, nil
}
