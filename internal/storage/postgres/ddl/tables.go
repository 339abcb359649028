// Package ddl contains Postgres-specific DDL for the bike-share schema: the
// two fixed table definitions and the dialect wrapper over the generic
// CREATE TABLE renderer.
package ddl

import (
	"strings"

	"github.com/KennielTorres/londonbikesETL/internal/ddl"
)

// Table names. The journey table references the station table, so stations
// must be provisioned first.
const (
	StationsTable = "stations"
	JourneysTable = "journeys"
)

// StationColumns is the canonical column order used for COPY into stations.
// The surrogate station_pk is excluded; the database populates it.
var StationColumns = []string{
	"station_id", "station_name", "capacity", "latitude", "longitude",
}

// JourneyColumns is the canonical column order used for COPY into journeys.
var JourneyColumns = []string{
	"journey_id", "journey_duration",
	"start_station_id", "start_date", "start_time",
	"end_station_id", "end_date", "end_time",
}

// Stations returns the station table definition. station_id carries the
// natural key from the extract; station_pk is a SERIAL surrogate.
func Stations() ddl.TableDef {
	return ddl.TableDef{
		FQN: StationsTable,
		Columns: []ddl.ColumnDef{
			{Name: "station_pk", SQLType: "SERIAL", PrimaryKey: true},
			{Name: "station_id", SQLType: "TEXT", Unique: true, Default: "NULL"},
			{Name: "station_name", SQLType: "TEXT", Nullable: true},
			{Name: "capacity", SQLType: "TEXT", Nullable: true},
			{Name: "latitude", SQLType: "TEXT", Nullable: true},
			{Name: "longitude", SQLType: "TEXT", Nullable: true},
		},
	}
}

// Journeys returns the journey table definition. Both station references
// cascade on delete and update so the journey table follows station-key
// rewrites without orphaning rows.
func Journeys() ddl.TableDef {
	stationRef := func() *ddl.Reference {
		return &ddl.Reference{
			Table:    StationsTable,
			Column:   "station_id",
			OnDelete: "CASCADE",
			OnUpdate: "CASCADE",
		}
	}
	return ddl.TableDef{
		FQN: JourneysTable,
		Columns: []ddl.ColumnDef{
			{Name: "journey_pk", SQLType: "SERIAL", PrimaryKey: true},
			{Name: "journey_id", SQLType: "TEXT", Default: "NULL"},
			{Name: "journey_duration", SQLType: "TEXT", Nullable: true},
			{Name: "start_station_id", SQLType: "TEXT", Nullable: true, References: stationRef()},
			{Name: "start_date", SQLType: "TEXT", Nullable: true},
			{Name: "start_time", SQLType: "TEXT", Nullable: true},
			{Name: "end_station_id", SQLType: "TEXT", Nullable: true, References: stationRef()},
			{Name: "end_date", SQLType: "TEXT", Nullable: true},
			{Name: "end_time", SQLType: "TEXT", Nullable: true},
		},
	}
}

// Tables returns both definitions in provisioning order (referenced first).
func Tables() []ddl.TableDef {
	return []ddl.TableDef{Stations(), Journeys()}
}

// BuildCreateTableSQL returns a Postgres CREATE TABLE IF NOT EXISTS statement
// for the given table definition. It is a thin wrapper over the generic ddl
// renderer, which already uses Postgres-compatible syntax.
func BuildCreateTableSQL(td ddl.TableDef) (string, error) {
	sql, err := ddl.BuildCreateTableSQL(td)
	if err != nil {
		return "", err
	}
	return strings.Replace(sql, "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ", 1), nil
}
