// Package config defines the JSON-serializable configuration model for a
// bike-data load run. It is intentionally small, explicit, and dependency-
// free so that a run description can be loaded from disk and passed through
// the program without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in run files
//     under configs/*.json.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library, with a light Options helper for typed access.
//
// Credentials are deliberately NOT part of the run file. The database user,
// password, host, port, and name come from the environment (optionally via a
// .env file loaded by the caller) and are assembled into a DSN by DBConfig.
//
// Example (trimmed):
//
//	{
//	  "job": "ldn_bike_load",
//	  "stations":  { "path": "data/stations.csv" },
//	  "journeys":  { "path": "data/journeys.csv" },
//	  "parser":    { "options": { "has_header": true, "trim_space": true } },
//	  "storage":   { "kind": "postgres" }
//	}
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// Load describes one full load run: where the two extracts live, how to
// parse them, and which storage backend receives the batches.
type Load struct {
	// Job names the run for logging and metrics labeling.
	Job string `json:"job"`

	// Stations locates the station extract (one row per dock station).
	Stations SourceFile `json:"stations"`

	// Journeys locates the journey extract (one row per trip).
	Journeys SourceFile `json:"journeys"`

	// Parser configures how raw CSV bytes are turned into records.
	Parser Parser `json:"parser"`

	// Storage selects the sink used to persist transformed records.
	Storage Storage `json:"storage"`
}

// SourceFile holds the location of one local extract.
type SourceFile struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`
}

// Parser carries CSV parser options shared by both extracts. Typical keys:
// has_header (bool), comma (string), trim_space (bool), and header_map
// (object) applied to the station extract only.
type Parser struct {
	Options Options `json:"options"`
}

// Storage selects the sink used to persist transformed records.
type Storage struct {
	// Kind selects the storage implementation. Current value: "postgres".
	Kind string `json:"kind"`

	// Schema optionally qualifies the target tables (e.g. "public").
	Schema string `json:"schema"`
}

// DBConfig is the opaque credential bundle for the storage connection. It
// is sourced from the environment by FromEnv, never from the run file.
type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// ReadFile decodes a run file from disk. Unknown fields are rejected so a
// typo in a run file fails loudly instead of silently applying defaults.
func ReadFile(path string) (Load, error) {
	var l Load
	b, err := os.ReadFile(path)
	if err != nil {
		return l, fmt.Errorf("read config %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&l); err != nil {
		return l, fmt.Errorf("decode config %s: %w", path, err)
	}
	return l, nil
}

// FromEnv reads the credential bundle from BIKEDB_USER, BIKEDB_PASSWORD,
// BIKEDB_HOST, BIKEDB_PORT, and BIKEDB_NAME.
func FromEnv() DBConfig {
	return DBConfig{
		User:     os.Getenv("BIKEDB_USER"),
		Password: os.Getenv("BIKEDB_PASSWORD"),
		Host:     os.Getenv("BIKEDB_HOST"),
		Port:     os.Getenv("BIKEDB_PORT"),
		Name:     os.Getenv("BIKEDB_NAME"),
	}
}

// Validate reports the first missing required credential field. The
// password may legitimately be empty (trust or peer auth); user, host,
// port, and name are required to form a usable DSN. pgxpool connects
// lazily, so an incomplete bundle would otherwise surface only deep in the
// run as connection failures.
func (c DBConfig) Validate() error {
	switch {
	case c.User == "":
		return fmt.Errorf("database credentials: BIKEDB_USER is not set")
	case c.Host == "":
		return fmt.Errorf("database credentials: BIKEDB_HOST is not set")
	case c.Port == "":
		return fmt.Errorf("database credentials: BIKEDB_PORT is not set")
	case c.Name == "":
		return fmt.Errorf("database credentials: BIKEDB_NAME is not set")
	}
	return nil
}

// DSN assembles a postgres connection string for pgx/pgxpool. The password
// is URL-escaped so credential contents never break the DSN syntax.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host, c.Port, c.Name,
	)
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It purposefully
// performs only minimal type coercion and returns provided defaults when a
// key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Used for single-character parser settings such as the
// CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty
// map when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object in JSON decodes to a non-nil, empty Options map. This
// simplifies call sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
