// Package records defines the row representation shared by the parser,
// the transformers, and the storage loader. A Record is a loosely-typed
// column-name → value map; for this loader every value is either a string
// or nil (absent field → SQL NULL).
package records

import "fmt"

// Record is a single logical row keyed by canonical column name.
type Record map[string]any

// String returns the value for key rendered as a string. Nil and missing
// values both render as "", so transforms can treat absent fields as empty.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Clone returns a shallow copy of the record. The built-in transforms
// mutate rows in place or build fresh records; Clone is for callers that
// need to hold a row across a transform without seeing its edits.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
