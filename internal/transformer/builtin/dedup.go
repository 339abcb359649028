// Package builtin contains the reusable record transformers the load
// pipeline is assembled from.
//
// DeDup collapses exact-duplicate records inside a single batch. Both
// extracts are append-only files re-shipped in full, so repeated rows inside
// one batch are common; collapsing them before the database avoids COPY
// write amplification and spurious constraint errors. The database still
// maintains its UNIQUE constraints as a backstop — duplicates against
// previously persisted data are NOT filtered here.
package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/KennielTorres/londonbikesETL/pkg/records"
)

// DeDup removes rows that are field-for-field identical to an earlier row in
// the batch. The first occurrence wins and input order is preserved.
type DeDup struct {
	// Keys optionally restricts equality to the named fields. When empty,
	// the full row (every present field) forms the identity.
	Keys []string
}

// Apply executes the de-duplication and returns a new slice containing only
// the first occurrence of each identity.
func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 {
		return in
	}

	seen := make(map[uint64]struct{}, len(in))
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		h := d.keyOf(r)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, r)
	}
	return out
}

// keyOf hashes the record's identity fields into a single key. Field names
// are sorted so map iteration order never changes the identity, and names
// are included so a value moving between columns reads as a different row.
func (d DeDup) keyOf(r records.Record) uint64 {
	keys := d.Keys
	if len(keys) == 0 {
		keys = make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\x1f') // unlikely separator
		switch t := r[k].(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteString(t)
		default:
			b.WriteString(fmt.Sprint(t))
		}
		b.WriteByte('\x1e')
	}
	return xxh3.HashString(b.String())
}
