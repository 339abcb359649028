package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/KennielTorres/londonbikesETL/pkg/records"
)

// NameFlip normalizes display names stored in the "suffix, prefix" order the
// station extract uses (e.g. `"Square, Times"`) into their natural reading
// order ("Times Square"). Double quotes are stripped, the comma-separated
// parts are reversed and rejoined with single spaces, and any residual
// commas are removed. Values are NFC-normalized so visually identical names
// with different Unicode compositions compare equal downstream.
type NameFlip struct {
	// Field names the column to rewrite. Rows where the field is absent or
	// nil pass through untouched.
	Field string
}

func (n NameFlip) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		v, ok := r[n.Field]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		r[n.Field] = flip(s)
	}
	return in
}

func flip(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	parts := strings.Split(s, ",")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	s = strings.Join(parts, " ")
	s = strings.ReplaceAll(s, ",", "")
	return norm.NFC.String(s)
}
