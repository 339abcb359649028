package builtin

import "github.com/KennielTorres/londonbikesETL/pkg/records"

// Project keeps only the listed columns, dropping everything else from each
// record. It is the batch equivalent of a SELECT column list and is how the
// pipeline discards partitioned source columns once their derived fields
// exist. Listed columns missing from a record are materialized as nil so
// every output record carries the full column set.
type Project struct {
	Columns []string
}

func (p Project) Apply(in []records.Record) []records.Record {
	if len(p.Columns) == 0 {
		return in
	}
	out := make([]records.Record, len(in))
	for i, r := range in {
		nr := make(records.Record, len(p.Columns))
		for _, c := range p.Columns {
			if v, ok := r[c]; ok {
				nr[c] = v
			} else {
				nr[c] = nil
			}
		}
		out[i] = nr
	}
	return out
}
