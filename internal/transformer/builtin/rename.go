package builtin

import "github.com/KennielTorres/londonbikesETL/pkg/records"

// Rename maps source column names to their canonical storage names. Columns
// without a mapping keep their original key; a mapped key replaces the
// source key in place.
type Rename struct {
	// Mapping is source-name -> canonical-name.
	Mapping map[string]string
}

func (rn Rename) Apply(in []records.Record) []records.Record {
	if len(rn.Mapping) == 0 {
		return in
	}
	for _, r := range in {
		for from, to := range rn.Mapping {
			v, ok := r[from]
			if !ok || from == to {
				continue
			}
			r[to] = v
			delete(r, from)
		}
	}
	return in
}
