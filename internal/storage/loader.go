// This file implements the batch loader: it serializes a transformed record
// batch into backend rows and submits them as ONE bulk-insert operation.
// All writes to a table within a run form a single commit-or-rollback unit;
// there is no fine-grained row transaction and nothing is retried.
//
// Logging: on a successful load, a concise progress line is emitted with the
// row count and instantaneous rows/sec.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/KennielTorres/londonbikesETL/pkg/records"
)

// LoadBatch aligns recs to the explicit columns order, submits them to repo
// as one atomic CopyFrom against table, and returns the inserted row count.
//
// Column alignment: a field missing from a record becomes nil (SQL NULL), so
// sparse records never shift neighboring columns. On failure the backend has
// already rolled the batch back; LoadBatch reports the error and leaves any
// retry decision to the caller.
func LoadBatch(
	ctx context.Context,
	repo Repository,
	table string,
	columns []string,
	recs []records.Record,
) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("no columns configured for table %q", table)
	}
	if len(recs) == 0 {
		log.Printf("No records to insert into %q.", table)
		return 0, nil
	}

	rows := make([][]any, len(recs))
	for i, rec := range recs {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = rec[c]
		}
		rows[i] = row
	}

	start := time.Now()
	n, err := repo.CopyFrom(ctx, table, columns, rows)
	if err != nil {
		log.Printf("Error: insert into %q: %v", table, err)
		return n, fmt.Errorf("insert into %q: %w", table, err)
	}

	elapsed := time.Since(start)
	rps := float64(0)
	if elapsed > 0 {
		rps = float64(n) / elapsed.Seconds()
	}
	log.Printf("Inserted %d rows into %q (elapsed=%s rps=%.0f).",
		n, table, elapsed.Truncate(time.Millisecond), rps)

	return n, nil
}
