// Package datasource abstracts where an extract's raw bytes come from. The
// pipeline depends only on Source so tests can feed it in-memory readers.
package datasource

import (
	"context"
	"io"
)

// Source yields a readable stream of one extract.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
