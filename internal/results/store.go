package results

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrDuplicate is returned when appending a record whose key already exists.
var ErrDuplicate = eris.New("results: record already exists")

// Store defines the persistence interface for trial records. Records are
// append-only: they are never updated or removed.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Exists(ctx context.Context, k Key) (bool, error)
	Append(ctx context.Context, r Record) error
	Close() error
}
