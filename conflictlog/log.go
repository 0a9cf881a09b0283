// Package conflictlog persists conflicts so they can be reviewed after a
// merge.
package conflictlog

import (
	"context"
	"errors"

	"github.com/signadot/xmerge/conflict"
)

var ErrClosed = errors.New("conflict log is closed")

// Log is a durable store of conflicts. Appending a conflict whose ID is
// already present is not an error.
type Log interface {
	Append(ctx context.Context, c conflict.Conflict) error
	// Entries returns all conflicts in append order.
	Entries(ctx context.Context) ([]conflict.Conflict, error)
	Close() error
}
