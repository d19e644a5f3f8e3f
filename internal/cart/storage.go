package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNoSnapshot is returned by Storage.Load when nothing has been persisted
// yet. Callers treat it the same as a corrupt snapshot: start empty.
var ErrNoSnapshot = errors.New("no cart snapshot")

// Storage persists the full cart snapshot. Save replaces whatever was stored
// before; partial updates are not part of the contract.
type Storage interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
