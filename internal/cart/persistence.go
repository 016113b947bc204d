package cart

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Persistence.Load when nothing was saved yet.
var ErrNoSnapshot = errors.New("no cart snapshot")

// Persistence is one durable slot holding a session's encoded cart.
type Persistence interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
