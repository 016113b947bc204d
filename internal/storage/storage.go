// Package storage provides the durable media a cart session is saved to.
// Every backend is a plain key-value slot; a session owns exactly one key.
package storage

import (
	"context"
	"strings"

	"github.com/angelmondragon/bookshop-backend/internal/cart"
)

// DefaultBaseKey is the well-known key the storefront saves its cart under.
const DefaultBaseKey = "cart"

// Backend stores opaque snapshots by key. Get returns cart.ErrNoSnapshot for
// a key that was never written.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Ping(ctx context.Context) error
}

// Key scopes base to one session.
func Key(base, sessionID string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultBaseKey
	}
	return base + ":" + strings.TrimSpace(sessionID)
}

// Bind fixes the key of a backend, yielding one session's slot.
func Bind(b Backend, key string) cart.Persistence {
	return &binding{backend: b, key: key}
}

// Factory returns a cart.PersistenceFactory that binds each session to Key(base, id).
func Factory(b Backend, base string) cart.PersistenceFactory {
	return func(sessionID string) cart.Persistence {
		return Bind(b, Key(base, sessionID))
	}
}

type binding struct {
	backend Backend
	key     string
}

func (b *binding) Load(ctx context.Context) ([]byte, error) {
	return b.backend.Get(ctx, b.key)
}

func (b *binding) Save(ctx context.Context, data []byte) error {
	return b.backend.Put(ctx, b.key, data)
}
