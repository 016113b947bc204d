package storage

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/bookshop-backend/internal/cart"
	redisclient "github.com/angelmondragon/bookshop-backend/pkg/redis"
)

// Redis stores snapshots as plain string values under namespaced keys.
type Redis struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedis wraps client. A zero ttl keeps snapshots until overwritten.
func NewRedis(client *redisclient.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.client.CartKey(key))
	if errors.Is(err, redisclient.ErrNil) {
		return nil, cart.ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Redis) Put(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, r.client.CartKey(key), data, r.ttl)
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
