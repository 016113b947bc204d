package storage

import (
	"context"
	"fmt"

	"github.com/angelmondragon/bookshop-backend/pkg/config"
	"github.com/angelmondragon/bookshop-backend/pkg/db"
	"github.com/angelmondragon/bookshop-backend/pkg/enums"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
	"github.com/angelmondragon/bookshop-backend/pkg/migrate"
	redisclient "github.com/angelmondragon/bookshop-backend/pkg/redis"
)

// Opened is a ready backend plus the function releasing its connections.
type Opened struct {
	Backend Backend
	Driver  enums.StorageDriver
	Close   func() error
}

func noopClose() error { return nil }

// Open builds the backend selected by cfg.Cart.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Opened, error) {
	driver := cfg.Cart.StorageDriver
	ctx = logg.WithField(ctx, "storage_driver", driver.String())

	switch driver {
	case enums.StorageDriverMemory:
		logg.Warn(ctx, "cart storage is in-memory; carts are lost on restart")
		return &Opened{Backend: NewMemory(), Driver: driver, Close: noopClose}, nil

	case enums.StorageDriverFile:
		backend, err := NewFile(cfg.Cart.FileDir)
		if err != nil {
			return nil, err
		}
		logg.Info(logg.WithField(ctx, "dir", cfg.Cart.FileDir), "file cart storage ready")
		return &Opened{Backend: backend, Driver: driver, Close: noopClose}, nil

	case enums.StorageDriverRedis:
		client, err := redisclient.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("redis cart storage: %w", err)
		}
		return &Opened{Backend: NewRedis(client, cfg.Redis.CartTTL), Driver: driver, Close: client.Close}, nil

	case enums.StorageDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("sql cart storage: %w", err)
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("sql cart storage: %w", err)
		}
		return &Opened{Backend: NewSQL(client), Driver: driver, Close: client.Close}, nil
	}

	return nil, fmt.Errorf("unsupported cart storage driver %q", driver)
}
