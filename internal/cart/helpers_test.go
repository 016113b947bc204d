package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bookshop-backend/internal/catalog"
)

func product(id, price string) catalog.Product {
	return catalog.Product{
		ID:    catalog.ProductID(id),
		Slug:  catalog.Slug(id),
		Title: "Book " + id,
		Price: decimal.RequireFromString(price),
	}
}

type memoryPersistence struct {
	mu       sync.Mutex
	data     []byte
	has      bool
	loadErr  error
	saveErr  error
	loads    int
	saves    int
	onLoad   func()

	// observed inside the most recent Save
	saveCtxErr      error
	saveHadDeadline bool
}

func (m *memoryPersistence) Load(ctx context.Context) ([]byte, error) {
	if m.onLoad != nil {
		m.onLoad()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.has {
		return nil, ErrNoSnapshot
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memoryPersistence) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.saveCtxErr = ctx.Err()
	_, m.saveHadDeadline = ctx.Deadline()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = append([]byte(nil), data...)
	m.has = true
	return nil
}

func (m *memoryPersistence) stored() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...), m.has
}

var errBackendDown = errors.New("backend down")

func readyStore(p Persistence) *Store {
	s := NewStore(p, Options{})
	s.Restore(context.Background())
	return s
}
