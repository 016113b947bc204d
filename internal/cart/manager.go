package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/angelmondragon/bookshop-backend/pkg/logger"
	"github.com/angelmondragon/bookshop-backend/pkg/metrics"
)

const sweepJob = "cart-idle-sweep"

// PersistenceFactory returns the durable slot for a session.
type PersistenceFactory func(sessionID string) Persistence

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Logger        *logger.Logger
	Metrics       *metrics.CartMetrics
	JobMetrics    *metrics.JobMetrics
	SaveTimeout   time.Duration
	IdleTTL       time.Duration
	SweepInterval time.Duration
	MaxQuantity   int
	Now           func() time.Time
}

type entry struct {
	store    *Store
	lastUsed time.Time
}

// Manager owns one Store per session and restores each exactly once.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*entry
	group  singleflight.Group

	newPersistence PersistenceFactory
	opts           ManagerOptions
}

// NewManager builds a Manager backed by factory.
func NewManager(factory PersistenceFactory, opts ManagerOptions) *Manager {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 5 * time.Minute
	}
	return &Manager{
		stores:         make(map[string]*entry),
		newPersistence: factory,
		opts:           opts,
	}
}

// Get returns the ready store of sessionID, creating and restoring it on first use.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Store, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	if store, ok := m.lookup(sessionID); ok {
		return store, nil
	}

	v, err, _ := m.group.Do(sessionID, func() (any, error) {
		if store, ok := m.lookup(sessionID); ok {
			return store, nil
		}

		var persist Persistence
		if m.newPersistence != nil {
			persist = m.newPersistence(sessionID)
		}
		store := NewStore(persist, Options{
			Logger:      m.opts.Logger,
			Metrics:     m.opts.Metrics,
			SaveTimeout: m.opts.SaveTimeout,
			SessionID:   sessionID,
			MaxQuantity: m.opts.MaxQuantity,
		})
		store.Restore(ctx)

		m.mu.Lock()
		m.stores[sessionID] = &entry{store: store, lastUsed: m.opts.Now()}
		n := len(m.stores)
		m.mu.Unlock()
		m.opts.Metrics.SetSessions(n)
		return store, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

func (m *Manager) lookup(sessionID string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.stores[sessionID]
	if !ok {
		return nil, false
	}
	e.lastUsed = m.opts.Now()
	return e.store, true
}

// Evict drops the in-memory store of sessionID. Persisted data is untouched.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	delete(m.stores, sessionID)
	n := len(m.stores)
	m.mu.Unlock()
	m.opts.Metrics.SetSessions(n)
}

// Sweep evicts stores idle for longer than IdleTTL and returns how many were dropped.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	evicted := 0
	for id, e := range m.stores {
		if now.Sub(e.lastUsed) > m.opts.IdleTTL {
			delete(m.stores, id)
			evicted++
		}
	}
	n := len(m.stores)
	m.mu.Unlock()
	m.opts.Metrics.SetSessions(n)
	return evicted
}

// Len is the number of resident stores.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Run sweeps idle stores every SweepInterval until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.opts.SweepInterval)
	defer ticker.Stop()

	ctx = m.opts.Logger.WithField(ctx, "job", sweepJob)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			evicted := m.Sweep(m.opts.Now())
			m.opts.JobMetrics.ObserveDuration(sweepJob, time.Since(start))
			m.opts.JobMetrics.IncSuccess(sweepJob)
			if evicted > 0 {
				m.opts.Logger.Debug(m.opts.Logger.WithField(ctx, "evicted", evicted), "idle carts evicted")
			}
		}
	}
}
