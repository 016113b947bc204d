package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bookshop-backend/internal/catalog"
	"github.com/angelmondragon/bookshop-backend/pkg/enums"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
	"github.com/angelmondragon/bookshop-backend/pkg/metrics"
)

// DefaultSaveTimeout bounds a single persistence read or write.
const DefaultSaveTimeout = 2 * time.Second

const (
	opAddItem        = "add_item"
	opRemoveItem     = "remove_item"
	opUpdateQuantity = "update_quantity"
	opClearCart      = "clear_cart"
	opCheckout       = "checkout"
)

// Options configures a Store. Zero values are usable.
type Options struct {
	Logger      *logger.Logger
	Metrics     *metrics.CartMetrics
	SaveTimeout time.Duration
	SessionID   string
	// MaxQuantity caps a merged line. Zero leaves lines unbounded.
	MaxQuantity int
}

// Store is the authoritative cart of one session.
//
// Mutators never return errors: persistence failures are logged and counted
// while the in-memory state stays authoritative. A mutation and its write run
// under the same lock, so writes reach the medium in mutation order.
type Store struct {
	mu        sync.Mutex
	lines     []Line
	lifecycle enums.CartLifecycle

	persist     Persistence
	logg        *logger.Logger
	metrics     *metrics.CartMetrics
	saveTimeout time.Duration
	sessionID   string
	maxQuantity int
}

// NewStore returns an empty store in the initializing state. Call Restore
// before mutating it.
func NewStore(persist Persistence, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultSaveTimeout
	}
	return &Store{
		lines:       []Line{},
		lifecycle:   enums.CartLifecycleInitializing,
		persist:     persist,
		logg:        opts.Logger,
		metrics:     opts.Metrics,
		saveTimeout: opts.SaveTimeout,
		sessionID:   opts.SessionID,
		maxQuantity: opts.MaxQuantity,
	}
}

// Restore loads the persisted cart once and marks the store ready. Missing,
// unreadable or corrupt data leaves the cart empty.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lifecycle.IsReady() {
		return
	}
	defer func() { s.lifecycle = enums.CartLifecycleReady }()

	ctx = s.logContext(ctx)
	if s.persist == nil {
		s.metrics.IncRestore(metrics.RestoreEmpty)
		return
	}

	loadCtx, cancel := s.ioContext(ctx)
	defer cancel()

	data, err := s.persist.Load(loadCtx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		s.metrics.IncRestore(metrics.RestoreEmpty)
		return
	case err != nil:
		s.logg.Error(ctx, "cart restore failed; starting empty", err)
		s.metrics.IncRestore(metrics.RestoreError)
		return
	}

	lines, err := Decode(data)
	if err != nil {
		s.logg.WarnErr(ctx, "discarding corrupt cart snapshot", err)
		s.metrics.IncRestore(metrics.RestoreCorrupt)
		return
	}
	s.lines = lines
	s.metrics.IncRestore(metrics.RestoreRestored)
}

// Lifecycle reports whether Restore has completed.
func (s *Store) Lifecycle() enums.CartLifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle
}

// AddItem merges quantity into the line for product, appending a new line
// when none exists. A non-positive quantity never creates a line and removes
// an existing one. With MaxQuantity set, the merged quantity is clamped to it.
func (s *Store) AddItem(ctx context.Context, product catalog.Product, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.logContext(ctx)
	if !s.ready(ctx, opAddItem) {
		return
	}
	if !storable(product) {
		s.logg.Warn(s.logg.WithProductID(ctx, product.ID.String()), "ignoring add of product without a valid id and price")
		return
	}

	idx := indexOf(s.lines, product.ID)
	switch {
	case quantity <= 0 && idx < 0:
		return
	case quantity <= 0:
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	case idx >= 0:
		s.lines[idx].Quantity = s.capped(s.lines[idx].Quantity + quantity)
	default:
		s.lines = append(s.lines, Line{Product: product.Clone(), Quantity: s.capped(quantity)})
	}
	s.commit(ctx, opAddItem)
}

// RemoveItem drops the line for id. Unknown ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, id catalog.ProductID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.logContext(ctx)
	if !s.ready(ctx, opRemoveItem) {
		return
	}
	idx := indexOf(s.lines, id)
	if idx < 0 {
		return
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	s.commit(ctx, opRemoveItem)
}

// UpdateQuantity sets the quantity of the line for id, removing it when
// quantity <= 0. Unknown ids are a no-op. Line order is preserved.
func (s *Store) UpdateQuantity(ctx context.Context, id catalog.ProductID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.logContext(ctx)
	if !s.ready(ctx, opUpdateQuantity) {
		return
	}
	idx := indexOf(s.lines, id)
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	} else {
		s.lines[idx].Quantity = quantity
	}
	s.commit(ctx, opUpdateQuantity)
}

// ClearCart empties the cart and persists the empty cart.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.logContext(ctx)
	if !s.ready(ctx, opClearCart) {
		return
	}
	s.lines = []Line{}
	s.commit(ctx, opClearCart)
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemCount(s.lines)
}

// Subtotal is the sum of price x quantity.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.lines)
}

// Lines returns a copy of the lines in first-add order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.lines)
}

// Snapshot returns lines and aggregates taken under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Lines:     copyLines(s.lines),
		ItemCount: itemCount(s.lines),
		Subtotal:  subtotal(s.lines),
		Lifecycle: s.lifecycle,
	}
}

// Checkout takes a snapshot and empties the cart under one lock, so a
// concurrent add lands either in the returned snapshot or in the emptied
// cart, never in neither. An empty cart is returned as is and not written.
func (s *Store) Checkout(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.logContext(ctx)
	snap := Snapshot{
		Lines:     copyLines(s.lines),
		ItemCount: itemCount(s.lines),
		Subtotal:  subtotal(s.lines),
		Lifecycle: s.lifecycle,
	}
	if !s.ready(ctx, opCheckout) || len(s.lines) == 0 {
		return snap
	}
	s.lines = []Line{}
	s.commit(ctx, opCheckout)
	return snap
}

// Reset drops in-memory state and returns the store to initializing.
// Persisted data is left alone. Intended for tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = []Line{}
	s.lifecycle = enums.CartLifecycleInitializing
}

func (s *Store) capped(quantity int) int {
	if s.maxQuantity > 0 && quantity > s.maxQuantity {
		return s.maxQuantity
	}
	return quantity
}

func (s *Store) ready(ctx context.Context, op string) bool {
	if s.lifecycle.IsReady() {
		return true
	}
	s.logg.Warn(s.logg.WithField(ctx, "op", op), "ignoring cart mutation before restore")
	return false
}

// commit records the mutation and writes the current lines. Caller holds mu.
func (s *Store) commit(ctx context.Context, op string) {
	s.metrics.IncMutation(op)
	if s.persist == nil {
		return
	}

	data, err := Encode(s.lines)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "op", op), "encoding cart snapshot", err)
		s.metrics.IncPersistFailure(op)
		return
	}

	saveCtx, cancel := s.ioContext(ctx)
	defer cancel()
	if err := s.persist.Save(saveCtx, data); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "op", op), "cart snapshot not persisted", err)
		s.metrics.IncPersistFailure(op)
	}
}

// ioContext ignores request cancellation and bounds the call by saveTimeout.
func (s *Store) ioContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
}

func (s *Store) logContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.sessionID == "" {
		return ctx
	}
	return s.logg.WithSessionID(ctx, s.sessionID)
}
