package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bookshop-backend/internal/cart"
	"github.com/angelmondragon/bookshop-backend/pkg/config"
	"github.com/angelmondragon/bookshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookshop-backend/pkg/errors"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
	"github.com/angelmondragon/bookshop-backend/pkg/metrics"
)

var hundred = decimal.NewFromInt(100)

// Cart is the part of cart.Store checkout depends on.
type Cart interface {
	Snapshot() cart.Snapshot
	Checkout(ctx context.Context) cart.Snapshot
}

// Summary is the order summary shown before payment.
type Summary struct {
	Lines       []cart.Line
	ItemCount   int
	Subtotal    decimal.Decimal
	Shipping    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	AmountMinor int64
	Currency    string
}

// Contact is the buyer information collected by the checkout form.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	ZipCode   string
	Country   string
}

// PaymentOutcome is what the payment widget reported back.
type PaymentOutcome struct {
	Status    enums.PaymentStatus
	Reference string
	Contact   Contact
}

// Confirmation is returned once a paid order has been handed off.
type Confirmation struct {
	OrderNumber string
	Reference   string
	Email       string
	Summary     Summary
	CompletedAt time.Time
}

// Options configures a Service.
type Options struct {
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
	Now     func() time.Time
	// OrderNumber overrides the generator, for tests.
	OrderNumber func() string
}

// Service prices carts and completes the hand-off to the payment processor.
type Service struct {
	shipping    decimal.Decimal
	taxRate     decimal.Decimal
	currency    enums.Currency
	logg        *logger.Logger
	metrics     *metrics.CartMetrics
	now         func() time.Time
	orderNumber func() string
}

// NewService parses pricing from cfg.
func NewService(cfg config.CheckoutConfig, opts Options) (*Service, error) {
	shipping, err := cfg.Shipping()
	if err != nil {
		return nil, err
	}
	taxRate, err := cfg.Tax()
	if err != nil {
		return nil, err
	}
	currency := enums.CurrencyUSD
	if strings.TrimSpace(cfg.Currency) != "" {
		if currency, err = enums.ParseCurrency(cfg.Currency); err != nil {
			return nil, err
		}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OrderNumber == nil {
		opts.OrderNumber = NewOrderNumber
	}
	return &Service{
		shipping:    shipping,
		taxRate:     taxRate,
		currency:    currency,
		logg:        opts.Logger,
		metrics:     opts.Metrics,
		now:         opts.Now,
		orderNumber: opts.OrderNumber,
	}, nil
}

// Summary prices the current cart. An empty cart has no shipping.
func (s *Service) Summary(c Cart) Summary {
	return s.price(c.Snapshot())
}

func (s *Service) price(snap cart.Snapshot) Summary {
	sum := Summary{
		Lines:     snap.Lines,
		ItemCount: snap.ItemCount,
		Subtotal:  snap.Subtotal,
		Shipping:  decimal.Zero,
		Tax:       snap.Subtotal.Mul(s.taxRate).Round(2),
		Currency:  s.currency.String(),
	}
	if !snap.IsEmpty() {
		sum.Shipping = s.shipping
	}
	sum.Total = sum.Subtotal.Add(sum.Shipping).Add(sum.Tax)
	sum.AmountMinor = sum.Total.Mul(hundred).Round(0).IntPart()
	return sum
}

// Complete clears the cart when the payment succeeded and confirms exactly
// the lines it cleared. Any other outcome leaves the cart untouched.
func (s *Service) Complete(ctx context.Context, c Cart, outcome PaymentOutcome) (Confirmation, error) {
	if !outcome.Status.IsValid() {
		return Confirmation{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
			WithDetails(map[string]any{"status": outcome.Status})
	}

	if c.Snapshot().IsEmpty() {
		return Confirmation{}, errEmptyCart()
	}

	s.metrics.IncCheckout(outcome.Status.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"payment_status":    outcome.Status.String(),
		"payment_reference": outcome.Reference,
	})

	if !outcome.Status.IsSuccess() {
		s.logg.Info(ctx, "checkout not completed; cart kept")
		return Confirmation{}, pkgerrors.New(pkgerrors.CodeStateConflict, "payment was not completed").
			WithDetails(map[string]any{"status": outcome.Status})
	}

	snap := c.Checkout(ctx)
	if snap.IsEmpty() {
		return Confirmation{}, errEmptyCart()
	}
	summary := s.price(snap)

	conf := Confirmation{
		OrderNumber: s.orderNumber(),
		Reference:   outcome.Reference,
		Email:       outcome.Contact.Email,
		Summary:     summary,
		CompletedAt: s.now().UTC(),
	}
	s.logg.Info(s.logg.WithField(ctx, "order_number", conf.OrderNumber), "checkout completed")
	return conf, nil
}

func errEmptyCart() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
}

// NewOrderNumber returns a display order number ORD-NNNNNN.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%d", 100000+rand.Intn(900000))
}
