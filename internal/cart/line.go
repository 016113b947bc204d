package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bookshop-backend/internal/catalog"
	"github.com/angelmondragon/bookshop-backend/pkg/enums"
)

// DefaultQuantity is used by callers that add a product without naming a quantity.
const DefaultQuantity = 1

// MaxLineQuantity is the per-line ceiling the HTTP surface accepts and the
// API wires into ManagerOptions.MaxQuantity.
const MaxLineQuantity = 99

// Line is one product in the cart. Quantity is always >= 1.
type Line struct {
	Product  catalog.Product
	Quantity int
}

// Total is price x quantity.
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a consistent read of the cart taken under one lock.
type Snapshot struct {
	Lines     []Line
	ItemCount int
	Subtotal  decimal.Decimal
	Lifecycle enums.CartLifecycle
}

// IsEmpty reports whether the snapshot has no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

func itemCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{Product: l.Product.Clone(), Quantity: l.Quantity}
	}
	return out
}

func indexOf(lines []Line, id catalog.ProductID) int {
	for i, l := range lines {
		if l.Product.ID == id {
			return i
		}
	}
	return -1
}

// storable reports whether p carries the two fields the cart relies on.
// Everything else about a product is opaque to the cart.
func storable(p catalog.Product) bool {
	return p.ID.IsValid() && !p.Price.IsNegative()
}
