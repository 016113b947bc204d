package checkout

import (
	"time"

	"github.com/angelmondragon/bookshop-backend/internal/cart"
	"github.com/angelmondragon/bookshop-backend/internal/catalog"
)

// LineDTO is a priced cart line.
type LineDTO struct {
	Product   catalog.ProductDTO `json:"product"`
	Quantity  int                `json:"quantity"`
	LineTotal string             `json:"line_total"`
}

// SummaryDTO is the checkout summary payload.
type SummaryDTO struct {
	Lines       []LineDTO `json:"lines"`
	ItemCount   int       `json:"item_count"`
	Subtotal    string    `json:"subtotal"`
	Shipping    string    `json:"shipping"`
	Tax         string    `json:"tax"`
	Total       string    `json:"total"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
}

// ConfirmationDTO is returned by a completed checkout.
type ConfirmationDTO struct {
	OrderNumber string     `json:"order_number"`
	Reference   string     `json:"reference,omitempty"`
	Email       string     `json:"email,omitempty"`
	Summary     SummaryDTO `json:"summary"`
	CompletedAt time.Time  `json:"completed_at"`
}

// LinesDTO converts cart lines into their payload form.
func LinesDTO(lines []cart.Line) []LineDTO {
	out := make([]LineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineDTO{
			Product:   catalog.SummaryDTO(l.Product),
			Quantity:  l.Quantity,
			LineTotal: l.Total().StringFixed(2),
		})
	}
	return out
}

func (s Summary) DTO() SummaryDTO {
	return SummaryDTO{
		Lines:       LinesDTO(s.Lines),
		ItemCount:   s.ItemCount,
		Subtotal:    s.Subtotal.StringFixed(2),
		Shipping:    s.Shipping.StringFixed(2),
		Tax:         s.Tax.StringFixed(2),
		Total:       s.Total.StringFixed(2),
		AmountMinor: s.AmountMinor,
		Currency:    s.Currency,
	}
}

func (c Confirmation) DTO() ConfirmationDTO {
	return ConfirmationDTO{
		OrderNumber: c.OrderNumber,
		Reference:   c.Reference,
		Email:       c.Email,
		Summary:     c.Summary.DTO(),
		CompletedAt: c.CompletedAt,
	}
}
