package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var identRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ProductID is the merge key of cart lines.
type ProductID string

// ParseProductID trims and validates a product identifier.
func ParseProductID(raw string) (ProductID, error) {
	id := ProductID(strings.TrimSpace(raw))
	if !id.IsValid() {
		return "", fmt.Errorf("invalid product id %q", raw)
	}
	return id, nil
}

func (id ProductID) String() string {
	return string(id)
}

// IsValid reports whether id is non-empty and made of lower-case slug characters.
func (id ProductID) IsValid() bool {
	return identRe.MatchString(string(id))
}

// Slug is the URL-safe handle of a product detail page.
type Slug string

// ParseSlug trims, lower-cases and validates a slug.
func ParseSlug(raw string) (Slug, error) {
	s := Slug(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid slug %q", raw)
	}
	return s, nil
}

func (s Slug) String() string {
	return string(s)
}

func (s Slug) IsValid() bool {
	return identRe.MatchString(string(s))
}

// Review is a reader review shown on the detail page.
type Review struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Product is a catalog book. The cart only relies on ID and Price.
type Product struct {
	ID              ProductID       `json:"id"`
	Title           string          `json:"title"`
	Slug            Slug            `json:"slug"`
	Price           decimal.Decimal `json:"price"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	CoverImage      string          `json:"cover_image"`
	Description     string          `json:"description"`
	LongDescription string          `json:"long_description"`
	Rating          int             `json:"rating"`
	ReviewCount     int             `json:"review_count"`
	Badge           string          `json:"badge"`
	Author          string          `json:"author"`
	PublishDate     string          `json:"publish_date"`
	Pages           int             `json:"pages"`
	Language        string          `json:"language"`
	ISBN            string          `json:"isbn"`
	Categories      []string        `json:"categories"`
	TableOfContents []string        `json:"table_of_contents"`
	Reviews         []Review        `json:"reviews"`
}

// Validate checks the fields the cart and catalog depend on.
func (p Product) Validate() error {
	if !p.ID.IsValid() {
		return fmt.Errorf("invalid product id %q", p.ID)
	}
	if !p.Slug.IsValid() {
		return fmt.Errorf("product %s: invalid slug %q", p.ID, p.Slug)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %s: negative price %s", p.ID, p.Price)
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (p Product) Clone() Product {
	out := p
	out.Categories = append([]string(nil), p.Categories...)
	out.TableOfContents = append([]string(nil), p.TableOfContents...)
	out.Reviews = append([]Review(nil), p.Reviews...)
	return out
}
