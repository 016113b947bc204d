package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Static is an immutable, ordered in-memory catalog.
type Static struct {
	products []Product
	bySlug   map[Slug]int
	byID     map[ProductID]int
}

// NewStatic validates products and indexes them by slug and id.
func NewStatic(products []Product) (*Static, error) {
	s := &Static{
		products: make([]Product, 0, len(products)),
		bySlug:   make(map[Slug]int, len(products)),
		byID:     make(map[ProductID]int, len(products)),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if _, dup := s.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate product slug %q", p.Slug)
		}
		s.byID[p.ID] = len(s.products)
		s.bySlug[p.Slug] = len(s.products)
		s.products = append(s.products, p.Clone())
	}
	return s, nil
}

// ListProducts returns every product in catalog order.
func (s *Static) ListProducts() []Product {
	out := make([]Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// GetProductBySlug looks a product up by its slug.
func (s *Static) GetProductBySlug(slug Slug) (Product, bool) {
	idx, ok := s.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return s.products[idx].Clone(), true
}

// GetProductByID looks a product up by its id.
func (s *Static) GetProductByID(id ProductID) (Product, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[idx].Clone(), true
}

// Len is the number of products.
func (s *Static) Len() int {
	return len(s.products)
}
