package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed books.json
var booksJSON []byte

// Books returns the built-in catalog of the store.
func Books() ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(booksJSON, &products); err != nil {
		return nil, fmt.Errorf("decoding built-in catalog: %w", err)
	}
	return products, nil
}

// Default builds the Static catalog from Books.
func Default() (*Static, error) {
	products, err := Books()
	if err != nil {
		return nil, err
	}
	return NewStatic(products)
}
