package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bookshop-backend/api/responses"
	"github.com/angelmondragon/bookshop-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/bookshop-backend/pkg/errors"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
)

// Catalog is the read-only product source used by the book and cart handlers.
type Catalog interface {
	ListProducts() []catalog.Product
	GetProductBySlug(slug catalog.Slug) (catalog.Product, bool)
	GetProductByID(id catalog.ProductID) (catalog.Product, bool)
}

// BooksList returns the product grid.
func BooksList(books Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products := books.ListProducts()
		out := make([]catalog.ProductDTO, 0, len(products))
		for _, p := range products {
			out = append(out, catalog.SummaryDTO(p))
		}
		responses.WriteSuccess(w, out)
	}
}

// BookDetail returns one product by slug.
func BookDetail(books Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := catalog.ParseSlug(chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "book not found"))
			return
		}
		product, ok := books.GetProductBySlug(slug)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "book not found"))
			return
		}
		responses.WriteSuccess(w, catalog.DetailDTO(product))
	}
}
