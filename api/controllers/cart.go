package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bookshop-backend/api/middleware"
	"github.com/angelmondragon/bookshop-backend/api/responses"
	"github.com/angelmondragon/bookshop-backend/api/validators"
	"github.com/angelmondragon/bookshop-backend/internal/cart"
	"github.com/angelmondragon/bookshop-backend/internal/catalog"
	"github.com/angelmondragon/bookshop-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/bookshop-backend/pkg/errors"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
)

// CartProvider resolves the ready cart of a session.
type CartProvider interface {
	Get(ctx context.Context, sessionID string) (*cart.Store, error)
}

type cartResponse struct {
	Lines     []checkout.LineDTO `json:"lines"`
	ItemCount int                `json:"item_count"`
	Subtotal  string             `json:"subtotal"`
}

func newCartResponse(snap cart.Snapshot) cartResponse {
	return cartResponse{
		Lines:     checkout.LinesDTO(snap.Lines),
		ItemCount: snap.ItemCount,
		Subtotal:  snap.Subtotal.StringFixed(2),
	}
}

// Quantity limits mirror cart.MaxLineQuantity; the manager clamps merged
// lines to the same ceiling so PUT can always set what POST produced.
type addItemRequest struct {
	ProductID string `json:"product_id" validate:"omitempty,catalog_id"`
	Slug      string `json:"slug" validate:"omitempty,catalog_id"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=99"`
}

func sessionCart(r *http.Request, carts CartProvider) (*cart.Store, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing")
	}
	store, err := carts.Get(r.Context(), sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return store, nil
}

func productIDParam(r *http.Request) (catalog.ProductID, error) {
	id, err := catalog.ParseProductID(chi.URLParam(r, "productId"))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id").
			WithDetails(map[string]string{"productId": "must be a lowercase hyphenated identifier"})
	}
	return id, nil
}

// CartFetch returns the session cart.
func CartFetch(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Snapshot()))
	}
}

// CartAddItem adds a catalog product, merging into an existing line up to
// cart.MaxLineQuantity.
func CartAddItem(carts CartProvider, books Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.ProductID == "" && payload.Slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"product_id": "is required"}))
			return
		}

		var (
			product catalog.Product
			found   bool
		)
		if payload.ProductID != "" {
			product, found = books.GetProductByID(catalog.ProductID(payload.ProductID))
		} else {
			product, found = books.GetProductBySlug(catalog.Slug(payload.Slug))
		}
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "book not found"))
			return
		}

		quantity := cart.DefaultQuantity
		if payload.Quantity != nil {
			quantity = *payload.Quantity
		}

		store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, product.ID.String())
		}
		store.AddItem(ctx, product, quantity)
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(store.Snapshot()))
	}
}

// CartUpdateQuantity sets a line quantity; zero removes the line.
func CartUpdateQuantity(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.UpdateQuantity(r.Context(), id, *payload.Quantity)
		responses.WriteSuccess(w, newCartResponse(store.Snapshot()))
	}
}

// CartRemoveItem deletes a line. Unknown ids leave the cart unchanged.
func CartRemoveItem(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.RemoveItem(r.Context(), id)
		responses.WriteSuccess(w, newCartResponse(store.Snapshot()))
	}
}

// CartClear empties the session cart.
func CartClear(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.ClearCart(r.Context())
		responses.WriteSuccess(w, newCartResponse(store.Snapshot()))
	}
}
