package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bookshop-backend/api/middleware"
	"github.com/angelmondragon/bookshop-backend/internal/cart"
	"github.com/angelmondragon/bookshop-backend/internal/catalog"
	"github.com/angelmondragon/bookshop-backend/internal/checkout"
	"github.com/angelmondragon/bookshop-backend/internal/storage"
	"github.com/angelmondragon/bookshop-backend/pkg/config"
	"github.com/angelmondragon/bookshop-backend/pkg/types"
)

type harness struct {
	router  http.Handler
	backend *storage.Memory
	carts   *cart.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	books, err := catalog.Default()
	require.NoError(t, err)

	backend := storage.NewMemory()
	carts := cart.NewManager(storage.Factory(backend, storage.DefaultBaseKey), cart.ManagerOptions{MaxQuantity: cart.MaxLineQuantity})
	svc, err := checkout.NewService(config.CheckoutConfig{ShippingFlat: "4.99", TaxRate: "0.07", Currency: "usd"}, checkout.Options{
		OrderNumber: func() string { return "ORD-123456" },
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if id := req.Header.Get("X-Test-Session"); id != "" {
				req = req.WithContext(middleware.WithSessionID(req.Context(), id))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/books", BooksList(books))
	r.Get("/books/{slug}", BookDetail(books, nil))
	r.Get("/cart", CartFetch(carts, nil))
	r.Delete("/cart", CartClear(carts, nil))
	r.Post("/cart/items", CartAddItem(carts, books, nil))
	r.Put("/cart/items/{productId}", CartUpdateQuantity(carts, nil))
	r.Delete("/cart/items/{productId}", CartRemoveItem(carts, nil))
	r.Get("/checkout/summary", CheckoutSummary(carts, svc, nil))
	r.Post("/checkout/complete", CheckoutComplete(carts, svc, nil))

	return &harness{router: r, backend: backend, carts: carts}
}

func (h *harness) do(t *testing.T, session, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if session != "" {
		req.Header.Set("X-Test-Session", session)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Error
}
