package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bookshop-backend/api/controllers"
	"github.com/angelmondragon/bookshop-backend/internal/cart"
	"github.com/angelmondragon/bookshop-backend/internal/catalog"
	"github.com/angelmondragon/bookshop-backend/internal/checkout"
	"github.com/angelmondragon/bookshop-backend/internal/storage"
	"github.com/angelmondragon/bookshop-backend/pkg/cartsession"
	"github.com/angelmondragon/bookshop-backend/pkg/config"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
	"github.com/angelmondragon/bookshop-backend/pkg/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080", CORSOrigins: "http://localhost:3000"},
		Session: config.SessionConfig{
			Secret:     "router-secret",
			Issuer:     "bookshop",
			TTL:        time.Hour,
			CookieName: "cart_session",
		},
		Checkout:     config.CheckoutConfig{ShippingFlat: "4.99", TaxRate: "0.07", Currency: "USD"},
		FeatureFlags: config.FeatureFlagsConfig{Metrics: true},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := testConfig()

	books, err := catalog.Default()
	require.NoError(t, err)
	issuer, err := cartsession.NewIssuer(cfg.Session)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(reg)

	backend := storage.NewMemory()
	carts := cart.NewManager(storage.Factory(backend, storage.DefaultBaseKey), cart.ManagerOptions{Metrics: cartMetrics, MaxQuantity: cart.MaxLineQuantity})
	svc, err := checkout.NewService(cfg.Checkout, checkout.Options{Metrics: cartMetrics})
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(RouterParams{
		Config:   cfg,
		Logger:   logger.Nop(),
		Catalog:  books,
		Carts:    carts,
		Checkout: svc,
		Sessions: issuer,
		Ready:    map[string]controllers.Pinger{"cart_storage": backend},
		Gatherer: reg,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	}
}

func TestCartFlowAcrossRequests(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/cart/items", "application/json", strings.NewReader(`{"product_id":"book-1","quantity":2}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "cart_session" {
			session = c
		}
	}
	require.NotNil(t, session, "first request should start a cart session")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/checkout/summary", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data checkout.SummaryDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, 2, envelope.Data.ItemCount)
	assert.Equal(t, "54.00", envelope.Data.Subtotal)

	// a request without the cookie lands in a different, empty cart
	resp, err = http.Get(srv.URL + "/api/v1/cart")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"item_count":0`)
}

func TestBooksAreServedWithoutSession(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/books")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/cart/items", "application/json", bytes.NewBufferString(`{"slug":"teen-troubles-real-solutions"}`))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bookshop_cart_mutations_total")
	assert.Contains(t, string(body), "bookshop_cart_resident_sessions 1")
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/wishlist")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
