package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/bookshop-backend/api/controllers"
	"github.com/angelmondragon/bookshop-backend/api/middleware"
	"github.com/angelmondragon/bookshop-backend/pkg/cartsession"
	"github.com/angelmondragon/bookshop-backend/pkg/config"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
)

// RouterParams carries the services mounted by NewRouter.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Catalog  controllers.Catalog
	Carts    controllers.CartProvider
	Checkout controllers.CheckoutService
	Sessions *cartsession.Issuer
	// Ready lists the dependencies pinged by /health/ready.
	Ready map[string]controllers.Pinger
	// Gatherer backs /metrics; nil leaves the endpoint unmounted.
	Gatherer prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Ready))
	})

	if p.Gatherer != nil && cfg.FeatureFlags.Metrics {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/books", func(r chi.Router) {
			r.Get("/", controllers.BooksList(p.Catalog))
			r.Get("/{slug}", controllers.BookDetail(p.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(p.Sessions, cfg.Session, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(p.Carts, logg))
				r.Delete("/", controllers.CartClear(p.Carts, logg))
				r.Post("/items", controllers.CartAddItem(p.Carts, p.Catalog, logg))
				r.Put("/items/{productId}", controllers.CartUpdateQuantity(p.Carts, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(p.Carts, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/summary", controllers.CheckoutSummary(p.Carts, p.Checkout, logg))
				r.Post("/complete", controllers.CheckoutComplete(p.Carts, p.Checkout, logg))
			})
		})
	})

	return r
}
