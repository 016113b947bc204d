package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/bookshop-backend/api/controllers"
	"github.com/angelmondragon/bookshop-backend/api/routes"
	"github.com/angelmondragon/bookshop-backend/internal/cart"
	"github.com/angelmondragon/bookshop-backend/internal/catalog"
	"github.com/angelmondragon/bookshop-backend/internal/checkout"
	"github.com/angelmondragon/bookshop-backend/internal/storage"
	"github.com/angelmondragon/bookshop-backend/pkg/cartsession"
	"github.com/angelmondragon/bookshop-backend/pkg/config"
	"github.com/angelmondragon/bookshop-backend/pkg/instance"
	"github.com/angelmondragon/bookshop-backend/pkg/logger"
	"github.com/angelmondragon/bookshop-backend/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opened, err := storage.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open cart storage", err)
		os.Exit(1)
	}

	books, err := catalog.Default()
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	issuer, err := cartsession.NewIssuer(cfg.Session)
	if err != nil {
		logg.Error(ctx, "failed to create session issuer", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	carts := cart.NewManager(storage.Factory(opened.Backend, cfg.Cart.StorageKey), cart.ManagerOptions{
		Logger:        logg,
		Metrics:       cartMetrics,
		JobMetrics:    jobMetrics,
		SaveTimeout:   cfg.Cart.SaveTimeout,
		IdleTTL:       cfg.Cart.IdleTTL,
		SweepInterval: cfg.Cart.SweepInterval,
		MaxQuantity:   cart.MaxLineQuantity,
	})
	go carts.Run(ctx)

	checkoutSvc, err := checkout.NewService(cfg.Checkout, checkout.Options{
		Logger:  logg,
		Metrics: cartMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"instance":       instance.GetID(),
		"storage_driver": opened.Driver.String(),
		"catalog_size":   books.Len(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			Catalog:  books,
			Carts:    carts,
			Checkout: checkoutSvc,
			Sessions: issuer,
			Ready:    map[string]controllers.Pinger{"cart_storage": opened.Backend},
			Gatherer: registry,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			_ = opened.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "api server shutting down gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var errs error
	errs = multierr.Append(errs, server.Shutdown(shutdownCtx))
	errs = multierr.Append(errs, opened.Close())
	if errs != nil {
		logg.Error(shutdownCtx, "api server shutdown incomplete", errs)
		os.Exit(1)
	}
}
