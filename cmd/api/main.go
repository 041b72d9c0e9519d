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

	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/routes"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/basket"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/catalog"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/config"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/db"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/env"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/logger"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/metrics"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/migrate"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	products, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "products", products.Len()), "catalog loaded")

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	basketMetrics := metrics.NewBasketMetrics(registry)

	engine := pricing.NewEngine()
	store := basket.NewRepository(dbClient.DB(), cfg.Basket.StoreTimeout)

	cache, err := basket.NewLocalCache(redisClient, cfg.Basket.AnonymousTTL)
	if err != nil {
		logg.Error(ctx, "failed to create local basket cache", err)
		os.Exit(1)
	}

	merger, err := basket.NewMergeCoordinator(basket.MergeCoordinatorParams{
		Products: products,
		Engine:   engine,
		Store:    store,
		Cache:    cache,
		Locks:    redisClient,
		Metrics:  basketMetrics,
		Logger:   logg,
		Options: basket.MergeOptions{
			Concurrency:  cfg.Basket.MergeConcurrency,
			LockTTL:      cfg.Basket.MergeLockTTL,
			MaxRetries:   cfg.Basket.MergeMaxRetries,
			RetryBase:    cfg.Basket.MergeRetryBase,
			StoreTimeout: store.Timeout(),
		},
	})
	if err != nil {
		logg.Error(ctx, "failed to create merge coordinator", err)
		os.Exit(1)
	}

	basketService, err := basket.NewService(products, engine, store, cache, merger, basketMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create basket service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:       dbClient,
			Redis:    redisClient,
			Catalog:  products,
			Basket:   basketService,
			Gatherer: registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}
}
