package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nikolayk812/generic-cart/internal/catalog"
	"github.com/nikolayk812/generic-cart/internal/config"
	"github.com/nikolayk812/generic-cart/internal/domain"
	"github.com/nikolayk812/generic-cart/internal/httpapi"
	"github.com/nikolayk812/generic-cart/internal/metrics"
	"github.com/nikolayk812/generic-cart/internal/port"
	"github.com/nikolayk812/generic-cart/internal/repository"
	"github.com/nikolayk812/generic-cart/internal/repository/memory"
	"github.com/nikolayk812/generic-cart/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cart HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger.WithField("component", "cartd"))
	},
}

func serve(ctx context.Context, cfg config.Config, logger *log.Entry) error {
	repo, closeRepo, err := openRepository(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	registry, err := buildRegistry(cfg.Catalog)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetricsWithRegisterer(promRegistry)

	carts, err := service.NewCartService(repo, registry, cartMetrics, logger.WithField("layer", "service"))
	if err != nil {
		return fmt.Errorf("service.NewCartService: %w", err)
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		CartHandler: httpapi.NewCartHandler(carts),
		Gatherer:    promRegistry,
		Logger:      logger.WithField("layer", "http"),
	})

	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("http server listening on %s", cfg.HTTP.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping http server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.Shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("srv.ListenAndServe: %w", err)
	}
}

func openRepository(ctx context.Context, cfg config.StorageConfig, logger *log.Entry) (port.CartRepository, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("using in-memory storage, carts are lost on restart")
		return memory.NewCart(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	if cfg.AutoMigrate {
		migrator, err := repository.NewMigrator(pool)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.NewMigrator: %w", err)
		}
		if err := migrator.Up(ctx, 0); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrator.Up: %w", err)
		}
		logger.Info("schema migrations applied")
	}

	repo, err := repository.NewCart(pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("repository.NewCart: %w", err)
	}

	return repo, pool.Close, nil
}

// buildRegistry restricts carts to the configured kinds. Products live outside this
// service, so a reference resolves to itself.
func buildRegistry(cfg config.CatalogConfig) (*catalog.Registry, error) {
	if len(cfg.Kinds) == 0 {
		return nil, nil
	}

	registry := catalog.NewRegistry()
	for _, kind := range cfg.Kinds {
		loader := port.ProductLoaderFunc(func(_ context.Context, id int64) (domain.Product, error) {
			return domain.ProductRef{Kind: kind, ID: id}, nil
		})
		if err := registry.Register(kind, loader); err != nil {
			return nil, fmt.Errorf("registry.Register: %w", err)
		}
	}

	return registry, nil
}
