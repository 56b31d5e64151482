package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/duedate"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize cart state store
	stateRepo, closeStore, err := newStateRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.TimeoutDuration(), logger)

	// Catalogue: backend first, then S3 and local snapshots when configured
	loaders := []catalog.Loader{catalog.NewBackendLoader(client, logger)}
	if cfg.S3.Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, continuing without S3 snapshots")
		} else {
			loaders = append(loaders, s3Loader)
		}
	}
	if cfg.Catalog.SnapshotPath != "" {
		loaders = append(loaders, catalog.NewFileLoader(cfg.Catalog.SnapshotPath, logger))
	}
	catalogLoader := catalog.NewFallbackLoader(logger, loaders...)

	loc := cfg.Server.Location()
	now := func() time.Time { return time.Now().In(loc) }

	// Initialize services
	catalogService := service.NewCatalogService(catalogLoader, cfg.Catalog.CacheDuration(), now, logger)
	cartService := service.NewCartService(cart.NewStore(stateRepo, logger), catalogService, cfg.Auth.PriceEditRoles, logger)
	dueDates := duedate.NewService(client, cfg.Backend.LicenseID, logger)
	orderService := service.NewOrderService(client, cartService, dueDates, now, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, orderHandler, []byte(cfg.Auth.JWTSecret), now, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Backend.TimeoutDuration() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("backend", cfg.Backend.BaseURL).
			Str("timezone", loc.String()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newStateRepository opens the configured cart state store.
func newStateRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.StateRepository, func(), error) {
	if cfg.Storage.Driver == "memory" {
		logger.Warn().Msg("using in-memory cart store, carts are lost on restart")
		return repository.NewMemoryStateRepository(), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to prepare state schema: %w", err)
	}

	return repository.NewPostgresStateRepository(pool, logger), pool.Close, nil
}
