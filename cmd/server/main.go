package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/soapbox/bible-verses/internal/api/rest"
	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/config"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/logger"
	"github.com/soapbox/bible-verses/internal/lookup"
	"github.com/soapbox/bible-verses/internal/provider"
	"github.com/soapbox/bible-verses/internal/search"
)

func main() {
	envErr := config.LoadDotEnv()

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Init(true)
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Init(cfg.Log.Debug || cfg.Server.Mode == "debug")
	defer logger.Sync()

	if envErr != nil {
		logger.Warn("Failed to load .env", zap.Error(envErr))
	}

	logger.Info("Starting Bible verse API server",
		zap.Bool("postgres", database.IsPostgres(cfg.Database.URL)),
		zap.Int("port", cfg.Server.Port),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	// Open database with configured connection pool
	opts := database.DefaultOptions()
	opts.MaxOpenConns = cfg.Database.MaxOpenConns
	opts.MaxIdleConns = cfg.Database.MaxIdleConns
	opts.ConnMaxLifetime = cfg.Database.ConnMaxLifetime

	db, err := database.Open(cfg.Database.URL, opts)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	repo := database.NewRepository(db)
	var store database.RepositoryInterface = repo
	if cfg.Cache.Enabled {
		store = database.NewCachedRepository(repo, cfg.Cache.Size, cfg.Cache.TTL)
	}

	prov, err := provider.New(canon.Default())
	if err != nil {
		logger.Fatal("Failed to load verse provider", zap.Error(err))
	}

	svc := lookup.NewService(store, prov, search.NewEngine(db), lookup.Options{
		DefaultLimit:      cfg.Search.DefaultLimit,
		MaxResults:        cfg.Search.MaxResults,
		MinPopularity:     cfg.Random.MinPopularity,
		FallbackReference: cfg.Random.FallbackReference,
	})

	router := rest.SetupRouter(cfg, db, store, svc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started",
			zap.Int("port", cfg.Server.Port),
			zap.String("rest_api", fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port)),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
