package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/article-cms-api/internal/api"
	"github.com/article-cms-api/internal/auth"
	"github.com/article-cms-api/internal/cache"
	"github.com/article-cms-api/internal/config"
	"github.com/article-cms-api/internal/database"
	"github.com/article-cms-api/internal/metrics"
	"github.com/article-cms-api/internal/repository"
	"github.com/article-cms-api/internal/service"
	"github.com/article-cms-api/internal/storage"
	"github.com/article-cms-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	migrateDown := flag.Bool("migrate-down", false, "roll back the last migration and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Article CMS API server...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if *migrateDown {
		if err := db.MigrateDown(cfg.Server.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migration")
		}
		return
	}

	// Run migrations
	if err := db.RunMigrations(cfg.Server.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize blob storage
	blobDB, err := storage.OpenBadger(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open blob storage")
	}
	defer blobDB.Close()
	store := storage.NewBadgerStore(blobDB, cfg.Storage.Bucket, cfg.Storage.PublicURL, log)

	m := metrics.New(prometheus.DefaultRegisterer)

	deps := service.Dependencies{
		Store:    store,
		Identity: auth.ContextIdentity{},
		Metrics:  m,
	}

	// Listing cache is optional
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("Listing cache disabled")
		} else {
			summaries := cache.NewSummaryCache(rdb, cfg.Redis.TTL)
			defer summaries.Close()
			deps.Cache = summaries
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Listing cache enabled")
		}
	}

	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, every bearer token will be rejected")
	}
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Initialize services
	services := service.NewServices(repos, deps, cfg, log)

	// Initialize router
	router := api.NewRouter(services, api.Deps{
		Verifier: verifier,
		Store:    store,
		Health:   db,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
	}, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}
