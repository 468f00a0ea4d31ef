package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/NomadCrew/portfolio-backend/db"
	"github.com/NomadCrew/portfolio-backend/handlers"
	"github.com/NomadCrew/portfolio-backend/internal/session"
	"github.com/NomadCrew/portfolio-backend/internal/store"
	"github.com/NomadCrew/portfolio-backend/internal/store/postgres"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/NomadCrew/portfolio-backend/models/portfolio"
	"github.com/NomadCrew/portfolio-backend/router"
	"github.com/NomadCrew/portfolio-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title Portfolio Backend API
// @version 1.0
// @description Portfolio content and contact form API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfigFromFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog, err := loadCatalog(cfg.Portfolio.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load portfolio catalog: %v", err)
	}

	ctx := context.Background()
	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var archive store.MessageArchive
	var dbPinger services.DatabasePinger
	if cfg.Database.Enabled {
		pool, err := connectArchive(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("Failed to set up message archive: %v", err)
		}
		defer pool.Close()
		messageStore := postgres.NewMessageStore(pool)
		archive = messageStore
		dbPinger = messageStore
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewDeliveryMetrics(registry)

	deliverer, identity, err := services.NewDeliverer(cfg, metrics)
	if err != nil {
		log.Fatalf("Failed to initialize contact delivery: %v", err)
	}
	var archivePool *services.WorkerPool
	if archive != nil {
		archivePool = services.NewWorkerPool(cfg.Archive, registry)
		archivePool.Start()
		deliverer = services.NewArchivingDeliverer(deliverer, archive, cfg.Delivery.Provider, archivePool)
	}
	if !cfg.DeliveryConfigured() {
		log.Warnw("Delivery credentials are incomplete, contact submissions will be refused",
			"provider", cfg.Delivery.Provider)
	}

	// Services
	guard := services.NewSubmitGuard(redisClient, time.Duration(cfg.Contact.SubmitLockSeconds)*time.Second)
	contactService := services.NewContactService(deliverer, identity, contact.DefaultMessages(cfg.Contact.OwnerEmail), guard)
	rateLimitService := services.NewRateLimitService(redisClient)
	healthService := services.NewHealthService(dbPinger, redisClient, cfg.Delivery.Provider, cfg.DeliveryConfigured(), cfg.Server.Version)

	sessions := session.NewStore(func() *contact.Form { return contactService.NewForm() }, session.Config{
		TTL:             time.Duration(cfg.Contact.SessionTTLMinutes) * time.Minute,
		JanitorInterval: time.Minute,
		MaxSessions:     cfg.Contact.MaxSessions,
	})
	defer sessions.Close()

	// Handlers
	deps := router.Dependencies{
		Config:           cfg,
		ContactHandler:   handlers.NewContactHandler(contactService, sessions),
		PortfolioHandler: handlers.NewPortfolioHandler(catalog),
		HealthHandler:    handlers.NewHealthHandler(healthService),
		RateLimiter:      rateLimitService,
		Gatherer:         registry,
		Logger:           log,
	}
	if archive != nil {
		deps.AdminHandler = handlers.NewAdminHandler(archive)
	}
	r := router.SetupRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Duration(cfg.Delivery.TimeoutSeconds+15) * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"delivery_provider", cfg.Delivery.Provider,
			"archive_enabled", archive != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	if archivePool != nil {
		poolCtx, poolCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Archive.ShutdownTimeoutSeconds)*time.Second)
		if err := archivePool.Shutdown(poolCtx); err != nil {
			log.Warnw("Archive writes still pending at shutdown", "error", err)
		}
		poolCancel()
	}
	log.Info("Server stopped")
}

func loadCatalog(path string) (*portfolio.Catalog, error) {
	if path == "" {
		return portfolio.Default()
	}
	return portfolio.Load(path)
}

// connectRedis returns nil when Redis cannot be reached; rate limits and
// submit locks then run in-process.
func connectRedis(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) *redis.Client {
	client := redis.NewClient(config.ConfigureRedisOptions(&cfg.Redis))
	if err := config.TestRedisConnection(ctx, client, 3, time.Second); err != nil {
		log.Warnw("Redis unavailable, using in-process rate limiting", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

func connectArchive(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	if err := db.RunMigrations(cfg.URL()); err != nil {
		return nil, err
	}
	poolConfig, err := config.ConfigurePostgresPool(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
