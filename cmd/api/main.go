package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/polaris-studio/booking-backend/internal/adapters/cache"
	"github.com/polaris-studio/booking-backend/internal/adapters/database"
	"github.com/polaris-studio/booking-backend/internal/api/handlers"
	"github.com/polaris-studio/booking-backend/internal/api/middleware"
	"github.com/polaris-studio/booking-backend/internal/api/routes"
	"github.com/polaris-studio/booking-backend/internal/application/services"
	"github.com/polaris-studio/booking-backend/internal/domain/providers"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/clients/postgres"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/clients/redis"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/observability"
	"github.com/polaris-studio/booking-backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client. The application works without caching.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Initialize adapters. The schedule tables are read on every admission
	// decision, so they get a caching layer when Redis is available.
	userAdapter := database.NewUserAdapter(pgClient)
	sessionAdapter := database.NewSessionAdapter(pgClient)
	serviceAdapter := database.NewServiceAdapter(pgClient)
	bookingAdapter := database.NewBookingAdapter(pgClient)

	var hourRepo repositories.BusinessHourRepository = database.NewBusinessHourAdapter(pgClient)
	var blockedRepo repositories.BlockedDateRepository = database.NewBlockedDateAdapter(pgClient)
	if cacheProvider != nil {
		hourRepo = database.NewCachedBusinessHourAdapter(hourRepo, cacheProvider, metrics)
		blockedRepo = database.NewCachedBlockedDateAdapter(blockedRepo, cacheProvider, metrics)
	}

	// Initialize services
	authService := services.NewAuthService(sessionAdapter, userAdapter, cfg.Session.MaxDuration, cfg.Session.RefreshInterval)
	bookingService := services.NewBookingService(bookingAdapter, serviceAdapter, hourRepo, blockedRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Session)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	serviceHandler := handlers.NewServiceHandler(serviceAdapter)
	businessHourHandler := handlers.NewBusinessHourHandler(hourRepo)
	blockedDateHandler := handlers.NewBlockedDateHandler(blockedRepo)

	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.Session.CookieName)

	// Set up router
	router := routes.NewRouter(
		authHandler,
		bookingHandler,
		serviceHandler,
		businessHourHandler,
		blockedDateHandler,
		authMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
