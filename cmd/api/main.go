package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/guideforseniors/backend/internal/adapters/cache"
	"github.com/guideforseniors/backend/internal/adapters/database"
	"github.com/guideforseniors/backend/internal/adapters/search"
	"github.com/guideforseniors/backend/internal/api/handlers"
	"github.com/guideforseniors/backend/internal/api/routes"
	"github.com/guideforseniors/backend/internal/application/services"
	"github.com/guideforseniors/backend/internal/domain/providers"
	"github.com/guideforseniors/backend/internal/domain/repositories"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/postgres"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/redis"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/typesense"
	"github.com/guideforseniors/backend/internal/infrastructure/observability"
	"github.com/guideforseniors/backend/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("guideforseniors-api", cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis and Typesense are optional; the API degrades to uncached
	// Postgres reads and disabled search when they are unavailable.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var searchRepo repositories.CommunitySearchRepository
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("typesense unavailable, search disabled")
	} else {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init typesense schema")
		}
		searchRepo = adapter
	}

	var communityRepo repositories.CommunityRepository = database.NewCommunityAdapter(pgClient)
	if cacheProvider != nil {
		communityRepo = database.NewCachedCommunityAdapter(communityRepo, cacheProvider)
	}
	eventRepo := database.NewEventAdapter(pgClient)
	inquiryRepo := database.NewInquiryAdapter(pgClient)

	qualityService := services.NewCommunityQualityService()
	rankingService := services.NewCommunityRankingService()

	communityHandler := handlers.NewCommunityHandler(communityRepo, searchRepo, qualityService, rankingService)
	eventHandler := handlers.NewEventHandler(eventRepo)
	inquiryHandler := handlers.NewInquiryHandler(inquiryRepo, cacheProvider)

	router := routes.NewRouter(communityHandler, eventHandler, inquiryHandler, metrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
