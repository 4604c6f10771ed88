package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/guideforseniors/backend/internal/adapters/database"
	"github.com/guideforseniors/backend/internal/application/services"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/firecrawl"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/postgres"
	"github.com/guideforseniors/backend/internal/infrastructure/observability"
	"github.com/guideforseniors/backend/pkg/config"
)

// The scraper is a batch binary: one ingestion pass, a JSON summary on
// stdout, exit 0 on a clean run and 1 when any source failed. Logs go
// to stderr so the summary stays machine-readable.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("guideforseniors-scraper", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Scraper.RunDeadline)
	defer cancel()

	var metrics *observability.Metrics
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			if metrics, err = observability.InitMetrics(); err != nil {
				log.Warn().Err(err).Msg("failed to initialize metrics")
			}
		}
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	extractor := firecrawl.NewClient(cfg.Firecrawl.BaseURL, cfg.Firecrawl.APIKey)
	eventRepo := database.NewEventAdapter(pgClient)

	scrapeService := services.NewEventScrapeService(
		extractor,
		eventRepo,
		services.DefaultEventSources(),
		cfg.Scraper.SourceTimeout,
		cfg.Scraper.RetentionDays,
	)

	result := scrapeService.Run(ctx)

	if metrics != nil {
		observability.RecordScrapeMetrics(ctx, metrics, result.Inserted, result.Skipped, result.Cleaned, len(result.Errors))
	}

	log.Info().
		Bool("success", result.Success).
		Int("total_events", result.TotalEvents).
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Int("cleaned", result.Cleaned).
		Int("source_errors", len(result.Errors)).
		Msg("scrape run finished")

	encoder := json.NewEncoder(os.Stdout)
	if err := encoder.Encode(result); err != nil {
		log.Error().Err(err).Msg("failed to write run summary")
		os.Exit(1)
	}

	if !result.Success {
		os.Exit(1)
	}
}
