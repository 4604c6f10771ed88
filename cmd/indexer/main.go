package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/guideforseniors/backend/internal/adapters/database"
	"github.com/guideforseniors/backend/internal/adapters/search"
	"github.com/guideforseniors/backend/internal/application/services"
	"github.com/guideforseniors/backend/internal/domain/repositories"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/postgres"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/typesense"
	"github.com/guideforseniors/backend/internal/infrastructure/observability"
	"github.com/guideforseniors/backend/pkg/config"
)

func main() {
	_ = godotenv.Load()

	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the existing search collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	observability.InitLogger("guideforseniors-indexer", os.Getenv("APP_ENV"))

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Str("interval", intervalValue).Err(err).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("interval", interval).Msg("reindex complete, waiting for next run")

		select {
		case <-ctx.Done():
			log.Info().Msg("indexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)
	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Msg("resetting communities collection")
		if err := adapter.Reset(ctx); err != nil {
			return err
		}
	} else if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	communityRepo := database.NewCommunityAdapter(pgClient)
	communities, err := communityRepo.List(ctx, repositories.CommunityFilter{})
	if err != nil {
		return err
	}

	// Only admission-ready records are searchable on the site.
	quality := services.NewCommunityQualityService()

	indexed := 0
	for _, community := range communities {
		if !quality.IsAdmissionReady(community) {
			continue
		}
		if err := adapter.Index(ctx, community); err != nil {
			log.Warn().Str("id", community.ID).Err(err).Msg("failed to index community")
			continue
		}
		indexed++
	}

	log.Info().Int("indexed", indexed).Int("total", len(communities)).Msg("reindex finished")
	return nil
}
