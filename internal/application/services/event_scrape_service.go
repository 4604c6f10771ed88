package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/repositories"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/firecrawl"
)

const extractionPrompt = "Extract every upcoming event for seniors and caregivers from this page. " +
	"Include the title, description, start and end date/time, location name and link, and image URL when present."

// extractionSchema describes the structured shape requested from the
// extraction API.
var extractionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"events": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":         map[string]any{"type": "string"},
					"description":   map[string]any{"type": "string"},
					"start_date":    map[string]any{"type": "string"},
					"end_date":      map[string]any{"type": "string"},
					"location_name": map[string]any{"type": "string"},
					"location_url":  map[string]any{"type": "string"},
					"image_url":     map[string]any{"type": "string"},
				},
				"required": []string{"title", "start_date"},
			},
		},
	},
	"required": []string{"events"},
}

/// EventScrapeService runs the event ingestion batch: per-source fetch,
// extraction, normalization, idempotent save and retention sweep.
// Sources are processed strictly one at a time; an error in one source
// never aborts the others.
type EventScrapeService struct {
	extractor     firecrawl.Client
	eventRepo     repositories.EventRepository
	sources       []entities.EventSource
	sourceTimeout time.Duration
	retention     time.Duration
	clock         clockwork.Clock
}

// NewEventScrapeService creates the ingestion service. sourceTimeout
// bounds each source so one stalled page cannot hang the whole run.
func NewEventScrapeService(
	extractor firecrawl.Client,
	eventRepo repositories.EventRepository,
	sources []entities.EventSource,
	sourceTimeout time.Duration,
	retentionDays int,
) *EventScrapeService {
	if sourceTimeout <= 0 {
		sourceTimeout = 60 * time.Second
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &EventScrapeService{
		extractor:     extractor,
		eventRepo:     eventRepo,
		sources:       sources,
		sourceTimeout: sourceTimeout,
		retention:     time.Duration(retentionDays) * 24 * time.Hour,
		clock:         clockwork.NewRealClock(),
	}
}

// Run executes one full ingestion pass. It always returns a result and
// never an error: source failures land in result.Errors and flip
// result.Success, storage-level skips only show up in the counters.
func (s *EventScrapeService) Run(ctx context.Context) *entities.ScrapeResult {
	result := &entities.ScrapeResult{Errors: []string{}}

	var collected []*entities.Event
	for _, source := range s.sources {
		events, err := s.scrapeSource(ctx, source)
		if err != nil {
			log.Warn().Str("source", source.Name).Err(err).Msg("event source failed")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", source.Name, err))
			continue
		}
		log.Info().Str("source", source.Name).Int("events", len(events)).Msg("source scraped")
		collected = append(collected, events...)
	}

	result.TotalEvents = len(collected)
	result.Inserted, result.Skipped = s.SaveEvents(ctx, collected)
	result.Cleaned = s.CleanupOldEvents(ctx)
	result.Success = len(result.Errors) == 0

	return result
}

// scrapeSource obtains normalized events for one source: structured
// extraction first, markdown-heading fallback second.
func (s *EventScrapeService) scrapeSource(ctx context.Context, source entities.EventSource) ([]*entities.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	candidates, extractErr := s.extractStructured(ctx, source)
	if extractErr != nil || len(candidates) == 0 {
		if extractErr != nil {
			log.Debug().Str("source", source.Name).Err(extractErr).Msg("structured extraction failed, trying markdown fallback")
		}
		var fallbackErr error
		candidates, fallbackErr = s.extractFromMarkdown(ctx, source)
		if fallbackErr != nil {
			if extractErr != nil {
				return nil, fmt.Errorf("extract: %v; scrape fallback: %w", extractErr, fallbackErr)
			}
			return nil, fallbackErr
		}
	}

	events := make([]*entities.Event, 0, len(candidates))
	for _, candidate := range candidates {
		event, ok := normalizeEvent(candidate, source)
		if !ok {
			// Unparseable dates shrink the result set; they are not
			// source errors.
			log.Debug().Str("source", source.Name).Str("title", candidate.Title).Msg("dropping candidate with unparseable date")
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (s *EventScrapeService) extractStructured(ctx context.Context, source entities.EventSource) ([]firecrawl.ExtractedEvent, error) {
	resp, err := s.extractor.Extract(ctx, firecrawl.ExtractRequest{
		URLs:   []string{source.URL},
		Prompt: extractionPrompt,
		Schema: extractionSchema,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.Events, nil
}

func (s *EventScrapeService) extractFromMarkdown(ctx context.Context, source entities.EventSource) ([]firecrawl.ExtractedEvent, error) {
	resp, err := s.extractor.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:             source.URL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
		WaitFor:         2000,
	})
	if err != nil {
		return nil, err
	}
	return parseMarkdownEvents(resp.Data.Markdown, source), nil
}

// SaveEvents upserts the normalized events. Duplicate (title,
// start_date) rows count as skipped; other storage errors are logged
// and also counted as skipped so a transient hiccup never aborts the
// loop.
func (s *EventScrapeService) SaveEvents(ctx context.Context, events []*entities.Event) (inserted, skipped int) {
	for _, event := range events {
		event.UpdatedAt = s.clock.Now()

		schemaDoc, err := BuildEventSchema(event)
		if err == nil {
			event.SchemaJSON = schemaDoc
		}

		ok, err := s.eventRepo.Upsert(ctx, event)
		switch {
		case err != nil:
			log.Warn().Str("title", event.Title).Err(err).Msg("event upsert failed")
			skipped++
		case ok:
			inserted++
		default:
			skipped++
		}
	}
	return inserted, skipped
}

// CleanupOldEvents deletes events whose end date fell out of the
// retention window. Events without an end date are never swept; a
// missing end date means "still relevant". Storage errors are logged
// and reported as zero removals.
func (s *EventScrapeService) CleanupOldEvents(ctx context.Context) int {
	cutoff := s.clock.Now().Add(-s.retention)
	count, err := s.eventRepo.DeleteEndedBefore(ctx, cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("event retention sweep failed")
		return 0
	}
	return count
}
