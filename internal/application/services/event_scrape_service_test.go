package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/firecrawl"
)

// fakeExtractor serves canned responses per source URL.
type fakeExtractor struct {
	extractByURL map[string]firecrawl.ExtractResponse
	extractErrs  map[string]error
	scrapeByURL  map[string]firecrawl.ScrapeResponse
	scrapeErrs   map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, req firecrawl.ExtractRequest) (*firecrawl.ExtractResponse, error) {
	url := req.URLs[0]
	if err, ok := f.extractErrs[url]; ok {
		return nil, err
	}
	resp := f.extractByURL[url]
	return &resp, nil
}

func (f *fakeExtractor) Scrape(_ context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	if err, ok := f.scrapeErrs[req.URL]; ok {
		return nil, err
	}
	resp := f.scrapeByURL[req.URL]
	return &resp, nil
}

// fakeEventRepo keeps rows in memory keyed on (title, start_date).
type fakeEventRepo struct {
	rows      map[string]*entities.Event
	upsertErr error
	deleteErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{rows: map[string]*entities.Event{}}
}

func eventKey(title string, start time.Time) string {
	return fmt.Sprintf("%s|%s", title, start.Format(time.RFC3339))
}

func (r *fakeEventRepo) Upsert(_ context.Context, event *entities.Event) (bool, error) {
	if r.upsertErr != nil {
		return false, r.upsertErr
	}
	key := eventKey(event.Title, event.StartDate)
	if _, exists := r.rows[key]; exists {
		return false, nil
	}
	r.rows[key] = event
	return true, nil
}

func (r *fakeEventRepo) DeleteEndedBefore(_ context.Context, cutoff time.Time) (int, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	deleted := 0
	for key, event := range r.rows {
		if event.EndDate != nil && event.EndDate.Before(cutoff) {
			delete(r.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeEventRepo) ListUpcoming(_ context.Context, now time.Time, limit int) ([]*entities.Event, error) {
	var out []*entities.Event
	for _, event := range r.rows {
		if !event.StartDate.Before(now) {
			out = append(out, event)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func extractedEvent(title, start string) firecrawl.ExtractedEvent {
	return firecrawl.ExtractedEvent{Title: title, StartDate: start}
}

func sourceNamed(name string) entities.EventSource {
	return entities.EventSource{
		Name:      name,
		URL:       "https://example.org/" + name,
		EventType: entities.EventTypeCommunity,
	}
}

func TestRun_HappyPath(t *testing.T) {
	src := sourceNamed("library")
	extractor := &fakeExtractor{
		extractByURL: map[string]firecrawl.ExtractResponse{
			src.URL: {Data: firecrawl.ExtractData{Events: []firecrawl.ExtractedEvent{
				extractedEvent("Coffee Social", "2026-09-15T10:00:00Z"),
				extractedEvent("Caregiver Circle", "2026-09-20T18:00:00Z"),
			}}},
		},
	}
	repo := newFakeEventRepo()

	svc := NewEventScrapeService(extractor, repo, []entities.EventSource{src}, time.Minute, 30)
	result := svc.Run(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalEvents)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)
	assert.Len(t, repo.rows, 2)
}

func TestRun_SourceFailureIsIsolated(t *testing.T) {
	good1 := sourceNamed("library")
	bad := sourceNamed("hospital")
	good2 := sourceNamed("senior-center")

	extractor := &fakeExtractor{
		extractByURL: map[string]firecrawl.ExtractResponse{
			good1.URL: {Data: firecrawl.ExtractData{Events: []firecrawl.ExtractedEvent{
				extractedEvent("Coffee Social", "2026-09-15T10:00:00Z"),
			}}},
			good2.URL: {Data: firecrawl.ExtractData{Events: []firecrawl.ExtractedEvent{
				extractedEvent("Bingo Night", "2026-09-18T19:00:00Z"),
			}}},
		},
		extractErrs: map[string]error{bad.URL: errors.New("upstream 502")},
		scrapeErrs:  map[string]error{bad.URL: errors.New("upstream 502")},
	}
	repo := newFakeEventRepo()

	svc := NewEventScrapeService(extractor, repo, []entities.EventSource{good1, bad, good2}, time.Minute, 30)
	result := svc.Run(context.Background())

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "hospital")
	assert.Equal(t, 2, result.TotalEvents)
	assert.Equal(t, 2, result.Inserted)
}

func TestRun_MarkdownFallback(t *testing.T) {
	src := sourceNamed("library")
	extractor := &fakeExtractor{
		extractErrs: map[string]error{src.URL: errors.New("extract unsupported")},
		scrapeByURL: map[string]firecrawl.ScrapeResponse{
			src.URL: {Data: firecrawl.ScrapeData{Markdown: "## Chair Yoga\n\nSeptember 15, 2026 at 10:00 AM\nGentle stretching for all levels.\n"}},
		},
	}
	repo := newFakeEventRepo()

	svc := NewEventScrapeService(extractor, repo, []entities.EventSource{src}, time.Minute, 30)
	result := svc.Run(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TotalEvents)
	assert.Equal(t, 1, result.Inserted)
}

func TestRun_EmptyExtractionFallsBack(t *testing.T) {
	src := sourceNamed("library")
	extractor := &fakeExtractor{
		extractByURL: map[string]firecrawl.ExtractResponse{src.URL: {}},
		scrapeByURL: map[string]firecrawl.ScrapeResponse{
			src.URL: {Data: firecrawl.ScrapeData{Markdown: "## Book Club\n\nOctober 1, 2026\n"}},
		},
	}
	repo := newFakeEventRepo()

	svc := NewEventScrapeService(extractor, repo, []entities.EventSource{src}, time.Minute, 30)
	result := svc.Run(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Inserted)
}

func TestSaveEvents_Idempotent(t *testing.T) {
	src := sourceNamed("library")
	extractor := &fakeExtractor{
		extractByURL: map[string]firecrawl.ExtractResponse{
			src.URL: {Data: firecrawl.ExtractData{Events: []firecrawl.ExtractedEvent{
				extractedEvent("Coffee Social", "2026-09-15T10:00:00Z"),
			}}},
		},
	}
	repo := newFakeEventRepo()
	svc := NewEventScrapeService(extractor, repo, []entities.EventSource{src}, time.Minute, 30)

	first := svc.Run(context.Background())
	assert.Equal(t, 1, first.Inserted)
	assert.Equal(t, 0, first.Skipped)

	second := svc.Run(context.Background())
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, repo.rows, 1)
}

func TestSaveEvents_UpsertErrorCountsAsSkipped(t *testing.T) {
	repo := newFakeEventRepo()
	repo.upsertErr = errors.New("connection reset")
	svc := NewEventScrapeService(&fakeExtractor{}, repo, nil, time.Minute, 30)

	inserted, skipped := svc.SaveEvents(context.Background(), []*entities.Event{
		{Title: "Coffee Social", StartDate: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)},
	})

	assert.Equal(t, 0, inserted)
	assert.Equal(t, 1, skipped)
}

func TestSaveEvents_AttachesSchema(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventScrapeService(&fakeExtractor{}, repo, nil, time.Minute, 30)

	event := &entities.Event{
		Title:     "Coffee Social",
		StartDate: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
	}
	inserted, _ := svc.SaveEvents(context.Background(), []*entities.Event{event})

	assert.Equal(t, 1, inserted)
	assert.NotEmpty(t, event.SchemaJSON)
	assert.False(t, event.UpdatedAt.IsZero())
}

func TestCleanupOldEvents_RetentionBoundary(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	repo := newFakeEventRepo()
	ended29 := now.Add(-29 * 24 * time.Hour)
	ended31 := now.Add(-31 * 24 * time.Hour)
	repo.rows["recent"] = &entities.Event{Title: "Recent", EndDate: &ended29}
	repo.rows["stale"] = &entities.Event{Title: "Stale", EndDate: &ended31}
	repo.rows["open"] = &entities.Event{Title: "Open Ended", EndDate: nil}

	svc := NewEventScrapeService(&fakeExtractor{}, repo, nil, time.Minute, 30)
	svc.clock = clock

	cleaned := svc.CleanupOldEvents(context.Background())

	assert.Equal(t, 1, cleaned)
	assert.Contains(t, repo.rows, "recent")
	assert.Contains(t, repo.rows, "open")
	assert.NotContains(t, repo.rows, "stale")
}

func TestCleanupOldEvents_ErrorReturnsZero(t *testing.T) {
	repo := newFakeEventRepo()
	repo.deleteErr = errors.New("connection reset")

	svc := NewEventScrapeService(&fakeExtractor{}, repo, nil, time.Minute, 30)

	assert.Equal(t, 0, svc.CleanupOldEvents(context.Background()))
}
