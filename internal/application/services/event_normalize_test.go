package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/firecrawl"
)

var testSource = entities.EventSource{
	Name:         "Westlake Porter Public Library",
	URL:          "https://westlakelibrary.evanced.info/signup/calendar",
	Neighborhood: "Westlake",
	EventType:    entities.EventTypeCommunity,
}

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2026-09-15T14:00:00Z", true},
		{"January 15, 2026 at 2:00 PM", true},
		{"January 15, 2026", true},
		{"01/15/2026 2:00 PM", true},
		{"2026-01-15T14:00", true},
		{"sometime next week", false},
		{"", false},
		{"Friday afternoon", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, ok := parseEventDate(tt.input)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseEventDate_LongForm(t *testing.T) {
	parsed, ok := parseEventDate("January 15, 2026 at 2:00 PM")
	require.True(t, ok)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.January, parsed.Month())
	assert.Equal(t, 15, parsed.Day())
	assert.Equal(t, 14, parsed.Hour())
}

func TestNormalizeEvent_DropsUnparseableDate(t *testing.T) {
	_, ok := normalizeEvent(firecrawl.ExtractedEvent{
		Title:     "Mystery Meetup",
		StartDate: "sometime next week",
	}, testSource)

	assert.False(t, ok)
}

func TestNormalizeEvent_Fallbacks(t *testing.T) {
	event, ok := normalizeEvent(firecrawl.ExtractedEvent{
		Title:     "Coffee Social",
		StartDate: "2026-09-15T10:00:00Z",
	}, testSource)

	require.True(t, ok)
	assert.Equal(t, testSource.Name, event.LocationName)
	assert.Equal(t, testSource.URL, event.LocationURL)
	assert.Equal(t, "Westlake", event.Neighborhood)
	assert.Equal(t, entities.EventTypeCommunity, event.EventType)
	assert.Nil(t, event.EndDate)
	assert.False(t, event.IsVirtual)
}

func TestNormalizeEvent_WebinarPromotion(t *testing.T) {
	t.Run("webinar in title", func(t *testing.T) {
		event, ok := normalizeEvent(firecrawl.ExtractedEvent{
			Title:     "Fall Prevention Webinar",
			StartDate: "2026-09-15T10:00:00Z",
		}, testSource)

		require.True(t, ok)
		assert.Equal(t, entities.EventTypeWebinar, event.EventType)
		assert.True(t, event.IsVirtual)
	})

	t.Run("hospital keyword in description", func(t *testing.T) {
		event, ok := normalizeEvent(firecrawl.ExtractedEvent{
			Title:       "Healthy Aging Talk",
			Description: "Presented by the Cleveland Clinic geriatrics team.",
			StartDate:   "2026-09-15T10:00:00Z",
		}, testSource)

		require.True(t, ok)
		assert.Equal(t, entities.EventTypeWebinar, event.EventType)
	})

	t.Run("configured webinar type is kept", func(t *testing.T) {
		webinarSource := testSource
		webinarSource.EventType = entities.EventTypeWebinar

		event, ok := normalizeEvent(firecrawl.ExtractedEvent{
			Title:     "Memory Care Basics",
			StartDate: "2026-09-15T10:00:00Z",
		}, webinarSource)

		require.True(t, ok)
		assert.Equal(t, entities.EventTypeWebinar, event.EventType)
	})
}

func TestNormalizeEvent_VirtualClassification(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		virtual     bool
	}{
		{"zoom in description", "Caregiver Circle", "Join us on Zoom every month.", true},
		{"livestream in title", "Livestream: Ask a Nurse", "", true},
		{"in-person event", "Garden Walk", "Meet at the pavilion.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := normalizeEvent(firecrawl.ExtractedEvent{
				Title:       tt.title,
				Description: tt.description,
				StartDate:   "2026-09-15T10:00:00Z",
			}, testSource)

			require.True(t, ok)
			assert.Equal(t, tt.virtual, event.IsVirtual)
		})
	}
}

func TestNormalizeEvent_EndDate(t *testing.T) {
	event, ok := normalizeEvent(firecrawl.ExtractedEvent{
		Title:     "Two Day Fair",
		StartDate: "2026-09-15T10:00:00Z",
		EndDate:   "2026-09-16T16:00:00Z",
	}, testSource)

	require.True(t, ok)
	require.NotNil(t, event.EndDate)
	assert.Equal(t, 16, event.EndDate.Day())

	event, ok = normalizeEvent(firecrawl.ExtractedEvent{
		Title:     "Open Ended",
		StartDate: "2026-09-15T10:00:00Z",
		EndDate:   "whenever",
	}, testSource)

	require.True(t, ok)
	assert.Nil(t, event.EndDate)
}
