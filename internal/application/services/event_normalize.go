package services

import (
	"strings"
	"time"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/firecrawl"
)

// hospitalKeywords promote a community event to expert_webinar when a
// regional hospital system hosts it.
var hospitalKeywords = []string{
	"cleveland clinic",
	"university hospitals",
	"metrohealth",
	"summa health",
	"mercy health",
}

// virtualKeywords mark an event as attendable online.
var virtualKeywords = []string{
	"virtual",
	"online",
	"webinar",
	"zoom",
	"video call",
	"livestream",
	"remote",
}

// eventDateLayouts are tried in order after RFC 3339. First match wins.
var eventDateLayouts = []string{
	"January 2, 2006 at 3:04 PM",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"January 2 2006",
	"01/02/2006 3:04 PM",
	"01/02/2006",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseEventDate attempts ISO parsing first, then the explicit layout
// list. Returns false when nothing parses; callers drop the candidate.
func parseEventDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, true
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeEvent turns one raw extraction candidate into a persistable
// event. Returns false when the start date does not parse; date
// failures shrink the result set, they never fail the source.
func normalizeEvent(raw firecrawl.ExtractedEvent, source entities.EventSource) (*entities.Event, bool) {
	start, ok := parseEventDate(raw.StartDate)
	if !ok {
		return nil, false
	}

	event := &entities.Event{
		Title:        strings.TrimSpace(raw.Title),
		Description:  strings.TrimSpace(raw.Description),
		StartDate:    start,
		Neighborhood: source.Neighborhood,
		EventType:    source.EventType,
		LocationName: strings.TrimSpace(raw.LocationName),
		LocationURL:  strings.TrimSpace(raw.LocationURL),
		ImageURL:     strings.TrimSpace(raw.ImageURL),
		SourceURL:    source.URL,
		SourceName:   source.Name,
	}

	if end, ok := parseEventDate(raw.EndDate); ok {
		event.EndDate = &end
	}

	if event.EventType == entities.EventTypeCommunity && isExpertWebinar(event.Title, event.Description) {
		event.EventType = entities.EventTypeWebinar
	}
	event.IsVirtual = isVirtualEvent(event.Title, event.Description)

	if event.LocationName == "" {
		event.LocationName = source.Name
	}
	if event.LocationURL == "" {
		event.LocationURL = source.URL
	}

	return event, true
}

func isExpertWebinar(title, description string) bool {
	if strings.Contains(strings.ToLower(title), "webinar") {
		return true
	}
	lowered := strings.ToLower(description)
	for _, keyword := range hospitalKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func isVirtualEvent(title, description string) bool {
	combined := strings.ToLower(title + " " + description)
	for _, keyword := range virtualKeywords {
		if strings.Contains(combined, keyword) {
			return true
		}
	}
	return false
}
