package entities

import (
	"encoding/json"
	"time"
)

// EventType classifies how an event is promoted on the site.
type EventType string

const (
	EventTypeCommunity EventType = "community_event"
	EventTypeWebinar   EventType = "expert_webinar"
)

// Event is a senior-focused event scraped from a configured source.
// Persistence is keyed on (title, start_date) so repeated scrape runs
// are idempotent.
type Event struct {
	ID           string          `json:"id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Description  string          `json:"description,omitempty" db:"description"`
	StartDate    time.Time       `json:"start_date" db:"start_date"`
	EndDate      *time.Time      `json:"end_date,omitempty" db:"end_date"`
	Neighborhood string          `json:"neighborhood,omitempty" db:"neighborhood"`
	EventType    EventType       `json:"event_type" db:"event_type"`
	LocationName string          `json:"location_name,omitempty" db:"location_name"`
	LocationURL  string          `json:"location_url,omitempty" db:"location_url"`
	IsVirtual    bool            `json:"is_virtual" db:"is_virtual"`
	ImageURL     string          `json:"image_url,omitempty" db:"image_url"`
	SourceURL    string          `json:"source_url" db:"source_url"`
	SourceName   string          `json:"source_name" db:"source_name"`
	SchemaJSON   json.RawMessage `json:"schema_json,omitempty" db:"schema_json"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// EventSource describes one content source the scraper visits.
// Sources are static configuration, defined at process start.
type EventSource struct {
	Name         string
	URL          string
	Neighborhood string
	EventType    EventType

	// HeadingSelector hints the markdown fallback parser; empty means
	// any h2/h3 heading is a candidate title.
	HeadingSelector string
}

// ScrapeResult is the aggregate outcome of one ingestion run. Success
// reflects source-level errors only; storage skips are accounted in
// the counters without failing the run.
type ScrapeResult struct {
	Success     bool     `json:"success"`
	TotalEvents int      `json:"total_events"`
	Inserted    int      `json:"inserted"`
	Skipped     int      `json:"skipped"`
	Cleaned     int      `json:"cleaned"`
	Errors      []string `json:"errors"`
}
