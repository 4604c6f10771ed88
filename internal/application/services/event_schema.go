package services

import (
	"encoding/json"
	"time"

	"github.com/guideforseniors/backend/internal/domain/entities"
)

// schema.org/Event document embedded per event for SEO markup and
// stored alongside the row.
type eventSchema struct {
	Context        string          `json:"@context"`
	Type           string          `json:"@type"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	EventStatus    string          `json:"eventStatus"`
	AttendanceMode string          `json:"eventAttendanceMode"`
	Organizer      schemaOrganizer `json:"organizer"`
	Location       interface{}     `json:"location,omitempty"`
	Image          string          `json:"image,omitempty"`
	Audience       schemaAudience  `json:"audience"`
	AreaServed     schemaArea      `json:"areaServed"`
}

type schemaOrganizer struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type schemaVirtualLocation struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type schemaPlace struct {
	Type    string        `json:"@type"`
	Name    string        `json:"name"`
	Address schemaAddress `json:"address"`
}

type schemaAddress struct {
	Type     string `json:"@type"`
	Locality string `json:"addressLocality"`
	Region   string `json:"addressRegion"`
}

type schemaAudience struct {
	Type         string `json:"@type"`
	AudienceType string `json:"audienceType"`
}

type schemaArea struct {
	Type        string      `json:"@type"`
	Name        string      `json:"name"`
	ContainedIn schemaState `json:"containedInPlace"`
}

type schemaState struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BuildEventSchema generates the JSON-LD document for an event. The
// end date falls back to the start date so the markup always carries a
// bounded interval.
func BuildEventSchema(event *entities.Event) (json.RawMessage, error) {
	end := event.StartDate
	if event.EndDate != nil {
		end = *event.EndDate
	}

	mode := "https://schema.org/OfflineEventAttendanceMode"
	if event.IsVirtual {
		mode = "https://schema.org/OnlineEventAttendanceMode"
	}

	city := event.Neighborhood
	if city == "" {
		city = "Cleveland"
	}

	doc := eventSchema{
		Context:        "https://schema.org",
		Type:           "Event",
		Name:           event.Title,
		Description:    event.Description,
		StartDate:      event.StartDate.Format(time.RFC3339),
		EndDate:        end.Format(time.RFC3339),
		EventStatus:    "https://schema.org/EventScheduled",
		AttendanceMode: mode,
		Organizer: schemaOrganizer{
			Type: "Organization",
			Name: event.SourceName,
			URL:  event.SourceURL,
		},
		Image: event.ImageURL,
		Audience: schemaAudience{
			Type:         "Audience",
			AudienceType: "Seniors",
		},
		AreaServed: schemaArea{
			Type:        "City",
			Name:        city,
			ContainedIn: schemaState{Type: "State", Name: "Ohio"},
		},
	}

	if event.IsVirtual {
		doc.Location = schemaVirtualLocation{
			Type: "VirtualLocation",
			URL:  event.LocationURL,
		}
	} else if event.LocationName != "" {
		doc.Location = schemaPlace{
			Type: "Place",
			Name: event.LocationName,
			Address: schemaAddress{
				Type:     "PostalAddress",
				Locality: city,
				Region:   "OH",
			},
		}
	}

	return json.Marshal(doc)
}
