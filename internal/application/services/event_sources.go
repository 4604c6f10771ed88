package services

import "github.com/guideforseniors/backend/internal/domain/entities"

// DefaultEventSources lists the content sources the scraper visits.
// The set is static; adding a source is a code change, not runtime
// configuration.
func DefaultEventSources() []entities.EventSource {
	return []entities.EventSource{
		{
			Name:         "Cleveland Clinic Community Events",
			URL:          "https://my.clevelandclinic.org/landing/community-events",
			Neighborhood: "Cleveland",
			EventType:    entities.EventTypeCommunity,
		},
		{
			Name:         "University Hospitals Events",
			URL:          "https://www.uhhospitals.org/events",
			Neighborhood: "Cleveland",
			EventType:    entities.EventTypeCommunity,
		},
		{
			Name:         "Western Reserve Area Agency on Aging",
			URL:          "https://www.areaagingsolutions.org/events/",
			Neighborhood: "Cleveland",
			EventType:    entities.EventTypeCommunity,
		},
		{
			Name:         "Cuyahoga County Public Library Senior Programs",
			URL:          "https://attend.cuyahogalibrary.org/events?ages=Seniors",
			Neighborhood: "Parma",
			EventType:    entities.EventTypeCommunity,
		},
		{
			Name:         "Westlake Porter Public Library",
			URL:          "https://westlakelibrary.evanced.info/signup/calendar",
			Neighborhood: "Westlake",
			EventType:    entities.EventTypeCommunity,
		},
		{
			Name:         "Alzheimer's Association Cleveland Chapter",
			URL:          "https://www.alz.org/cleveland/helping_you/education",
			Neighborhood: "Beachwood",
			EventType:    entities.EventTypeWebinar,
		},
	}
}
