package services

import (
	"strings"

	"github.com/guideforseniors/backend/internal/domain/entities"
)

const minDescriptionLength = 50

// placeholderImageMarkers flag stock or missing photos that should not
// appear on promoted listings. Matching is case-insensitive substring.
var placeholderImageMarkers = []string{
	"placeholder",
	"no-image",
	"default-community",
	"generic",
	"missing",
}

// qualifyingCareTypes gate the lead-capture CTA: a community must offer
// at least one of these to be featured.
var qualifyingCareTypes = []string{
	"assisted living",
	"memory care",
}

// CommunityQualityService decides which community records are complete
// enough to display on featured and directory listings.
type CommunityQualityService struct{}

// NewCommunityQualityService creates a new quality service.
func NewCommunityQualityService() *CommunityQualityService {
	return &CommunityQualityService{}
}

// IsAdmissionReady reports whether a record is fit for promoted
// display: a real description, a real photo, and a qualifying care
// type. Pure predicate, no side effects.
func (s *CommunityQualityService) IsAdmissionReady(c *entities.Community) bool {
	if len(strings.TrimSpace(c.Description)) < minDescriptionLength {
		return false
	}

	image := strings.ToLower(c.PrimaryImage())
	if image == "" {
		return false
	}
	for _, marker := range placeholderImageMarkers {
		if strings.Contains(image, marker) {
			return false
		}
	}

	for _, qualifying := range qualifyingCareTypes {
		if c.HasCareType(qualifying) {
			return true
		}
	}
	return false
}

// FilterByCity selects records in the given city (case-insensitive
// exact match). With includeIncomplete=false the admission-ready
// predicate applies and skilled-nursing-only communities are excluded;
// with includeIncomplete=true every city match is returned so directory
// "coming soon" counts stay accurate.
func (s *CommunityQualityService) FilterByCity(records []*entities.Community, city string, includeIncomplete bool) []*entities.Community {
	wanted := strings.ToLower(strings.TrimSpace(city))

	out := make([]*entities.Community, 0, len(records))
	for _, record := range records {
		if strings.ToLower(strings.TrimSpace(record.City)) != wanted {
			continue
		}
		if includeIncomplete {
			out = append(out, record)
			continue
		}
		if !s.IsAdmissionReady(record) {
			continue
		}
		if isSkilledNursingOnly(record) {
			continue
		}
		out = append(out, record)
	}
	return out
}

// isSkilledNursingOnly reports whether every parsed care type is a
// skilled-nursing variant. Those facilities take direct contact rather
// than the lead-capture CTA.
func isSkilledNursingOnly(c *entities.Community) bool {
	if len(c.CareTypes) == 0 {
		return false
	}
	for _, ct := range c.CareTypes {
		if !strings.Contains(strings.ToLower(ct), "skilled nursing") {
			return false
		}
	}
	return true
}
