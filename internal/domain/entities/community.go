package entities

import (
	"fmt"
	"strings"
	"time"
)

// Community represents a senior-living community in the directory.
// IDs come from upstream import jobs and are usually, but not
// guaranteed, unique per physical facility.
type Community struct {
	ID          string   `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	City        string   `json:"city" db:"city"`
	State       string   `json:"state" db:"state"`
	Description string   `json:"description" db:"description"`
	Images      []string `json:"images" db:"-"`

	// Services is the raw comma-separated care-type string as imported.
	// CareTypes is the parsed form; use NormalizeCareTypes to derive it.
	Services  string   `json:"services" db:"services"`
	CareTypes []string `json:"care_types" db:"-"`

	OverallRating          *float64 `json:"overall_rating,omitempty" db:"overall_rating"`
	Rating                 *float64 `json:"rating,omitempty" db:"rating"`
	HealthInspectionRating *float64 `json:"health_inspection_rating,omitempty" db:"health_inspection_rating"`
	StaffingRating         *float64 `json:"staffing_rating,omitempty" db:"staffing_rating"`
	QualityRating          *float64 `json:"quality_rating,omitempty" db:"quality_rating"`

	AbuseIcon            *bool `json:"abuse_icon,omitempty" db:"abuse_icon"`
	SpecialFocusFacility *bool `json:"special_focus_facility,omitempty" db:"special_focus_facility"`
	BedCount             *int  `json:"bed_count,omitempty" db:"bed_count"`
	AcceptsMedicare      *bool `json:"accepts_medicare,omitempty" db:"accepts_medicare"`
	AcceptsMedicaid      *bool `json:"accepts_medicaid,omitempty" db:"accepts_medicaid"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NormalizeCareTypes parses the comma-separated services string into the
// CareTypes set: split, trim, drop empties, case preserved. It is called
// once when the record is scanned so call sites never re-parse Services.
func (c *Community) NormalizeCareTypes() {
	if c.Services == "" {
		c.CareTypes = nil
		return
	}
	parts := strings.Split(c.Services, ",")
	careTypes := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		careTypes = append(careTypes, trimmed)
	}
	c.CareTypes = careTypes
}

// Location returns the display location string.
func (c *Community) Location() string {
	return fmt.Sprintf("%s, %s", c.City, c.State)
}

// PrimaryImage returns the first image URL, or "" when none exist.
func (c *Community) PrimaryImage() string {
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[0]
}

// EffectiveRating returns the rating used for ordering: the overall
// rating when present, the legacy rating otherwise, and 0 for unrated
// records. Unrated communities sort last within their bucket but are
// never excluded.
func (c *Community) EffectiveRating() float64 {
	if c.OverallRating != nil {
		return *c.OverallRating
	}
	if c.Rating != nil {
		return *c.Rating
	}
	return 0
}

// HasCareType reports whether any parsed care type contains the given
// substring, case-insensitively.
func (c *Community) HasCareType(substr string) bool {
	needle := strings.ToLower(substr)
	for _, ct := range c.CareTypes {
		if strings.Contains(strings.ToLower(ct), needle) {
			return true
		}
	}
	return false
}
