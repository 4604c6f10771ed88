package entities

import "time"

// Inquiry is a consumer lead captured from a community detail page.
type Inquiry struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	Phone           string    `json:"phone,omitempty" db:"phone"`
	CommunityID     string    `json:"community_id,omitempty" db:"community_id"`
	Message         string    `json:"message,omitempty" db:"message"`
	MoveInTimeframe string    `json:"move_in_timeframe,omitempty" db:"move_in_timeframe"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
