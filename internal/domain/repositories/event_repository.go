package repositories

import (
	"context"
	"time"

	"github.com/guideforseniors/backend/internal/domain/entities"
)

// EventRepository persists scraped events. Upsert is keyed on the
// (title, start_date) uniqueness constraint so repeated scrape runs do
// not create duplicate rows.
type EventRepository interface {
	// Upsert inserts the event, reporting inserted=false when the row
	// already exists for the same (title, start_date).
	Upsert(ctx context.Context, event *entities.Event) (inserted bool, err error)

	// DeleteEndedBefore removes events whose end_date is earlier than
	// cutoff. Rows with a null end_date are never targeted.
	DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int, error)

	// ListUpcoming returns events starting at or after now, soonest first.
	ListUpcoming(ctx context.Context, now time.Time, limit int) ([]*entities.Event, error)
}

// InquiryRepository persists captured leads.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *entities.Inquiry) error
}
