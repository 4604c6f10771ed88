package repositories

import (
	"context"

	"github.com/guideforseniors/backend/internal/domain/entities"
)

// CommunityFilter narrows community listings.
type CommunityFilter struct {
	City   string
	State  string
	Limit  int
	Offset int
}

// CommunityRepository provides read access to community records. The
// upstream import data is known to contain duplicate ids for the same
// physical facility, so implementations must tolerate non-unique ids.
type CommunityRepository interface {
	// GetByID returns the first record matching id.
	GetByID(ctx context.Context, id string) (*entities.Community, error)

	// List returns communities matching the filter, ordered by (name, id)
	// for deterministic output across duplicate-id clusters.
	List(ctx context.Context, filter CommunityFilter) ([]*entities.Community, error)

	// ListByCity returns all communities in the given city, matched
	// case-insensitively on the exact city name.
	ListByCity(ctx context.Context, city string) ([]*entities.Community, error)

	// CountByCity returns the raw number of communities in a city,
	// regardless of record completeness.
	CountByCity(ctx context.Context, city string) (int, error)
}
