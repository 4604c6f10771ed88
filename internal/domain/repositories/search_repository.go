package repositories

import (
	"context"

	"github.com/guideforseniors/backend/internal/domain/entities"
)

// CommunitySearchQuery narrows a full-text community search.
type CommunitySearchQuery struct {
	Query    string
	City     string
	CareType string
	Limit    int
}

// CommunitySearchHit is a single search result.
type CommunitySearchHit struct {
	ID     string
	Name   string
	City   string
	Rating float64
}

// CommunitySearchRepository maintains and queries the search index.
type CommunitySearchRepository interface {
	InitSchema(ctx context.Context) error
	Index(ctx context.Context, community *entities.Community) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query CommunitySearchQuery) ([]CommunitySearchHit, error)
	Reset(ctx context.Context) error
}
