package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/repositories"
	tsclient "github.com/guideforseniors/backend/internal/infrastructure/clients/typesense"
)

const collectionName = tsclient.CommunitiesCollection

// TypesenseAdapter implements community search using Typesense.
// Documents are keyed on the community id, so duplicate-id records
// collapse to a single document; the ranking pipeline reads from
// Postgres and is unaffected.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.CommunitySearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "care_types", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "rating", Type: "float"},
			{Name: "memory_care", Type: "bool"},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("rating"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a community document.
func (a *TypesenseAdapter) Index(ctx context.Context, community *entities.Community) error {
	document := map[string]interface{}{
		"id":          community.ID,
		"name":        community.Name,
		"city":        community.City,
		"description": community.Description,
		"care_types":  community.CareTypes,
		"rating":      community.EffectiveRating(),
		"memory_care": community.HasCareType("memory care"),
		"updated_at":  community.UpdatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index community: %w", err)
	}

	return nil
}

// Delete removes a community from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete community from index: %w", err)
	}
	return nil
}

// Reset drops the collection so the indexer can rebuild from scratch.
func (a *TypesenseAdapter) Reset(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Delete(ctx)
	if err != nil && !strings.Contains(err.Error(), "404") {
		return fmt.Errorf("failed to delete typesense collection: %w", err)
	}
	return a.InitSchema(ctx)
}

// Search queries communities by name and description.
func (a *TypesenseAdapter) Search(ctx context.Context, query repositories.CommunitySearchQuery) ([]repositories.CommunitySearchHit, error) {
	q := query.Query
	if q == "" {
		q = "*"
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	var filters []string
	if query.City != "" {
		filters = append(filters, fmt.Sprintf("city:=%s", query.City))
	}
	if query.CareType != "" {
		filters = append(filters, fmt.Sprintf("care_types:=%s", query.CareType))
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(q),
		QueryBy: pointer.String("name,description"),
		SortBy:  pointer.String("rating:desc"),
		PerPage: pointer.Int(limit),
	}
	if len(filters) > 0 {
		searchParams.FilterBy = pointer.String(strings.Join(filters, " && "))
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search communities: %w", err)
	}

	hits := []repositories.CommunitySearchHit{}
	if result.Hits == nil {
		return hits, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		searchHit := repositories.CommunitySearchHit{}
		if v, ok := doc["id"].(string); ok {
			searchHit.ID = v
		}
		if v, ok := doc["name"].(string); ok {
			searchHit.Name = v
		}
		if v, ok := doc["city"].(string); ok {
			searchHit.City = v
		}
		if v, ok := doc["rating"].(float64); ok {
			searchHit.Rating = v
		}
		hits = append(hits, searchHit)
	}

	return hits, nil
}
