package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/repositories"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/guideforseniors/backend/pkg/errors"
)

const communityColumns = `
	id, name, city, state, description, images, services,
	overall_rating, rating, health_inspection_rating, staffing_rating, quality_rating,
	abuse_icon, special_focus_facility, bed_count,
	accepts_medicare, accepts_medicaid, created_at, updated_at
`

// CommunityAdapter implements the CommunityRepository interface.
type CommunityAdapter struct {
	client *postgres.Client
}

// NewCommunityAdapter creates a new community adapter.
func NewCommunityAdapter(client *postgres.Client) repositories.CommunityRepository {
	return &CommunityAdapter{
		client: client,
	}
}

// GetByID retrieves the first community record matching the id. Upstream
// imports occasionally reuse ids, so the query orders by name and takes
// the first row rather than assuming uniqueness.
func (a *CommunityAdapter) GetByID(ctx context.Context, id string) (*entities.Community, error) {
	query := `
		SELECT ` + communityColumns + `
		FROM communities
		WHERE id = $1
		ORDER BY name
		LIMIT 1
	`

	community, err := scanCommunity(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("community with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get community", err)
	}

	return community, nil
}

// List retrieves communities with filters, ordered by (name, id) so
// duplicate-id clusters come back in a stable order.
func (a *CommunityAdapter) List(ctx context.Context, filter repositories.CommunityFilter) ([]*entities.Community, error) {
	query := `
		SELECT ` + communityColumns + `
		FROM communities
		WHERE 1=1
	`

	args := []interface{}{}
	argCount := 1

	if filter.City != "" {
		query += fmt.Sprintf(" AND LOWER(city) = LOWER($%d)", argCount)
		args = append(args, filter.City)
		argCount++
	}

	if filter.State != "" {
		query += fmt.Sprintf(" AND LOWER(state) = LOWER($%d)", argCount)
		args = append(args, filter.State)
		argCount++
	}

	query += " ORDER BY name, id"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
		argCount++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list communities", err)
	}
	defer rows.Close()

	return collectCommunities(rows)
}

// ListByCity returns all communities in a city, matched
// case-insensitively on the exact city name.
func (a *CommunityAdapter) ListByCity(ctx context.Context, city string) ([]*entities.Community, error) {
	query := `
		SELECT ` + communityColumns + `
		FROM communities
		WHERE LOWER(city) = LOWER($1)
		ORDER BY name, id
	`

	rows, err := a.client.DB().QueryContext(ctx, query, city)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list communities by city", err)
	}
	defer rows.Close()

	return collectCommunities(rows)
}

// CountByCity returns the raw community count for a city.
func (a *CommunityAdapter) CountByCity(ctx context.Context, city string) (int, error) {
	query := `SELECT COUNT(*) FROM communities WHERE LOWER(city) = LOWER($1)`

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, city).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count communities", err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCommunity(row rowScanner) (*entities.Community, error) {
	community := &entities.Community{}
	var description sql.NullString
	var images pq.StringArray

	err := row.Scan(
		&community.ID,
		&community.Name,
		&community.City,
		&community.State,
		&description,
		&images,
		&community.Services,
		&community.OverallRating,
		&community.Rating,
		&community.HealthInspectionRating,
		&community.StaffingRating,
		&community.QualityRating,
		&community.AbuseIcon,
		&community.SpecialFocusFacility,
		&community.BedCount,
		&community.AcceptsMedicare,
		&community.AcceptsMedicaid,
		&community.CreatedAt,
		&community.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	community.Description = description.String
	community.Images = []string(images)
	community.NormalizeCareTypes()

	return community, nil
}

func collectCommunities(rows *sql.Rows) ([]*entities.Community, error) {
	communities := []*entities.Community{}
	for rows.Next() {
		community, err := scanCommunity(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan community", err)
		}
		communities = append(communities, community)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating communities", err)
	}

	return communities, nil
}
