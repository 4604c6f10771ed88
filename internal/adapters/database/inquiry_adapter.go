package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/repositories"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/guideforseniors/backend/pkg/errors"
)

// InquiryAdapter implements lead persistence in Postgres.
type InquiryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewInquiryAdapter creates a new inquiry adapter.
func NewInquiryAdapter(client *postgres.Client) repositories.InquiryRepository {
	return &InquiryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts an inquiry record.
func (a *InquiryAdapter) Create(ctx context.Context, inquiry *entities.Inquiry) error {
	if inquiry == nil {
		return apperrors.NewInternalError("inquiry is nil", fmt.Errorf("inquiry is nil"))
	}

	record := goqu.Record{
		"id":                inquiry.ID,
		"name":              inquiry.Name,
		"email":             inquiry.Email,
		"phone":             sql.NullString{String: inquiry.Phone, Valid: inquiry.Phone != ""},
		"community_id":      sql.NullString{String: inquiry.CommunityID, Valid: inquiry.CommunityID != ""},
		"message":           sql.NullString{String: inquiry.Message, Valid: inquiry.Message != ""},
		"move_in_timeframe": sql.NullString{String: inquiry.MoveInTimeframe, Valid: inquiry.MoveInTimeframe != ""},
		"created_at":        inquiry.CreatedAt,
	}

	query, args, err := a.db.Insert("inquiries").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build inquiry insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create inquiry", err)
	}

	return nil
}
