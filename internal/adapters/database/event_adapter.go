package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/repositories"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/guideforseniors/backend/pkg/errors"
)

// EventAdapter implements event persistence in Postgres. The events
// table carries a unique constraint on (title, start_date); Upsert
// leans on it for idempotent scrape runs.
type EventAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewEventAdapter creates a new event adapter.
func NewEventAdapter(client *postgres.Client) repositories.EventRepository {
	return &EventAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert inserts the event, reporting inserted=false when a row with
// the same (title, start_date) already exists.
func (a *EventAdapter) Upsert(ctx context.Context, event *entities.Event) (bool, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	record := goqu.Record{
		"id":            event.ID,
		"title":         event.Title,
		"description":   sql.NullString{String: event.Description, Valid: event.Description != ""},
		"start_date":    event.StartDate,
		"end_date":      event.EndDate,
		"neighborhood":  sql.NullString{String: event.Neighborhood, Valid: event.Neighborhood != ""},
		"event_type":    string(event.EventType),
		"location_name": event.LocationName,
		"location_url":  event.LocationURL,
		"is_virtual":    event.IsVirtual,
		"image_url":     sql.NullString{String: event.ImageURL, Valid: event.ImageURL != ""},
		"source_url":    event.SourceURL,
		"source_name":   event.SourceName,
		"schema_json":   []byte(event.SchemaJSON),
		"updated_at":    event.UpdatedAt,
	}

	query, args, err := a.db.Insert("events").
		Rows(record).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build event insert query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return false, nil
		}
		return false, apperrors.NewInternalError("failed to upsert event", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to get rows affected", err)
	}

	return affected > 0, nil
}

// DeleteEndedBefore removes events whose end_date predates the cutoff.
// Rows with a null end_date stay; an open-ended event is still relevant.
func (a *EventAdapter) DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := `DELETE FROM events WHERE end_date IS NOT NULL AND end_date < $1`

	result, err := a.client.DB().ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to delete old events", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to get rows affected", err)
	}

	return int(affected), nil
}

// ListUpcoming returns events starting at or after now, soonest first.
func (a *EventAdapter) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]*entities.Event, error) {
	query := `
		SELECT
			id, title, description, start_date, end_date, neighborhood,
			event_type, location_name, location_url, is_virtual, image_url,
			source_url, source_name, schema_json, updated_at
		FROM events
		WHERE start_date >= $1
		ORDER BY start_date, title
		LIMIT $2
	`
	if limit <= 0 {
		limit = 50
	}

	rows, err := a.client.DB().QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list upcoming events", err)
	}
	defer rows.Close()

	events := []*entities.Event{}
	for rows.Next() {
		event := &entities.Event{}
		var description, neighborhood, imageURL sql.NullString
		var eventType string
		var schemaJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.Title,
			&description,
			&event.StartDate,
			&event.EndDate,
			&neighborhood,
			&eventType,
			&event.LocationName,
			&event.LocationURL,
			&event.IsVirtual,
			&imageURL,
			&event.SourceURL,
			&event.SourceName,
			&schemaJSON,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan event", err)
		}

		event.Description = description.String
		event.Neighborhood = neighborhood.String
		event.ImageURL = imageURL.String
		event.EventType = entities.EventType(eventType)
		event.SchemaJSON = schemaJSON
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating events", err)
	}

	return events, nil
}
