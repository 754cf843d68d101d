package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// BusinessHourAdapter implements the BusinessHourRepository interface
type BusinessHourAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBusinessHourAdapter creates a new business hour adapter
func NewBusinessHourAdapter(client *postgres.Client) repositories.BusinessHourRepository {
	return &BusinessHourAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert creates or replaces the row for the weekday
func (a *BusinessHourAdapter) Upsert(ctx context.Context, hour *entities.BusinessHour) error {
	now := time.Now()
	hour.UpdatedAt = now
	if hour.CreatedAt.IsZero() {
		hour.CreatedAt = now
	}

	query, args, err := a.db.Insert("business_hours").
		Rows(goqu.Record{
			"day_of_week": hour.DayOfWeek,
			"start_time":  hour.StartTime,
			"end_time":    hour.EndTime,
			"is_open":     hour.IsOpen,
			"created_at":  hour.CreatedAt,
			"updated_at":  hour.UpdatedAt,
		}).
		OnConflict(goqu.DoUpdate("day_of_week", goqu.Record{
			"start_time": hour.StartTime,
			"end_time":   hour.EndTime,
			"is_open":    hour.IsOpen,
			"updated_at": hour.UpdatedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert business hour", err)
	}

	return nil
}

// GetByDay retrieves the row for a weekday
func (a *BusinessHourAdapter) GetByDay(ctx context.Context, dayOfWeek int) (*entities.BusinessHour, error) {
	query, args, err := a.db.Select(
		"day_of_week", "start_time", "end_time", "is_open", "created_at", "updated_at",
	).From("business_hours").
		Where(goqu.Ex{"day_of_week": dayOfWeek}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	hour := &entities.BusinessHour{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&hour.DayOfWeek,
		&hour.StartTime,
		&hour.EndTime,
		&hour.IsOpen,
		&hour.CreatedAt,
		&hour.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no business hours for day %d", dayOfWeek))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get business hour", err)
	}

	return hour, nil
}

// List retrieves all rows ordered by weekday
func (a *BusinessHourAdapter) List(ctx context.Context) ([]*entities.BusinessHour, error) {
	query, args, err := a.db.Select(
		"day_of_week", "start_time", "end_time", "is_open", "created_at", "updated_at",
	).From("business_hours").
		Order(goqu.I("day_of_week").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list business hours", err)
	}
	defer rows.Close()

	var hours []*entities.BusinessHour
	for rows.Next() {
		hour := &entities.BusinessHour{}
		err := rows.Scan(
			&hour.DayOfWeek,
			&hour.StartTime,
			&hour.EndTime,
			&hour.IsOpen,
			&hour.CreatedAt,
			&hour.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan business hour", err)
		}
		hours = append(hours, hour)
	}

	return hours, nil
}

// DeleteByDay removes the row for a weekday
func (a *BusinessHourAdapter) DeleteByDay(ctx context.Context, dayOfWeek int) error {
	query, args, err := a.db.Delete("business_hours").
		Where(goqu.Ex{"day_of_week": dayOfWeek}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete business hour", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("no business hours for day %d", dayOfWeek))
	}

	return nil
}
