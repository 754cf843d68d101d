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

// BlockedDateAdapter implements the BlockedDateRepository interface
type BlockedDateAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBlockedDateAdapter creates a new blocked date adapter
func NewBlockedDateAdapter(client *postgres.Client) repositories.BlockedDateRepository {
	return &BlockedDateAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert creates or replaces the row for the date
func (a *BlockedDateAdapter) Upsert(ctx context.Context, blocked *entities.BlockedDate) error {
	if blocked.CreatedAt.IsZero() {
		blocked.CreatedAt = time.Now()
	}

	query, args, err := a.db.Insert("blocked_dates").
		Rows(goqu.Record{
			"date":       blocked.Date,
			"reason":     blocked.Reason,
			"created_at": blocked.CreatedAt,
		}).
		OnConflict(goqu.DoUpdate("date", goqu.Record{
			"reason": blocked.Reason,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert blocked date", err)
	}

	return nil
}

// GetByDate retrieves the row for a date
func (a *BlockedDateAdapter) GetByDate(ctx context.Context, date string) (*entities.BlockedDate, error) {
	query, args, err := a.db.Select("date", "reason", "created_at").
		From("blocked_dates").
		Where(goqu.Ex{"date": date}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	blocked := &entities.BlockedDate{}
	var reason sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&blocked.Date,
		&reason,
		&blocked.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("date %s is not blocked", date))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get blocked date", err)
	}

	blocked.Reason = reason.String
	return blocked, nil
}

// List retrieves all blocked dates in ascending order
func (a *BlockedDateAdapter) List(ctx context.Context) ([]*entities.BlockedDate, error) {
	query, args, err := a.db.Select("date", "reason", "created_at").
		From("blocked_dates").
		Order(goqu.I("date").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list blocked dates", err)
	}
	defer rows.Close()

	var dates []*entities.BlockedDate
	for rows.Next() {
		blocked := &entities.BlockedDate{}
		var reason sql.NullString
		if err := rows.Scan(&blocked.Date, &reason, &blocked.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan blocked date", err)
		}
		blocked.Reason = reason.String
		dates = append(dates, blocked)
	}

	return dates, nil
}

// DeleteByDate removes the row for a date
func (a *BlockedDateAdapter) DeleteByDate(ctx context.Context, date string) error {
	query, args, err := a.db.Delete("blocked_dates").
		Where(goqu.Ex{"date": date}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete blocked date", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("date %s is not blocked", date))
	}

	return nil
}
