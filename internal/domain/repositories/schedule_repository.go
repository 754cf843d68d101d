package repositories

import (
	"context"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
)

// BusinessHourRepository defines the interface for weekly opening hours.
// Rows are keyed by weekday; one row per weekday.
type BusinessHourRepository interface {
	// Upsert creates or replaces the row for the weekday
	Upsert(ctx context.Context, hour *entities.BusinessHour) error

	// GetByDay retrieves the row for a weekday (0=Sunday..6=Saturday).
	// Returns a NOT_FOUND error when the weekday has no row.
	GetByDay(ctx context.Context, dayOfWeek int) (*entities.BusinessHour, error)

	// List retrieves all rows ordered by weekday
	List(ctx context.Context) ([]*entities.BusinessHour, error)

	// DeleteByDay removes the row for a weekday
	DeleteByDay(ctx context.Context, dayOfWeek int) error
}

// BlockedDateRepository defines the interface for blocked calendar dates
type BlockedDateRepository interface {
	// Upsert creates or replaces the row for the date ("YYYY-MM-DD")
	Upsert(ctx context.Context, blocked *entities.BlockedDate) error

	// GetByDate retrieves the row for a date.
	// Returns a NOT_FOUND error when the date is not blocked.
	GetByDate(ctx context.Context, date string) (*entities.BlockedDate, error)

	// List retrieves all blocked dates in ascending order
	List(ctx context.Context) ([]*entities.BlockedDate, error)

	// DeleteByDate removes the row for a date
	DeleteByDate(ctx context.Context, date string) error
}
