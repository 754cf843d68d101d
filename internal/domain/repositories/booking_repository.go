package repositories

import (
	"context"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// CreateIfSlotFree inserts the booking only when no PENDING or CONFIRMED
	// booking occupies the same (service, date, time) slot. Runs as a single
	// transaction; a concurrent insert losing the race surfaces as a CONFLICT
	// error, same as a failed pre-check.
	CreateIfSlotFree(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking by ID
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// GetByReference retrieves a booking by its human-readable reference
	GetByReference(ctx context.Context, reference string) (*entities.Booking, error)

	// List retrieves bookings, newest first
	List(ctx context.Context, filter BookingFilter) ([]*entities.Booking, error)

	// UpdateStatus sets the booking's lifecycle status
	UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) error

	// Delete hard-deletes a booking. Distinct from cancellation.
	Delete(ctx context.Context, id string) error
}

// BookingFilter defines filters for listing bookings
type BookingFilter struct {
	Date      string
	ServiceID string
	Status    entities.BookingStatus
	Limit     int
	Offset    int
}
