package repositories

import (
	"context"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
)

// ServiceRepository defines the interface for service catalog operations
type ServiceRepository interface {
	// Upsert creates the service when it has no ID, otherwise updates it
	Upsert(ctx context.Context, service *entities.Service) error

	// GetByID retrieves a service by ID
	GetByID(ctx context.Context, id string) (*entities.Service, error)

	// List retrieves all services, newest first
	List(ctx context.Context) ([]*entities.Service, error)

	// Delete removes a service. Deleting a service referenced by bookings
	// returns a CONFLICT error.
	Delete(ctx context.Context, id string) error
}
