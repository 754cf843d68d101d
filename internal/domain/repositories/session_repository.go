package repositories

import (
	"context"
	"time"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
)

// SessionRepository defines the interface for session data operations.
// Session IDs are already hashed by the caller; raw tokens never reach here.
type SessionRepository interface {
	// Create persists a new session
	Create(ctx context.Context, session *entities.Session) error

	// GetWithUser retrieves a session joined with its owning user.
	// Returns a NOT_FOUND error when no session exists for the id.
	GetWithUser(ctx context.Context, id string) (*entities.Session, *entities.User, error)

	// UpdateExpiry moves the session's expiry forward
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
