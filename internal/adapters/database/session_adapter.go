package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// SessionAdapter implements the SessionRepository interface
type SessionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSessionAdapter creates a new session adapter
func NewSessionAdapter(client *postgres.Client) repositories.SessionRepository {
	return &SessionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new session
func (a *SessionAdapter) Create(ctx context.Context, session *entities.Session) error {
	record := goqu.Record{
		"id":         session.ID,
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt,
		"created_at": session.CreatedAt,
	}

	query, args, err := a.db.Insert("sessions").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create session", err)
	}

	return nil
}

// GetWithUser retrieves a session joined with its owning user
func (a *SessionAdapter) GetWithUser(ctx context.Context, id string) (*entities.Session, *entities.User, error) {
	query, args, err := a.db.Select(
		goqu.I("s.id"), goqu.I("s.user_id"), goqu.I("s.expires_at"), goqu.I("s.created_at"),
		goqu.I("u.id"), goqu.I("u.username"), goqu.I("u.email"),
		goqu.I("u.password_hash"), goqu.I("u.role"), goqu.I("u.created_at"), goqu.I("u.updated_at"),
	).From(goqu.T("sessions").As("s")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("s.user_id").Eq(goqu.I("u.id")))).
		Where(goqu.I("s.id").Eq(id)).
		ToSQL()

	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to build query", err)
	}

	session := &entities.Session{}
	user := &entities.User{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil, apperrors.NewNotFoundError("session not found")
	}
	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to get session", err)
	}

	return session, user, nil
}

// UpdateExpiry moves the session's expiry forward
func (a *SessionAdapter) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	query, args, err := a.db.Update("sessions").
		Set(goqu.Record{"expires_at": expiresAt}).
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update session expiry", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("session not found")
	}

	return nil
}

// Delete removes a session. Deleting a missing session succeeds.
func (a *SessionAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("sessions").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}

	return nil
}
