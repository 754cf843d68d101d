package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// tokenEncoding encodes session tokens as lowercase base32 without padding
var tokenEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// AuthService manages the session lifecycle: issue, validate, refresh, revoke.
//
// Raw tokens are handed to clients and never stored; the session id is the
// SHA-256 hash of the token. Expiry is lazy: expired sessions are deleted on
// the next validation rather than by a background sweeper. A validation
// within RefreshInterval of expiry slides the window forward by MaxDuration,
// so a continuously active session never expires.
type AuthService struct {
	sessions        repositories.SessionRepository
	users           repositories.UserRepository
	maxDuration     time.Duration
	refreshInterval time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(sessions repositories.SessionRepository, users repositories.UserRepository, maxDuration, refreshInterval time.Duration) *AuthService {
	return &AuthService{
		sessions:        sessions,
		users:           users,
		maxDuration:     maxDuration,
		refreshInterval: refreshInterval,
	}
}

// GenerateToken returns a new opaque session token (160 bits of entropy)
func GenerateToken() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", apperrors.NewInternalError("failed to generate session token", err)
	}
	return tokenEncoding.EncodeToString(bytes), nil
}

// HashToken derives the session id from a raw token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CreateSession issues a session for the user and persists its hashed id
func (s *AuthService) CreateSession(ctx context.Context, rawToken, userID string) (*entities.Session, error) {
	session := &entities.Session{
		ID:        HashToken(rawToken),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.maxDuration),
		CreatedAt: time.Now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// ValidateSession checks a raw token against the store.
//
// Returns (nil, nil, nil) when the token is unknown or the session has
// expired; an expired session is deleted on the way out. A session close to
// expiry gets its window slid forward before being returned.
func (s *AuthService) ValidateSession(ctx context.Context, rawToken string) (*entities.User, *entities.Session, error) {
	sessionID := HashToken(rawToken)

	session, user, err := s.sessions.GetWithUser(ctx, sessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	now := time.Now()

	if session.ExpiredAt(now) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			log.Warn().Err(err).Msg("failed to delete expired session")
		}
		return nil, nil, nil
	}

	if !now.Before(session.ExpiresAt.Add(-s.refreshInterval)) {
		session.ExpiresAt = now.Add(s.maxDuration)
		if err := s.sessions.UpdateExpiry(ctx, sessionID, session.ExpiresAt); err != nil {
			return nil, nil, err
		}
	}

	return user, session, nil
}

// InvalidateSession revokes a session by id. Revoking an already-deleted
// session is treated as success.
func (s *AuthService) InvalidateSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Login verifies credentials and issues a session.
//
// Unknown email and wrong password produce the same UNAUTHORIZED error so
// the endpoint cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entities.Session, *entities.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", nil, nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return "", nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	rawToken, err := GenerateToken()
	if err != nil {
		return "", nil, nil, err
	}

	session, err := s.CreateSession(ctx, rawToken, user.ID)
	if err != nil {
		return "", nil, nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("session created")
	return rawToken, session, user, nil
}

// Logout revokes the session belonging to the raw token
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	_, session, err := s.ValidateSession(ctx, rawToken)
	if err != nil {
		return err
	}
	if session == nil {
		return apperrors.NewUnauthorizedError("no active session")
	}
	return s.InvalidateSession(ctx, session.ID)
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.NewInternalError("failed to hash password", err)
	}
	return string(hash), nil
}
