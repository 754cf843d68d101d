package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/polaris-studio/booking-backend/internal/application/services"
	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// Mocks

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entities.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetWithUser(ctx context.Context, id string) (*entities.Session, *entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*entities.Session), args.Get(1).(*entities.User), args.Error(2)
}

func (m *MockSessionRepository) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	args := m.Called(ctx, id, expiresAt)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

const (
	maxDuration     = 30 * 24 * time.Hour
	refreshInterval = 15 * 24 * time.Hour
)

func newAuthService(sessions *MockSessionRepository, users *MockUserRepository) *services.AuthService {
	return services.NewAuthService(sessions, users, maxDuration, refreshInterval)
}

// Tests

func TestGenerateToken(t *testing.T) {
	t.Run("tokens are unique and lowercase base32", func(t *testing.T) {
		a, err := services.GenerateToken()
		assert.NoError(t, err)
		b, err := services.GenerateToken()
		assert.NoError(t, err)

		assert.NotEqual(t, a, b)
		// 20 bytes encode to 32 base32 characters without padding
		assert.Len(t, a, 32)
		assert.Regexp(t, "^[a-z2-7]+$", a)
	})
}

func TestHashToken(t *testing.T) {
	t.Run("is deterministic and hex encoded", func(t *testing.T) {
		id := services.HashToken("some-token")
		assert.Equal(t, services.HashToken("some-token"), id)
		assert.NotEqual(t, services.HashToken("other-token"), id)
		assert.Len(t, id, 64)
	})
}

func TestAuthService_CreateSession(t *testing.T) {
	t.Run("persists hashed id with full duration", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		users := new(MockUserRepository)
		service := newAuthService(sessions, users)

		sessions.On("Create", mock.Anything, mock.MatchedBy(func(s *entities.Session) bool {
			return s.ID == services.HashToken("raw-token") &&
				s.UserID == "user-1" &&
				time.Until(s.ExpiresAt) > maxDuration-time.Minute
		})).Return(nil)

		session, err := service.CreateSession(context.Background(), "raw-token", "user-1")

		assert.NoError(t, err)
		assert.Equal(t, services.HashToken("raw-token"), session.ID)
		sessions.AssertExpectations(t)
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	user := &entities.User{ID: "user-1", Email: "admin@example.com", Role: entities.UserRoleAdmin}

	t.Run("returns user for valid fresh session", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		service := newAuthService(sessions, new(MockUserRepository))

		session := &entities.Session{
			ID:        services.HashToken("tok"),
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(maxDuration),
		}
		sessions.On("GetWithUser", mock.Anything, session.ID).Return(session, user, nil)

		gotUser, gotSession, err := service.ValidateSession(context.Background(), "tok")

		assert.NoError(t, err)
		assert.Equal(t, user, gotUser)
		assert.Equal(t, session.ID, gotSession.ID)
		// Fresh session is not renewed
		sessions.AssertNotCalled(t, "UpdateExpiry", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns nil for unknown token", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		service := newAuthService(sessions, new(MockUserRepository))

		sessions.On("GetWithUser", mock.Anything, mock.Anything).
			Return(nil, nil, apperrors.NewNotFoundError("session not found"))

		gotUser, gotSession, err := service.ValidateSession(context.Background(), "unknown")

		assert.NoError(t, err)
		assert.Nil(t, gotUser)
		assert.Nil(t, gotSession)
	})

	t.Run("deletes expired session and returns nil", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		service := newAuthService(sessions, new(MockUserRepository))

		session := &entities.Session{
			ID:        services.HashToken("tok"),
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		sessions.On("GetWithUser", mock.Anything, session.ID).Return(session, user, nil)
		sessions.On("Delete", mock.Anything, session.ID).Return(nil)

		gotUser, gotSession, err := service.ValidateSession(context.Background(), "tok")

		assert.NoError(t, err)
		assert.Nil(t, gotUser)
		assert.Nil(t, gotSession)
		sessions.AssertExpectations(t)
	})

	t.Run("session expiring exactly now is expired", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		service := newAuthService(sessions, new(MockUserRepository))

		session := &entities.Session{
			ID:        services.HashToken("tok"),
			UserID:    "user-1",
			ExpiresAt: time.Now(),
		}
		sessions.On("GetWithUser", mock.Anything, session.ID).Return(session, user, nil)
		sessions.On("Delete", mock.Anything, session.ID).Return(nil)

		gotUser, _, err := service.ValidateSession(context.Background(), "tok")

		assert.NoError(t, err)
		assert.Nil(t, gotUser)
	})

	t.Run("slides expiry when within refresh window", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		service := newAuthService(sessions, new(MockUserRepository))

		// Just inside the refresh window
		session := &entities.Session{
			ID:        services.HashToken("tok"),
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(refreshInterval - time.Second),
		}
		sessions.On("GetWithUser", mock.Anything, session.ID).Return(session, user, nil)
		sessions.On("UpdateExpiry", mock.Anything, session.ID, mock.MatchedBy(func(at time.Time) bool {
			return time.Until(at) > maxDuration-time.Minute
		})).Return(nil)

		gotUser, gotSession, err := service.ValidateSession(context.Background(), "tok")

		assert.NoError(t, err)
		assert.Equal(t, user, gotUser)
		assert.True(t, time.Until(gotSession.ExpiresAt) > maxDuration-time.Minute)
		sessions.AssertExpectations(t)
	})

	t.Run("does not renew outside refresh window", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		service := newAuthService(sessions, new(MockUserRepository))

		session := &entities.Session{
			ID:        services.HashToken("tok"),
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(refreshInterval + time.Hour),
		}
		sessions.On("GetWithUser", mock.Anything, session.ID).Return(session, user, nil)

		gotUser, _, err := service.ValidateSession(context.Background(), "tok")

		assert.NoError(t, err)
		assert.Equal(t, user, gotUser)
		sessions.AssertNotCalled(t, "UpdateExpiry", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_InvalidateSession(t *testing.T) {
	t.Run("deleting a missing session succeeds", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		service := newAuthService(sessions, new(MockUserRepository))

		sessions.On("Delete", mock.Anything, "gone").Return(nil)

		assert.NoError(t, service.InvalidateSession(context.Background(), "gone"))
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, _ := services.HashPassword("correct-horse")
	user := &entities.User{ID: "user-1", Email: "admin@example.com", PasswordHash: hash, Role: entities.UserRoleAdmin}

	t.Run("issues session for valid credentials", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		users := new(MockUserRepository)
		service := newAuthService(sessions, users)

		users.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)
		sessions.On("Create", mock.Anything, mock.Anything).Return(nil)

		rawToken, session, gotUser, err := service.Login(context.Background(), "admin@example.com", "correct-horse")

		assert.NoError(t, err)
		assert.NotEmpty(t, rawToken)
		assert.Equal(t, services.HashToken(rawToken), session.ID)
		assert.Equal(t, user, gotUser)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		users := new(MockUserRepository)
		service := newAuthService(sessions, users)

		users.On("GetByEmail", mock.Anything, "nobody@example.com").
			Return(nil, apperrors.NewNotFoundError("user not found"))
		users.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)

		_, _, _, errUnknown := service.Login(context.Background(), "nobody@example.com", "whatever")
		_, _, _, errWrongPw := service.Login(context.Background(), "admin@example.com", "wrong")

		assert.Error(t, errUnknown)
		assert.Error(t, errWrongPw)
		assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(errUnknown))
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(errWrongPw))
	})
}

func TestAuthService_Logout(t *testing.T) {
	user := &entities.User{ID: "user-1"}

	t.Run("revokes the active session", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		service := newAuthService(sessions, new(MockUserRepository))

		session := &entities.Session{
			ID:        services.HashToken("tok"),
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(maxDuration),
		}
		sessions.On("GetWithUser", mock.Anything, session.ID).Return(session, user, nil)
		sessions.On("Delete", mock.Anything, session.ID).Return(nil)

		assert.NoError(t, service.Logout(context.Background(), "tok"))
		sessions.AssertExpectations(t)
	})

	t.Run("rejects logout without an active session", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		service := newAuthService(sessions, new(MockUserRepository))

		sessions.On("GetWithUser", mock.Anything, mock.Anything).
			Return(nil, nil, apperrors.NewNotFoundError("session not found"))

		err := service.Logout(context.Background(), "stale")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
	})
}
