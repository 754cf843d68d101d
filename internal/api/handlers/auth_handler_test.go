package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/polaris-studio/booking-backend/internal/api/handlers"
	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/pkg/config"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// MockAuthService defines the mock service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *entities.Session, *entities.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, nil, args.Error(3)
	}
	return args.String(0), args.Get(1).(*entities.Session), args.Get(2).(*entities.User), args.Error(3)
}

func (m *MockAuthService) Logout(ctx context.Context, rawToken string) error {
	args := m.Called(ctx, rawToken)
	return args.Error(0)
}

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName:      "session",
		MaxDuration:     30 * 24 * time.Hour,
		RefreshInterval: 15 * 24 * time.Hour,
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("sets session cookie on success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService, sessionConfig())

		session := &entities.Session{ID: "hashed", ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
		user := &entities.User{ID: "user-1", Email: "admin@example.com", Role: entities.UserRoleAdmin}
		mockService.On("Login", mock.Anything, "admin@example.com", "secret").
			Return("raw-token", session, user, nil)

		body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "secret"})
		req := httptest.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		if assert.Len(t, cookies, 1) {
			assert.Equal(t, "session", cookies[0].Name)
			assert.Equal(t, "raw-token", cookies[0].Value)
			assert.True(t, cookies[0].HttpOnly)
		}

		// The password hash must never appear in the response
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("returns 401 for bad credentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService, sessionConfig())

		mockService.On("Login", mock.Anything, "admin@example.com", "wrong").
			Return("", nil, nil, apperrors.NewUnauthorizedError("invalid credentials"))

		body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
		req := httptest.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("returns bad request for missing fields", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService, sessionConfig())

		body, _ := json.Marshal(map[string]string{"email": "admin@example.com"})
		req := httptest.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes session and clears cookie", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService, sessionConfig())

		mockService.On("Logout", mock.Anything, "raw-token").Return(nil)

		req := httptest.NewRequest("GET", "/api/logout", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "raw-token"})
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		if assert.Len(t, cookies, 1) {
			assert.Equal(t, -1, cookies[0].MaxAge)
		}
	})

	t.Run("returns 401 without cookie", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService, sessionConfig())

		req := httptest.NewRequest("GET", "/api/logout", nil)
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})

	t.Run("returns 401 for stale token", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService, sessionConfig())

		mockService.On("Logout", mock.Anything, "stale").
			Return(apperrors.NewUnauthorizedError("no active session"))

		req := httptest.NewRequest("GET", "/api/logout", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "stale"})
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
