package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
)

// SessionValidator resolves a raw session token to its user and session.
// A nil user with a nil error means the token is unknown or expired.
type SessionValidator interface {
	ValidateSession(ctx context.Context, rawToken string) (*entities.User, *entities.Session, error)
}

type contextKey string

const userContextKey contextKey = "auth.user"

// UserFromContext returns the authenticated user attached by RequireAuth
func UserFromContext(ctx context.Context) (*entities.User, bool) {
	user, ok := ctx.Value(userContextKey).(*entities.User)
	return user, ok
}

// AuthMiddleware authenticates requests from the session cookie
type AuthMiddleware struct {
	validator  SessionValidator
	cookieName string
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(validator SessionValidator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		validator:  validator,
		cookieName: cookieName,
	}
}

func denyJSON(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RequireAuth rejects requests without a valid session and attaches the
// authenticated user to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			denyJSON(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, _, err := m.validator.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			denyJSON(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if user == nil {
			denyJSON(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManager builds on RequireAuth and additionally rejects users
// without management rights.
func (m *AuthMiddleware) RequireManager(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.CanManage() {
			denyJSON(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	}))
}
