package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/pkg/config"
)

// AuthService defines the interface for session operations
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *entities.Session, *entities.User, error)
	Logout(ctx context.Context, rawToken string) error
}

// AuthHandler handles login and logout requests
type AuthHandler struct {
	service AuthService
	session config.SessionConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service AuthService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		session: session,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if !validEmail(req.Email) {
		respondWithError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	rawToken, session, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    rawToken,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// Logout handles GET /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.session.CookieName)
	if err != nil || cookie.Value == "" {
		respondWithError(w, http.StatusUnauthorized, "no active session")
		return
	}

	if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
		respondWithAppError(w, err)
		return
	}

	// Expire the cookie client-side as well.
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
