package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// BlockedDateHandler handles blocked calendar date requests
type BlockedDateHandler struct {
	repo repositories.BlockedDateRepository
}

// NewBlockedDateHandler creates a new blocked date handler
func NewBlockedDateHandler(repo repositories.BlockedDateRepository) *BlockedDateHandler {
	return &BlockedDateHandler{
		repo: repo,
	}
}

type upsertBlockedDateRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// UpsertBlockedDate handles POST /api/blocked-dates. Blocking an already
// blocked date replaces its reason.
func (h *BlockedDateHandler) UpsertBlockedDate(w http.ResponseWriter, r *http.Request) {
	var req upsertBlockedDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if !validDate(req.Date) {
		respondWithAppError(w, apperrors.NewFieldValidationError("validation failed", map[string]string{
			"date": "date must be YYYY-MM-DD",
		}))
		return
	}

	blocked := &entities.BlockedDate{
		Date:   req.Date,
		Reason: req.Reason,
	}

	if err := h.repo.Upsert(r.Context(), blocked); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, blocked)
}

// ListBlockedDates handles GET /api/blocked-dates
func (h *BlockedDateHandler) ListBlockedDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.repo.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"blocked_dates": dates,
		"count":         len(dates),
	})
}

// GetBlockedDate handles GET /api/blocked-dates/{date}
func (h *BlockedDateHandler) GetBlockedDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validDate(date) {
		respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	blocked, err := h.repo.GetByDate(r.Context(), date)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, blocked)
}

// DeleteBlockedDate handles DELETE /api/blocked-dates/{date}
func (h *BlockedDateHandler) DeleteBlockedDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validDate(date) {
		respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if err := h.repo.DeleteByDate(r.Context(), date); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "blocked date removed successfully"})
}
