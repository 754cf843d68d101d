package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// BusinessHourHandler handles weekly opening hours requests
type BusinessHourHandler struct {
	repo repositories.BusinessHourRepository
}

// NewBusinessHourHandler creates a new business hour handler
func NewBusinessHourHandler(repo repositories.BusinessHourRepository) *BusinessHourHandler {
	return &BusinessHourHandler{
		repo: repo,
	}
}

type upsertBusinessHourRequest struct {
	DayOfWeek *int   `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsOpen    *bool  `json:"is_open"`
}

func (r *upsertBusinessHourRequest) validate() map[string]string {
	fields := map[string]string{}

	if r.DayOfWeek == nil || *r.DayOfWeek < 0 || *r.DayOfWeek > 6 {
		fields["day_of_week"] = "day_of_week must be between 0 (Sunday) and 6 (Saturday)"
	}
	if !validTime(r.StartTime) {
		fields["start_time"] = "start_time must be HH:mm"
	}
	if !validTime(r.EndTime) {
		fields["end_time"] = "end_time must be HH:mm"
	}
	if validTime(r.StartTime) && validTime(r.EndTime) && r.EndTime < r.StartTime {
		fields["end_time"] = "end_time must not be before start_time"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// UpsertBusinessHour handles POST /api/business-hours. One row per weekday;
// posting an existing weekday replaces its window.
func (h *BusinessHourHandler) UpsertBusinessHour(w http.ResponseWriter, r *http.Request) {
	var req upsertBusinessHourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if fields := req.validate(); fields != nil {
		respondWithAppError(w, apperrors.NewFieldValidationError("validation failed", fields))
		return
	}

	open := true
	if req.IsOpen != nil {
		open = *req.IsOpen
	}

	hour := &entities.BusinessHour{
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsOpen:    open,
	}

	if err := h.repo.Upsert(r.Context(), hour); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hour)
}

// ListBusinessHours handles GET /api/business-hours
func (h *BusinessHourHandler) ListBusinessHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.repo.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"business_hours": hours,
		"count":          len(hours),
	})
}

// GetBusinessHour handles GET /api/business-hours/{day}
func (h *BusinessHourHandler) GetBusinessHour(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil || day < 0 || day > 6 {
		respondWithError(w, http.StatusBadRequest, "day must be between 0 (Sunday) and 6 (Saturday)")
		return
	}

	hour, err := h.repo.GetByDay(r.Context(), day)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hour)
}

// DeleteBusinessHour handles DELETE /api/business-hours/{day}
func (h *BusinessHourHandler) DeleteBusinessHour(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil || day < 0 || day > 6 {
		respondWithError(w, http.StatusBadRequest, "day must be between 0 (Sunday) and 6 (Saturday)")
		return
	}

	if err := h.repo.DeleteByDay(r.Context(), day); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "business hours deleted successfully"})
}
