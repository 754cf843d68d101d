package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// ServiceHandler handles service catalog requests
type ServiceHandler struct {
	repo repositories.ServiceRepository
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(repo repositories.ServiceRepository) *ServiceHandler {
	return &ServiceHandler{
		repo: repo,
	}
}

type upsertServiceRequest struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	IsActive        *bool   `json:"is_active"`
}

func (r *upsertServiceRequest) validate() map[string]string {
	fields := map[string]string{}

	if r.Name == "" {
		fields["name"] = "name is required"
	}
	if r.DurationMinutes <= 0 {
		fields["duration_minutes"] = "duration must be positive"
	}
	if r.Price < 0 {
		fields["price"] = "price must not be negative"
	}
	if r.ID != "" && !validUUID(r.ID) {
		fields["id"] = "invalid service id"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// UpsertService handles POST /api/services. A request without an id creates
// a new service; with an id it updates the existing one.
func (h *ServiceHandler) UpsertService(w http.ResponseWriter, r *http.Request) {
	var req upsertServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if fields := req.validate(); fields != nil {
		respondWithAppError(w, apperrors.NewFieldValidationError("validation failed", fields))
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	service := &entities.Service{
		ID:              req.ID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Currency:        currency,
		IsActive:        active,
	}

	if err := h.repo.Upsert(r.Context(), service); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, service)
}

// ListServices handles GET /api/services
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"services": services,
		"count":    len(services),
	})
}

// GetService handles GET /api/services/{id}
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "service ID is required")
		return
	}

	service, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, service)
}

// DeleteService handles DELETE /api/services/{id}
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "service ID is required")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "service deleted successfully"})
}
