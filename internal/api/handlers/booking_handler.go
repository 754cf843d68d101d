package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/polaris-studio/booking-backend/internal/application/services"
	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// BookingService defines the interface for booking operations
type BookingService interface {
	AdmitBooking(ctx context.Context, booking *entities.Booking) error
	GetByID(ctx context.Context, id string) (*entities.Booking, error)
	GetByReference(ctx context.Context, reference string) (*entities.Booking, error)
	List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error)
	UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) (*entities.Booking, error)
	Delete(ctx context.Context, id string) error
}

// BookingHandler handles booking requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

type createBookingRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	ServiceID   string `json:"service_id"`
	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
}

func (r *createBookingRequest) validate() map[string]string {
	fields := map[string]string{}

	if len(r.ClientName) < 2 {
		fields["client_name"] = "client name must be at least 2 characters"
	}
	if !validEmail(r.ClientEmail) {
		fields["client_email"] = "invalid email address"
	}
	if len(r.ClientPhone) < 7 || len(r.ClientPhone) > 20 {
		fields["client_phone"] = "phone must be between 7 and 20 characters"
	}
	if !validUUID(r.ServiceID) {
		fields["service_id"] = "invalid service id"
	}
	if !validDate(r.BookingDate) {
		fields["booking_date"] = "date must be YYYY-MM-DD"
	}
	if !validTime(r.BookingTime) {
		fields["booking_time"] = "time must be HH:mm"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if fields := req.validate(); fields != nil {
		respondWithAppError(w, apperrors.NewFieldValidationError("validation failed", fields))
		return
	}

	booking := &entities.Booking{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		ServiceID:   req.ServiceID,
		BookingDate: req.BookingDate,
		BookingTime: req.BookingTime,
	}

	if err := h.service.AdmitBooking(r.Context(), booking); err != nil {
		if rejection, ok := services.AsRejection(err); ok {
			respondWithJSON(w, http.StatusConflict, map[string]string{
				"error":  rejection.Message,
				"reason": string(rejection.Reason),
			})
			return
		}
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, booking)
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := repositories.BookingFilter{
		Date:      r.URL.Query().Get("date"),
		ServiceID: r.URL.Query().Get("service_id"),
	}
	if filter.Date != "" && !validDate(filter.Date) {
		respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	bookings, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// GetBookingByReference handles GET /api/bookings/reference/{reference}
func (h *BookingHandler) GetBookingByReference(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")
	if reference == "" {
		respondWithError(w, http.StatusBadRequest, "booking reference is required")
		return
	}

	booking, err := h.service.GetByReference(r.Context(), reference)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

type updateStatusRequest struct {
	Status entities.BookingStatus `json:"status"`
}

// UpdateBookingStatus handles PATCH /api/bookings/{id}
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// DeleteBooking handles DELETE /api/bookings/{id}
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "booking deleted successfully"})
}
