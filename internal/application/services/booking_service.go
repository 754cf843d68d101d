package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

// RejectionReason identifies why a booking request was not admitted
type RejectionReason string

const (
	RejectionInvalidService RejectionReason = "INVALID_SERVICE"
	RejectionDateBlocked    RejectionReason = "DATE_BLOCKED"
	RejectionClosed         RejectionReason = "CLOSED"
	RejectionOutsideHours   RejectionReason = "OUTSIDE_HOURS"
	RejectionSlotTaken      RejectionReason = "SLOT_TAKEN"
)

// AdmissionRejection is a business-rule rejection of a booking request.
// It is expected control flow, not a system fault.
type AdmissionRejection struct {
	Reason  RejectionReason
	Message string
}

// Error implements the error interface
func (r *AdmissionRejection) Error() string {
	return fmt.Sprintf("booking rejected (%s): %s", r.Reason, r.Message)
}

func reject(reason RejectionReason, message string) *AdmissionRejection {
	return &AdmissionRejection{Reason: reason, Message: message}
}

// AsRejection returns the AdmissionRejection inside err, if any
func AsRejection(err error) (*AdmissionRejection, bool) {
	rejection, ok := err.(*AdmissionRejection)
	return rejection, ok
}

// BookingService decides whether a requested slot becomes a persisted
// booking, and owns the booking lifecycle afterwards.
type BookingService struct {
	bookings     repositories.BookingRepository
	services     repositories.ServiceRepository
	hours        repositories.BusinessHourRepository
	blockedDates repositories.BlockedDateRepository
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings repositories.BookingRepository,
	services repositories.ServiceRepository,
	hours repositories.BusinessHourRepository,
	blockedDates repositories.BlockedDateRepository,
) *BookingService {
	return &BookingService{
		bookings:     bookings,
		services:     services,
		hours:        hours,
		blockedDates: blockedDates,
	}
}

// AdmitBooking runs the admission sequence for a candidate booking and
// persists it on success. Each step short-circuits with a distinct
// AdmissionRejection:
//
//  1. the service must exist (INVALID_SERVICE)
//  2. the date must not be blocked (DATE_BLOCKED)
//  3. the weekday must be open (CLOSED) and the time inside the window,
//     boundaries inclusive (OUTSIDE_HOURS)
//  4. the slot must be free of PENDING/CONFIRMED bookings (SLOT_TAKEN)
//
// The final insert re-checks the slot under a lock, so a concurrent request
// racing past step 4 still comes back as SLOT_TAKEN. On success the booking
// is mutated in place with its id, reference and PENDING statuses.
func (s *BookingService) AdmitBooking(ctx context.Context, booking *entities.Booking) error {
	if _, err := s.services.GetByID(ctx, booking.ServiceID); err != nil {
		if apperrors.IsNotFound(err) {
			return reject(RejectionInvalidService, "invalid serviceId provided")
		}
		return err
	}

	blocked, err := s.blockedDates.GetByDate(ctx, booking.BookingDate)
	if err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	if blocked != nil {
		return reject(RejectionDateBlocked, "selected date is blocked")
	}

	dayOfWeek, err := weekdayOf(booking.BookingDate)
	if err != nil {
		return apperrors.NewValidationError("booking date must be YYYY-MM-DD")
	}

	hour, err := s.hours.GetByDay(ctx, dayOfWeek)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return reject(RejectionClosed, "business is closed on this day")
		}
		return err
	}
	if !hour.IsOpen {
		return reject(RejectionClosed, "business is closed on this day")
	}
	if !hour.Contains(booking.BookingTime) {
		return reject(RejectionOutsideHours, "booking time is outside business hours")
	}

	booking.ID = uuid.New().String()
	booking.BookingReference = generateReference(booking.BookingDate)
	booking.Status = entities.BookingStatusPending
	booking.PaymentStatus = entities.PaymentStatusPending
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	if err := s.bookings.CreateIfSlotFree(ctx, booking); err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeConflict {
			return reject(RejectionSlotTaken, "booking already exists for slot")
		}
		if apperrors.IsNotFound(err) {
			// Service deleted between the existence check and the insert.
			return reject(RejectionInvalidService, "invalid serviceId provided")
		}
		return err
	}

	log.Info().
		Str("booking_reference", booking.BookingReference).
		Str("service_id", booking.ServiceID).
		Str("date", booking.BookingDate).
		Str("time", booking.BookingTime).
		Msg("booking admitted")

	return nil
}

// GetByID retrieves a booking by ID
func (s *BookingService) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// GetByReference retrieves a booking by its human-readable reference
func (s *BookingService) GetByReference(ctx context.Context, reference string) (*entities.Booking, error) {
	return s.bookings.GetByReference(ctx, reference)
}

// List retrieves bookings, newest first
func (s *BookingService) List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error) {
	return s.bookings.List(ctx, filter)
}

// UpdateStatus sets a booking's lifecycle status and returns the updated
// record. Any known status may be set from any other; no transition table is
// enforced.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) (*entities.Booking, error) {
	if !entities.ValidBookingStatus(status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown booking status %q", status))
	}

	if err := s.bookings.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.bookings.GetByID(ctx, id)
}

// Cancel marks a booking CANCELLED, freeing its slot
func (s *BookingService) Cancel(ctx context.Context, id string) (*entities.Booking, error) {
	return s.UpdateStatus(ctx, id, entities.BookingStatusCancelled)
}

// Delete hard-deletes a booking. Administrative operation, distinct from
// cancellation.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	return s.bookings.Delete(ctx, id)
}

// weekdayOf returns the weekday (0=Sunday..6=Saturday) of a "YYYY-MM-DD"
// date, interpreted in UTC.
func weekdayOf(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// generateReference builds a human-readable booking reference like
// "BK-20260202-1A2B3C". Six hex chars give ~16M combinations per day; the
// unique constraint on booking_reference is the final authority.
func generateReference(date string) string {
	stamp := strings.ReplaceAll(date, "-", "")

	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing means the process is in a bad state; fall back
		// to a timestamp suffix rather than refusing the booking.
		return fmt.Sprintf("BK-%s-%06X", stamp, time.Now().UnixNano()%0xFFFFFF)
	}

	return fmt.Sprintf("BK-%s-%s", stamp, strings.ToUpper(hex.EncodeToString(suffix)))
}
