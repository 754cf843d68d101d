package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
	"github.com/polaris-studio/booking-backend/internal/domain/repositories"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/polaris-studio/booking-backend/pkg/errors"
)

var bookingColumns = []interface{}{
	"id", "booking_reference", "client_name", "client_email", "client_phone",
	"service_id", "booking_date", "booking_time", "status", "payment_status",
	"payment_ref", "created_at", "updated_at",
}

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CreateIfSlotFree inserts the booking only when its slot is unoccupied.
//
// Candidate rows for the same slot are locked before the existence check so
// two concurrent requests serialize on the same slot. The partial unique
// index on (service_id, booking_date, booking_time) over active statuses is
// the final authority: a unique violation at insert time also maps to
// CONFLICT.
func (a *BookingAdapter) CreateIfSlotFree(ctx context.Context, booking *entities.Booking) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	lockQuery, lockArgs, err := a.db.Select("id").
		From("bookings").
		Where(goqu.Ex{
			"service_id":   booking.ServiceID,
			"booking_date": booking.BookingDate,
			"booking_time": booking.BookingTime,
			"status":       []entities.BookingStatus{entities.BookingStatusPending, entities.BookingStatusConfirmed},
		}).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build slot lock query", err)
	}

	var existingID string
	err = tx.QueryRowContext(ctx, lockQuery, lockArgs...).Scan(&existingID)
	if err == nil {
		return apperrors.NewConflictError("booking already exists for slot")
	}
	if err != sql.ErrNoRows {
		return apperrors.NewInternalError("failed to check slot availability", err)
	}

	insertQuery, insertArgs, err := a.db.Insert("bookings").Rows(goqu.Record{
		"id":                booking.ID,
		"booking_reference": booking.BookingReference,
		"client_name":       booking.ClientName,
		"client_email":      booking.ClientEmail,
		"client_phone":      booking.ClientPhone,
		"service_id":        booking.ServiceID,
		"booking_date":      booking.BookingDate,
		"booking_time":      booking.BookingTime,
		"status":            booking.Status,
		"payment_status":    booking.PaymentStatus,
		"payment_ref":       booking.PaymentRef,
		"created_at":        booking.CreatedAt,
		"updated_at":        booking.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
	if isUniqueViolation(err) {
		return apperrors.NewConflictError("booking already exists for slot")
	}
	if isForeignKeyViolation(err) {
		return apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", booking.ServiceID))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to create booking", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit booking", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	return a.getBy(ctx, goqu.Ex{"id": id}, fmt.Sprintf("booking with id %s not found", id))
}

// GetByReference retrieves a booking by its human-readable reference
func (a *BookingAdapter) GetByReference(ctx context.Context, reference string) (*entities.Booking, error) {
	return a.getBy(ctx, goqu.Ex{"booking_reference": reference}, fmt.Sprintf("booking with reference %s not found", reference))
}

func (a *BookingAdapter) getBy(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("bookings").
		Where(where).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking, err := scanBooking(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}

	return booking, nil
}

// List retrieves bookings, newest first
func (a *BookingAdapter) List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error) {
	ds := a.db.Select(bookingColumns...).From("bookings")

	if filter.Date != "" {
		ds = ds.Where(goqu.Ex{"booking_date": filter.Date})
	}
	if filter.ServiceID != "" {
		ds = ds.Where(goqu.Ex{"service_id": filter.ServiceID})
	}
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*entities.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

// UpdateStatus sets the booking's lifecycle status
func (a *BookingAdapter) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) error {
	query, args, err := a.db.Update("bookings").
		Set(goqu.Record{
			"status":     status,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update booking status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}

	return nil
}

// Delete hard-deletes a booking
func (a *BookingAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("bookings").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete booking", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}

	return nil
}

func scanBooking(row rowScanner) (*entities.Booking, error) {
	booking := &entities.Booking{}
	var paymentRef sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.BookingReference,
		&booking.ClientName,
		&booking.ClientEmail,
		&booking.ClientPhone,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.BookingTime,
		&booking.Status,
		&booking.PaymentStatus,
		&paymentRef,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.PaymentRef = paymentRef.String
	return booking, nil
}
