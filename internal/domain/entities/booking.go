package entities

import (
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// PaymentStatus tracks payment state on a booking. Payment processing itself
// happens outside this system; only the status is recorded.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// ValidBookingStatus reports whether s is one of the known lifecycle states.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Booking represents a reserved (service, date, time) slot.
//
// BookingDate is "YYYY-MM-DD" and BookingTime is zero-padded 24h "HH:mm",
// both in UTC. At most one booking with status PENDING or CONFIRMED may exist
// per (service, date, time) tuple.
type Booking struct {
	ID               string        `json:"id" db:"id"`
	BookingReference string        `json:"booking_reference" db:"booking_reference"`
	ClientName       string        `json:"client_name" db:"client_name"`
	ClientEmail      string        `json:"client_email" db:"client_email"`
	ClientPhone      string        `json:"client_phone" db:"client_phone"`
	ServiceID        string        `json:"service_id" db:"service_id"`
	BookingDate      string        `json:"booking_date" db:"booking_date"`
	BookingTime      string        `json:"booking_time" db:"booking_time"`
	Status           BookingStatus `json:"status" db:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentRef       string        `json:"payment_ref,omitempty" db:"payment_ref"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// Active reports whether the booking still occupies its slot.
func (b *Booking) Active() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
