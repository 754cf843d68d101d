package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polaris-studio/booking-backend/internal/domain/entities"
)

func TestBusinessHour_Contains(t *testing.T) {
	window := &entities.BusinessHour{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsOpen: true}

	cases := []struct {
		time string
		want bool
	}{
		{"09:00", true},  // opening boundary is bookable
		{"17:00", true},  // closing boundary is bookable
		{"12:30", true},
		{"08:59", false},
		{"17:01", false},
		{"00:00", false},
		{"23:59", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, window.Contains(tc.time), "time %s", tc.time)
	}
}

func TestBooking_Active(t *testing.T) {
	assert.True(t, (&entities.Booking{Status: entities.BookingStatusPending}).Active())
	assert.True(t, (&entities.Booking{Status: entities.BookingStatusConfirmed}).Active())
	assert.False(t, (&entities.Booking{Status: entities.BookingStatusCancelled}).Active())
	assert.False(t, (&entities.Booking{Status: entities.BookingStatusCompleted}).Active())
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range []entities.BookingStatus{"PENDING", "CONFIRMED", "CANCELLED", "COMPLETED"} {
		assert.True(t, entities.ValidBookingStatus(s))
	}
	assert.False(t, entities.ValidBookingStatus("ARCHIVED"))
	assert.False(t, entities.ValidBookingStatus("pending"))
}

func TestUser_CanManage(t *testing.T) {
	assert.True(t, (&entities.User{Role: entities.UserRoleAdmin}).CanManage())
	assert.True(t, (&entities.User{Role: entities.UserRoleManager}).CanManage())
	assert.False(t, (&entities.User{Role: entities.UserRoleEmployee}).CanManage())
}
