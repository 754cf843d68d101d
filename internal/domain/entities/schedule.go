package entities

import (
	"time"
)

// BusinessHour represents the opening window for one weekday (0=Sunday..6=Saturday).
// The absence of a row for a weekday means the business is closed that day.
type BusinessHour struct {
	DayOfWeek int       `json:"day_of_week" db:"day_of_week"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	IsOpen    bool      `json:"is_open" db:"is_open"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Contains reports whether t (zero-padded "HH:mm") falls within the window,
// boundaries inclusive. Lexical comparison is valid because the format is
// fixed-width 24h.
func (h *BusinessHour) Contains(t string) bool {
	return t >= h.StartTime && t <= h.EndTime
}

// BlockedDate represents a calendar date on which no bookings are admitted,
// regardless of business hours.
type BlockedDate struct {
	Date      string    `json:"date" db:"date"`
	Reason    string    `json:"reason,omitempty" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
