package handlers

import (
	"regexp"
)

// Input shape checks performed before anything reaches the services.
// Formats are fixed-width so the admission engine can compare lexically.
var (
	timePattern  = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	uuidPattern  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

func validTime(s string) bool {
	return timePattern.MatchString(s)
}

func validDate(s string) bool {
	return datePattern.MatchString(s)
}

func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func validUUID(s string) bool {
	return uuidPattern.MatchString(s)
}
