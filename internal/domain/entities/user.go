package entities

import (
	"time"
)

// UserRole represents the role assigned to a staff account
type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleManager  UserRole = "MANAGER"
	UserRoleEmployee UserRole = "EMPLOYEE"
)

// User represents a staff account that can manage the booking system
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CanManage reports whether the user may perform administrative operations.
// EMPLOYEE accounts are read-only.
func (u *User) CanManage() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleManager
}
