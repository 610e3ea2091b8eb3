package entity

import "time"

// User account statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User is an authorized dashboard viewer. Access to the reports is gated on a
// valid account; there is no role model beyond that.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Status       string // active | suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
