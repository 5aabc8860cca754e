// Package models contains the persistent record types shared by
// repositories and services.
package models

import "time"

// User is a stored identity. PasswordHash never leaves the server process
// except as an input to token derivation.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	PublicAccess bool
	Readonly     bool
	CreatedAt    time.Time
}
