package models

import "time"

// User is an account row. PasswordHash is consumed, never computed, by the
// token core; hashing lives in the password package.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsVerified   bool
	CreatedOn    time.Time
}
