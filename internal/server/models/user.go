// Package models defines the server-side records persisted in the database
// and the inputs that create or change them.
package models

import "time"

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
