package model

import "time"

// User mirrors the `users` table. PasswordHash holds a bcrypt digest;
// the plain password never leaves the auth service.
type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
