package entity

import (
	"time"
)

// User is the aggregate root for the registration domain.
// PasswordHash holds a bcrypt hash; the plaintext is never persisted or logged.
//
// IsVerified only ever transitions false -> true, and only through the
// verification flow.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
}
