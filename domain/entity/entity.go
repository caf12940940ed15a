package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. PasswordHash is the encoded
// credential produced by pkg/hasher and is never the plaintext password.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsActive     bool      `json:"is_active"`
}

// Session binds a bearer token to a user for a bounded time window.
// Token is generated once at login and never rotated; ExpiresAt is fixed
// at creation (no sliding renewal).
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
}
