package storage

import "errors"

// Sentinel errors shared by the in-memory repositories. The usecase layer
// translates them into the tagged errors the delivery layer understands.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already taken")
	ErrSessionNotFound = errors.New("session not found")
)
