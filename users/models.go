// Package users is the credential store: it persists user records and
// enforces email uniqueness. It knows nothing about HTTP or tokens; the auth
// package drives it through the Store interface.
package users

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by every Store implementation. Callers compare
// with errors.Is and translate them into apperror types.
var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// User represents a registered account.
// The password hash is tagged `json:"-"` so it can never leak into a response.
type User struct {
	ID           string    `json:"_id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password"`
	Date         time.Time `json:"date" db:"date"`
}

// Store is the persistence contract for users.
type Store interface {
	// Create persists u, assigning its ID and Date. It returns ErrEmailTaken
	// if another user already holds the email.
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
