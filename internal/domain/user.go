package domain

import (
	"context"
	"time"
)

// User is an account that owns persistent notes.
type User struct {
	UID       int64
	Email     string
	Password  string // bcrypt hash
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserRepository interface {
	// Create stores a new user and fills in UID and timestamps.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByUID returns the user with the given uid.
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByEmail returns the user registered with email, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
