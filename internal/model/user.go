package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
// Email is the natural key; implementations must enforce its uniqueness.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// User represents a registered account. PasswordHash never holds plaintext.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a User that is ready to be persisted. The ID is assigned by the store.
func NewUser(name, email, passwordHash string) (User, error) {
	switch {
	case strings.TrimSpace(name) == "":
		return User{}, fmt.Errorf("%w: name is required", ErrInvalidUser)
	case strings.TrimSpace(email) == "":
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidUser)
	case passwordHash == "":
		return User{}, fmt.Errorf("%w: password hash is required", ErrInvalidUser)
	}

	now := time.Now().UTC()
	return User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
