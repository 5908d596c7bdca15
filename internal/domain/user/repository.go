package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

type ListFilter struct {
	Search string
	Offset int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error

	FindByID(ctx context.Context, userID int64) (*User, error)

	// FindByEmail matches the lowercased email exactly.
	FindByEmail(ctx context.Context, email string) (*User, error)

	List(ctx context.Context, filter ListFilter) ([]*User, int, error)

	Delete(ctx context.Context, userID int64) error
}
