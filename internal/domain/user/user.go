package user

import (
	"time"

	"swiftremind/internal/pkg/authz"
)

// User is an account that can sign in. PasswordHash is a bcrypt hash and is
// never serialized out of the service layer.
type User struct {
	UserID         int64
	OrganisationID int64

	Name         string
	Email        string
	PasswordHash string
	Role         authz.Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewUser(organisationID int64, name, email, passwordHash string, role authz.Role) *User {
	now := time.Now()
	return &User{
		OrganisationID: organisationID,
		Name:           name,
		Email:          email,
		PasswordHash:   passwordHash,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
