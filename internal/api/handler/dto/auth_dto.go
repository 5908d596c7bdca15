package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"swiftremind/internal/domain/user"
)

type SignupRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	OrganisationID int64  `json:"organisationId"`
}

func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if r.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if r.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	return nil
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	OrganisationID string    `json:"organisationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:             strconv.FormatInt(u.UserID, 10),
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		OrganisationID: strconv.FormatInt(u.OrganisationID, 10),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func NewUserListResponse(users []*user.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, NewUserResponse(u))
	}
	return responses
}
