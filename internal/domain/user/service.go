package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"swiftremind/internal/pkg/apperrors"
	"swiftremind/internal/pkg/authz"
)

const minPasswordLength = 6

type SignupInput struct {
	Name           string
	Email          string
	Password       string
	Role           string
	OrganisationID int64
}

type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

type UserService interface {
	// Signup creates an account with a bcrypt-hashed password.
	Signup(ctx context.Context, input SignupInput) (*User, error)

	// Authenticate verifies email/password and returns the account on success.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	GetUser(ctx context.Context, userID int64) (*User, error)
	ListUsers(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*User, int, error)
	DeleteUser(ctx context.Context, viewer authz.Viewer, userID int64) error
}

var _ UserService = (*userService)(nil)

type userService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewUserService(repo UserRepository, logger *slog.Logger) UserService {
	if repo == nil {
		panic("user repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewUserService, using default stderr handler")
	}
	return &userService{
		repo:   repo,
		logger: logger.With(slog.String("component", "userService")),
	}
}

func (s *userService) Signup(ctx context.Context, input SignupInput) (*User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("email", "must be a valid email address")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	s.logger.InfoContext(ctx, "Attempting to sign up new user", slog.String("email", email))

	if existing, err := s.repo.FindByEmail(ctx, email); err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.ErrorContext(ctx, "Repository error checking email uniqueness", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	} else if existing != nil {
		s.logger.WarnContext(ctx, "Signup rejected: email already registered", slog.String("email", email))
		return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to hash password: %w", apperrors.ErrInternalServer, err)
	}

	u := NewUser(input.OrganisationID, name, email, string(hash), authz.ParseRole(input.Role))
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
		}
		s.logger.ErrorContext(ctx, "Repository failed to save user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully signed up new user", slog.Int64("userID", u.UserID))
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.logger.DebugContext(ctx, "Authenticating user", slog.String("email", email))

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Authentication failed: unknown email", slog.String("email", email))
			return nil, apperrors.ErrUnauthorized
		}
		s.logger.ErrorContext(ctx, "Repository error during authentication", slog.Any("error", err))
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Authentication failed: password mismatch", slog.String("email", email))
		return nil, apperrors.ErrUnauthorized
	}

	s.logger.InfoContext(ctx, "User authenticated", slog.Int64("userID", u.UserID))
	return u, nil
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error getting user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*User, int, error) {
	if viewer.Role != authz.RoleSuperadmin {
		s.logger.WarnContext(ctx, "User listing denied", slog.String("role", string(viewer.Role)))
		return nil, 0, apperrors.ErrForbidden
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 10
	}

	users, total, err := s.repo.List(ctx, ListFilter{
		Search: strings.TrimSpace(query.Search),
		Offset: (query.Page - 1) * query.Limit,
		Limit:  query.Limit,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing users", slog.Any("error", err))
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *userService) DeleteUser(ctx context.Context, viewer authz.Viewer, userID int64) error {
	if viewer.Role != authz.RoleSuperadmin {
		s.logger.WarnContext(ctx, "User deletion denied", slog.String("role", string(viewer.Role)))
		return apperrors.ErrForbidden
	}
	if viewer.UserID == userID {
		return fmt.Errorf("%w: cannot delete your own account", apperrors.ErrInvalidArgument)
	}

	s.logger.InfoContext(ctx, "Deleting user", slog.Int64("userID", userID))
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to delete user", slog.Any("error", err))
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}
