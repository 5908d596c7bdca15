package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"

	"swiftremind/internal/domain/user"
	"swiftremind/internal/pkg/apperrors"
	"swiftremind/internal/pkg/authz"
)

const userColumns = `id, organisation_id, name, email, password_hash, role, created_at, updated_at`

type UserRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ user.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db DBPool, logger *slog.Logger) *UserRepository {
	if db == nil {
		panic("DBPool cannot be nil for UserRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "UserRepository"),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.logger.InfoContext(ctx, "Attempting to insert new user", slog.String("email", u.Email))

	query := `
        INSERT INTO users (organisation_id, name, email, password_hash, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		u.OrganisationID,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
	).Scan(&u.UserID, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			// users.email carries a unique index, unlike customer phones.
			return user.ErrDuplicateEmail
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert user: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "User inserted successfully", slog.Int64("userID", u.UserID))
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID int64) (*user.User, error) {
	r.logger.DebugContext(ctx, "Attempting to find user by ID", slog.Int64("userID", userID))

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "User not found", slog.Int64("userID", userID))
			return nil, user.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan user by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get user by ID: %w", apperrors.ErrDatabase, err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.logger.DebugContext(ctx, "Attempting to find user by email")

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan user by email", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get user by email: %w", apperrors.ErrDatabase, err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int, error) {
	r.logger.DebugContext(ctx, "Attempting to list users", slog.Int("offset", filter.Offset), slog.Int("limit", filter.Limit))

	where := " WHERE 1=1"
	args := []any{}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND email ILIKE $%d", len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count users", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to count users: %w", apperrors.ErrDatabase, err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query users", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to query users: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan user row: %w", apperrors.ErrDatabase, err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: error iterating user rows: %w", apperrors.ErrDatabase, err)
	}

	return users, total, nil
}

func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	r.logger.InfoContext(ctx, "Attempting to delete user", slog.Int64("userID", userID))

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute delete user", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete user: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, user likely not found")
		return user.ErrNotFound
	}

	r.logger.InfoContext(ctx, "User deleted successfully", slog.Int64("userID", userID))
	return nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u    user.User
		role string
	)
	err := row.Scan(
		&u.UserID,
		&u.OrganisationID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = authz.ParseRole(role)
	return &u, nil
}
