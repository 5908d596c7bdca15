package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"

	"swiftremind/internal/domain/organisation"
	"swiftremind/internal/pkg/apperrors"
)

const organisationColumns = `id, name, email, phone, address, deleted, created_at, updated_at`

type OrganisationRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ organisation.OrganisationRepository = (*OrganisationRepository)(nil)

func NewOrganisationRepository(db DBPool, logger *slog.Logger) *OrganisationRepository {
	if db == nil {
		panic("DBPool cannot be nil for OrganisationRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &OrganisationRepository{
		db:     db,
		logger: logger.With("component", "OrganisationRepository"),
	}
}

func (r *OrganisationRepository) Create(ctx context.Context, org *organisation.Organisation) error {
	r.logger.InfoContext(ctx, "Attempting to insert new organisation", slog.String("name", org.Name))

	query := `
        INSERT INTO organisations (name, email, phone, address, deleted, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		org.Name,
		org.Email,
		org.Phone,
		org.Address,
		org.Deleted,
	).Scan(&org.OrganisationID, &org.CreatedAt, &org.UpdatedAt)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert organisation", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert organisation: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Organisation inserted successfully", slog.Int64("organisationID", org.OrganisationID))
	return nil
}

func (r *OrganisationRepository) FindByID(ctx context.Context, organisationID int64) (*organisation.Organisation, error) {
	r.logger.DebugContext(ctx, "Attempting to find organisation by ID", slog.Int64("organisationID", organisationID))

	query := `SELECT ` + organisationColumns + ` FROM organisations WHERE id = $1 AND deleted = FALSE`

	org, err := scanOrganisation(r.db.QueryRow(ctx, query, organisationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Organisation not found", slog.Int64("organisationID", organisationID))
			return nil, organisation.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan organisation by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get organisation by ID: %w", apperrors.ErrDatabase, err)
	}
	return org, nil
}

func (r *OrganisationRepository) List(ctx context.Context, filter organisation.ListFilter) ([]*organisation.Organisation, int, error) {
	r.logger.DebugContext(ctx, "Attempting to list organisations", slog.Int("offset", filter.Offset), slog.Int("limit", filter.Limit))

	where := " WHERE deleted = FALSE"
	args := []any{}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+2)
		args = append(args, pattern, pattern)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM organisations`+where, args...).Scan(&total); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count organisations", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to count organisations: %w", apperrors.ErrDatabase, err)
	}

	query := `SELECT ` + organisationColumns + ` FROM organisations` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query organisations", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to query organisations: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	orgs := make([]*organisation.Organisation, 0)
	for rows.Next() {
		org, err := scanOrganisation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan organisation row: %w", apperrors.ErrDatabase, err)
		}
		orgs = append(orgs, org)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: error iterating organisation rows: %w", apperrors.ErrDatabase, err)
	}

	return orgs, total, nil
}

func (r *OrganisationRepository) Update(ctx context.Context, organisationID int64, patch *organisation.UpdatePatch) (*organisation.Organisation, error) {
	if patch == nil {
		return nil, fmt.Errorf("%w: update patch cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to update organisation", slog.Int64("organisationID", organisationID))

	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, organisationID)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE organisations SET %s WHERE id = $%d AND deleted = FALSE RETURNING `+organisationColumns,
		strings.Join(sets, ", "), len(args)+1)
	args = append(args, organisationID)

	org, err := scanOrganisation(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Update matched no organisation", slog.Int64("organisationID", organisationID))
			return nil, organisation.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to update organisation", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to update organisation: %w", apperrors.ErrDatabase, err)
	}
	return org, nil
}

func (r *OrganisationRepository) SetDeleted(ctx context.Context, organisationID int64, deleted bool) (*organisation.Organisation, error) {
	r.logger.InfoContext(ctx, "Attempting to set organisation deleted flag", slog.Int64("organisationID", organisationID), slog.Bool("deleted", deleted))

	query := `UPDATE organisations SET deleted = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + organisationColumns

	org, err := scanOrganisation(r.db.QueryRow(ctx, query, deleted, organisationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, organisation.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to set organisation deleted flag", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to set deleted flag: %w", apperrors.ErrDatabase, err)
	}
	return org, nil
}

func scanOrganisation(row pgx.Row) (*organisation.Organisation, error) {
	var org organisation.Organisation
	err := row.Scan(
		&org.OrganisationID,
		&org.Name,
		&org.Email,
		&org.Phone,
		&org.Address,
		&org.Deleted,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
