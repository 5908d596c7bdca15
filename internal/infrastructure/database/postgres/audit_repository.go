package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"swiftremind/internal/domain/audit"
	"swiftremind/internal/pkg/apperrors"
)

type AuditRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ audit.Repository = (*AuditRepository)(nil)

func NewAuditRepository(db DBPool, logger *slog.Logger) *AuditRepository {
	if db == nil {
		panic("DBPool cannot be nil for AuditRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &AuditRepository{
		db:     db,
		logger: logger.With("component", "AuditRepository"),
	}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *audit.Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: audit entry cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.DebugContext(ctx, "Attempting to insert audit entry", slog.String("action", entry.Action), slog.Int64("entityID", entry.EntityID))

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("%w: failed to encode audit details: %w", apperrors.ErrInvalidArgument, err)
	}

	query := `
        INSERT INTO audit_logs (action, entity, entity_id, user_id, user_name, organisation_id, details, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`

	err = r.db.QueryRow(ctx, query,
		entry.Action,
		entry.Entity,
		entry.EntityID,
		entry.UserID,
		entry.UserName,
		entry.OrganisationID,
		details,
		entry.Timestamp,
	).Scan(&entry.ID)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert audit entry", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert audit entry: %w", apperrors.ErrDatabase, err)
	}

	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, int, error) {
	r.logger.DebugContext(ctx, "Attempting to list audit entries", slog.Int("offset", filter.Offset), slog.Int("limit", filter.Limit))

	where := " WHERE 1=1"
	args := []any{}
	if filter.OrganisationID != nil {
		where += fmt.Sprintf(" AND organisation_id = $%d", len(args)+1)
		args = append(args, *filter.OrganisationID)
	}
	if filter.Entity != "" {
		where += fmt.Sprintf(" AND entity = $%d", len(args)+1)
		args = append(args, filter.Entity)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count audit entries", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to count audit entries: %w", apperrors.ErrDatabase, err)
	}

	query := `SELECT id, action, entity, entity_id, user_id, user_name, organisation_id, details, recorded_at
        FROM audit_logs` + where +
		fmt.Sprintf(" ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query audit entries", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to query audit entries: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	entries := make([]*audit.Entry, 0)
	for rows.Next() {
		var (
			entry   audit.Entry
			details []byte
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.Entity,
			&entry.EntityID,
			&entry.UserID,
			&entry.UserName,
			&entry.OrganisationID,
			&details,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan audit entry row: %w", apperrors.ErrDatabase, err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, 0, fmt.Errorf("%w: failed to decode audit details: %w", apperrors.ErrDatabase, err)
			}
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: error iterating audit entry rows: %w", apperrors.ErrDatabase, err)
	}

	return entries, total, nil
}
