package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"swiftremind/internal/domain/reminder"
	"swiftremind/internal/pkg/apperrors"
)

const reminderColumns = `id, organisation_id, customer_id, amount, due_date, notes, status, created_at, updated_at`

type ReminderRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ reminder.ReminderRepository = (*ReminderRepository)(nil)

func NewReminderRepository(db DBPool, logger *slog.Logger) *ReminderRepository {
	if db == nil {
		panic("DBPool cannot be nil for ReminderRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &ReminderRepository{
		db:     db,
		logger: logger.With("component", "ReminderRepository"),
	}
}

func (r *ReminderRepository) Create(ctx context.Context, rem *reminder.Reminder) error {
	r.logger.InfoContext(ctx, "Attempting to insert new reminder", slog.Int64("customerID", rem.CustomerID))

	query := `
        INSERT INTO reminders (organisation_id, customer_id, amount, due_date, notes, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		rem.OrganisationID,
		rem.CustomerID,
		rem.Amount,
		rem.DueDate,
		rem.Notes,
		string(rem.Status),
	).Scan(&rem.ReminderID, &rem.CreatedAt, &rem.UpdatedAt)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert reminder", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert reminder: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Reminder inserted successfully", slog.Int64("reminderID", rem.ReminderID))
	return nil
}

func (r *ReminderRepository) FindByID(ctx context.Context, reminderID int64, scope reminder.Scope) (*reminder.Reminder, error) {
	r.logger.DebugContext(ctx, "Attempting to find reminder by ID", slog.Int64("reminderID", reminderID))

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`
	args := []any{reminderID}
	query, args = appendReminderScope(query, args, scope)

	rem, err := scanReminder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Reminder not found", slog.Int64("reminderID", reminderID))
			return nil, reminder.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan reminder by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get reminder by ID: %w", apperrors.ErrDatabase, err)
	}
	return rem, nil
}

func (r *ReminderRepository) List(ctx context.Context, filter reminder.ListFilter) ([]*reminder.Reminder, int, error) {
	r.logger.DebugContext(ctx, "Attempting to list reminders", slog.Int("offset", filter.Offset), slog.Int("limit", filter.Limit))

	where := " WHERE 1=1"
	args := []any{}
	where, args = appendReminderScope(where, args, filter.Scope)
	if filter.Search != "" {
		where += fmt.Sprintf(" AND notes ILIKE $%d", len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reminders`+where, args...).Scan(&total); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count reminders", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to count reminders: %w", apperrors.ErrDatabase, err)
	}

	query := `SELECT ` + reminderColumns + ` FROM reminders` + where +
		fmt.Sprintf(" ORDER BY due_date ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query reminders", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to query reminders: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	reminders := make([]*reminder.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan reminder row: %w", apperrors.ErrDatabase, err)
		}
		reminders = append(reminders, rem)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: error iterating reminder rows: %w", apperrors.ErrDatabase, err)
	}

	return reminders, total, nil
}

func (r *ReminderRepository) Update(ctx context.Context, reminderID int64, scope reminder.Scope, patch *reminder.UpdatePatch) (*reminder.Reminder, error) {
	if patch == nil {
		return nil, fmt.Errorf("%w: update patch cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to update reminder", slog.Int64("reminderID", reminderID))

	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, reminderID, scope)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE reminders SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)+1)
	args = append(args, reminderID)
	query, args = appendReminderScope(query, args, scope)
	query += ` RETURNING ` + reminderColumns

	rem, err := scanReminder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Update matched no reminder", slog.Int64("reminderID", reminderID))
			return nil, reminder.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to update reminder", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to update reminder: %w", apperrors.ErrDatabase, err)
	}
	return rem, nil
}

func (r *ReminderRepository) Delete(ctx context.Context, reminderID int64, scope reminder.Scope) error {
	r.logger.InfoContext(ctx, "Attempting to hard delete reminder", slog.Int64("reminderID", reminderID))

	query := `DELETE FROM reminders WHERE id = $1`
	args := []any{reminderID}
	query, args = appendReminderScope(query, args, scope)

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute delete reminder", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete reminder: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, reminder likely not found")
		return reminder.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Reminder deleted successfully", slog.Int64("reminderID", reminderID))
	return nil
}

func (r *ReminderRepository) FindDueForDispatch(ctx context.Context, now time.Time) ([]*reminder.DueReminder, error) {
	r.logger.DebugContext(ctx, "Attempting to find reminders due for dispatch")

	query := `
        SELECT r.id, r.organisation_id, r.customer_id, r.amount, r.due_date, r.notes, r.status,
               r.created_at, r.updated_at,
               c.name, c.phone, c.email, c.preferred_contact_method
        FROM reminders r
        JOIN customers c ON c.id = r.customer_id
        WHERE r.status = $1
          AND r.due_date <= $2
          AND c.deleted = FALSE
          AND c.auto_reminder = TRUE
        ORDER BY r.due_date ASC`

	rows, err := r.db.Query(ctx, query, string(reminder.StatusPending), now)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query due reminders", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query due reminders: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	due := make([]*reminder.DueReminder, 0)
	for rows.Next() {
		var (
			d      reminder.DueReminder
			status string
		)
		err := rows.Scan(
			&d.ReminderID,
			&d.OrganisationID,
			&d.CustomerID,
			&d.Amount,
			&d.DueDate,
			&d.Notes,
			&status,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.CustomerName,
			&d.CustomerPhone,
			&d.CustomerEmail,
			&d.PreferredContactMethod,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan due reminder row: %w", apperrors.ErrDatabase, err)
		}
		d.Status = reminder.Status(status)
		due = append(due, &d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating due reminder rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished finding due reminders", slog.Int("count", len(due)))
	return due, nil
}

func appendReminderScope(query string, args []any, scope reminder.Scope) (string, []any) {
	if scope.OrganisationID != nil {
		query += fmt.Sprintf(" AND organisation_id = $%d", len(args)+1)
		args = append(args, *scope.OrganisationID)
	}
	return query, args
}

func scanReminder(row pgx.Row) (*reminder.Reminder, error) {
	var (
		rem    reminder.Reminder
		status string
	)
	err := row.Scan(
		&rem.ReminderID,
		&rem.OrganisationID,
		&rem.CustomerID,
		&rem.Amount,
		&rem.DueDate,
		&rem.Notes,
		&status,
		&rem.CreatedAt,
		&rem.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rem.Status = reminder.Status(status)
	return &rem, nil
}
