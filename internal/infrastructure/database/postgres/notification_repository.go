package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"

	"swiftremind/internal/domain/notification"
	"swiftremind/internal/pkg/apperrors"
)

const notificationColumns = `id, organisation_id, customer_id, reminder_id, channel, status, message, sent_at, created_at`

type NotificationRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ notification.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository(db DBPool, logger *slog.Logger) *NotificationRepository {
	if db == nil {
		panic("DBPool cannot be nil for NotificationRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &NotificationRepository{
		db:     db,
		logger: logger.With("component", "NotificationRepository"),
	}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *notification.Notification) error {
	r.logger.InfoContext(ctx, "Attempting to insert notification", slog.Int64("customerID", n.CustomerID), slog.String("channel", string(n.Channel)))

	query := `
        INSERT INTO notifications (organisation_id, customer_id, reminder_id, channel, status, message, sent_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		n.OrganisationID,
		n.CustomerID,
		n.ReminderID,
		string(n.Channel),
		string(n.Status),
		n.Message,
		n.SentAt,
	).Scan(&n.NotificationID, &n.CreatedAt)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert notification", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert notification: %w", apperrors.ErrDatabase, err)
	}

	return nil
}

func (r *NotificationRepository) List(ctx context.Context, filter notification.ListFilter) ([]*notification.Notification, int, error) {
	r.logger.DebugContext(ctx, "Attempting to list notifications", slog.Int("offset", filter.Offset), slog.Int("limit", filter.Limit))

	where := " WHERE 1=1"
	args := []any{}
	if filter.OrganisationID != nil {
		where += fmt.Sprintf(" AND organisation_id = $%d", len(args)+1)
		args = append(args, *filter.OrganisationID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where += fmt.Sprintf(" AND (channel ILIKE $%d OR status ILIKE $%d)", len(args)+1, len(args)+2)
		args = append(args, pattern, pattern)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where, args...).Scan(&total); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count notifications", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to count notifications: %w", apperrors.ErrDatabase, err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications` + where +
		fmt.Sprintf(" ORDER BY sent_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query notifications", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to query notifications: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan notification row: %w", apperrors.ErrDatabase, err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: error iterating notification rows: %w", apperrors.ErrDatabase, err)
	}

	return notifications, total, nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n       notification.Notification
		channel string
		status  string
	)
	err := row.Scan(
		&n.NotificationID,
		&n.OrganisationID,
		&n.CustomerID,
		&n.ReminderID,
		&channel,
		&status,
		&n.Message,
		&n.SentAt,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Channel = notification.Channel(channel)
	n.Status = notification.Status(status)
	return &n, nil
}
