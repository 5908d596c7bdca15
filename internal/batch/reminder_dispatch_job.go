package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"swiftremind/internal/domain/notification"
	"swiftremind/internal/domain/reminder"
	"swiftremind/internal/event"
)

// ReminderDispatchJob finds pending reminders whose due date has arrived and
// records a delivery attempt for each, choosing the channel from the
// customer's preferred contact method. Customers who disabled auto reminders
// or were soft-deleted are filtered out at the query.
type ReminderDispatchJob struct {
	reminderRepo     reminder.ReminderRepository
	notificationRepo notification.NotificationRepository
	pub              event.Publisher
	logger           *slog.Logger
	now              func() time.Time
}

func NewReminderDispatchJob(
	reminderRepo reminder.ReminderRepository,
	notificationRepo notification.NotificationRepository,
	pub event.Publisher,
	logger *slog.Logger,
) *ReminderDispatchJob {
	if reminderRepo == nil || notificationRepo == nil || logger == nil {
		panic("ReminderDispatchJob dependencies cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &ReminderDispatchJob{
		reminderRepo:     reminderRepo,
		notificationRepo: notificationRepo,
		pub:              pub,
		logger:           logger.With("job", "ReminderDispatch"),
		now:              time.Now,
	}
}

func (j *ReminderDispatchJob) Run(ctx context.Context) error {
	startTime := j.now()
	j.logger.InfoContext(ctx, "Starting reminder dispatch job.")

	due, err := j.reminderRepo.FindDueForDispatch(ctx, startTime)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to fetch due reminders, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to fetch due reminders: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched due reminders.", slog.Int("count", len(due)))

	var dispatchedCount, errorCount int
	for _, item := range due {
		logCtx := j.logger.With(
			slog.Int64("reminderID", item.ReminderID),
			slog.Int64("customerID", item.CustomerID),
		)

		channel := notification.ChannelFor(item.PreferredContactMethod)
		n := &notification.Notification{
			OrganisationID: item.OrganisationID,
			CustomerID:     item.CustomerID,
			ReminderID:     item.ReminderID,
			Channel:        channel,
			Status:         notification.StatusSent,
			Message:        dispatchMessage(item),
			SentAt:         j.now(),
		}

		if err := j.notificationRepo.Insert(ctx, n); err != nil {
			logCtx.ErrorContext(ctx, "Failed to record notification", slog.Any("error", err))
			errorCount++
			continue
		}
		dispatchedCount++
		logCtx.InfoContext(ctx, "Reminder dispatched.", slog.String("channel", string(channel)))

		evt := event.ReminderDueEvent{
			Timestamp: j.now(),
			Payload: event.ReminderDuePayload{
				ReminderID:     item.ReminderID,
				CustomerID:     item.CustomerID,
				OrganisationID: item.OrganisationID,
				Amount:         item.Amount.String(),
				DueDate:        item.DueDate,
				Channel:        string(channel),
			},
		}
		if err := j.pub.PublishReminderDue(ctx, evt); err != nil {
			logCtx.ErrorContext(ctx, "Failed to publish reminder due event", slog.Any("error", err))
		}
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("due_reminders", len(due)),
		slog.Int("dispatched", dispatchedCount),
		slog.Int("errors_encountered", errorCount),
	)
	if errorCount > 0 {
		summaryLog.WarnContext(ctx, "Reminder dispatch job finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount)
	}
	summaryLog.InfoContext(ctx, "Reminder dispatch job finished successfully.")
	return nil
}

func dispatchMessage(item *reminder.DueReminder) string {
	return fmt.Sprintf(
		"Dear %s, a payment of %s is due on %s. Please arrange payment at your earliest convenience.",
		item.CustomerName,
		item.Amount.String(),
		item.DueDate.Format("02 Jan 2006"),
	)
}
