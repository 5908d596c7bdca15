package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"swiftremind/internal/domain/customer"
	"swiftremind/internal/event"
)

// PaymentStatusRefreshJob sweeps active customers whose due date has passed
// while money is still pending and marks them Overdue. Customers an operator
// has flagged Delinquent are left alone; only an explicit write changes that
// status.
type PaymentStatusRefreshJob struct {
	customerRepo customer.CustomerRepository
	pub          event.Publisher
	logger       *slog.Logger
	now          func() time.Time
}

func NewPaymentStatusRefreshJob(
	customerRepo customer.CustomerRepository,
	pub event.Publisher,
	logger *slog.Logger,
) *PaymentStatusRefreshJob {
	if customerRepo == nil || logger == nil {
		panic("PaymentStatusRefreshJob dependencies cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &PaymentStatusRefreshJob{
		customerRepo: customerRepo,
		pub:          pub,
		logger:       logger.With("job", "PaymentStatusRefresh"),
		now:          time.Now,
	}
}

func (j *PaymentStatusRefreshJob) Run(ctx context.Context) error {
	startTime := j.now()
	j.logger.InfoContext(ctx, "Starting payment status refresh job.")

	candidates, err := j.customerRepo.FindOverdueCandidates(ctx, startTime)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to fetch overdue candidates, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to fetch overdue candidates: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched overdue candidates.", slog.Int("count", len(candidates)))

	var updatedCount, errorCount int
	for _, cust := range candidates {
		logCtx := j.logger.With(slog.Int64("customerID", cust.CustomerID))

		if err := j.customerRepo.SetPaymentStatus(ctx, cust.CustomerID, customer.StatusOverdue); err != nil {
			logCtx.ErrorContext(ctx, "Failed to mark customer overdue", slog.Any("error", err))
			errorCount++
			continue
		}
		updatedCount++

		cust.PaymentStatus = customer.StatusOverdue
		evt := event.CustomerEvent{
			Timestamp: j.now(),
			Payload:   customer.NewCustomerEventPayload(cust),
		}
		if err := j.pub.PublishCustomerUpdated(ctx, evt); err != nil {
			logCtx.ErrorContext(ctx, "Failed to publish overdue status event", slog.Any("error", err))
		}
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("candidates", len(candidates)),
		slog.Int("marked_overdue", updatedCount),
		slog.Int("errors_encountered", errorCount),
	)
	if errorCount > 0 {
		summaryLog.WarnContext(ctx, "Payment status refresh job finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount)
	}
	summaryLog.InfoContext(ctx, "Payment status refresh job finished successfully.")
	return nil
}
