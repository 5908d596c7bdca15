package event

import (
	"context"
	"time"
)

type CustomerEventPayload struct {
	CustomerID     int64     `json:"customerId"`
	OrganisationID int64     `json:"organisationId"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	PendingAmount  string    `json:"pendingAmount"`
	PaymentStatus  string    `json:"paymentStatus"`
	Deleted        bool      `json:"deleted"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CustomerEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type ReminderDuePayload struct {
	ReminderID     int64     `json:"reminderId"`
	CustomerID     int64     `json:"customerId"`
	OrganisationID int64     `json:"organisationId"`
	Amount         string    `json:"amount"`
	DueDate        time.Time `json:"dueDate"`
	Channel        string    `json:"channel"`
}

type ReminderDueEvent struct {
	Timestamp time.Time          `json:"timestamp"`
	Payload   ReminderDuePayload `json:"payload"`
}

type Publisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerEvent) error
	PublishCustomerUpdated(ctx context.Context, event CustomerEvent) error
	PublishCustomerDeleted(ctx context.Context, event CustomerEvent) error
	PublishCustomerRestored(ctx context.Context, event CustomerEvent) error
	PublishReminderDue(ctx context.Context, event ReminderDueEvent) error
}

// NoopPublisher stands in when RabbitMQ is not configured.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerEvent) error  { return nil }
func (NoopPublisher) PublishCustomerUpdated(context.Context, CustomerEvent) error  { return nil }
func (NoopPublisher) PublishCustomerDeleted(context.Context, CustomerEvent) error  { return nil }
func (NoopPublisher) PublishCustomerRestored(context.Context, CustomerEvent) error { return nil }
func (NoopPublisher) PublishReminderDue(context.Context, ReminderDueEvent) error   { return nil }
