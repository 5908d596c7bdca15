package reminder

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("reminder not found")

// Scope restricts queries to one organisation, nil meaning unscoped.
type Scope struct {
	OrganisationID *int64
}

type ListFilter struct {
	Scope
	Search string
	Offset int
	Limit  int
}

// DueReminder joins a pending reminder with the contact fields the dispatch
// job needs from its customer.
type DueReminder struct {
	Reminder
	CustomerName           string
	CustomerPhone          string
	CustomerEmail          string
	PreferredContactMethod string
}

type ReminderRepository interface {
	Create(ctx context.Context, rem *Reminder) error

	FindByID(ctx context.Context, reminderID int64, scope Scope) (*Reminder, error)

	List(ctx context.Context, filter ListFilter) ([]*Reminder, int, error)

	Update(ctx context.Context, reminderID int64, scope Scope, patch *UpdatePatch) (*Reminder, error)

	// Delete removes the row permanently.
	Delete(ctx context.Context, reminderID int64, scope Scope) error

	// FindDueForDispatch returns pending reminders whose due date has passed
	// and whose customer is active with auto reminders enabled.
	FindDueForDispatch(ctx context.Context, now time.Time) ([]*DueReminder, error)
}
