package reminder

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status tracks a reminder's lifecycle. Reminders are the one entity removed
// physically on delete rather than soft-deleted.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

type Reminder struct {
	ReminderID     int64
	OrganisationID int64
	CustomerID     int64

	Amount  decimal.Decimal
	DueDate time.Time
	Notes   string
	Status  Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewReminder(organisationID, customerID int64, amount decimal.Decimal, dueDate time.Time, notes string) *Reminder {
	now := time.Now()
	return &Reminder{
		OrganisationID: organisationID,
		CustomerID:     customerID,
		Amount:         amount,
		DueDate:        dueDate,
		Notes:          notes,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UpdatePatch carries a partial reminder update. Nil fields stay untouched.
type UpdatePatch struct {
	Amount  *decimal.Decimal
	DueDate *time.Time
	Notes   *string
	Status  *Status
}

func (p *UpdatePatch) IsEmpty() bool {
	return p.Amount == nil && p.DueDate == nil && p.Notes == nil && p.Status == nil
}
