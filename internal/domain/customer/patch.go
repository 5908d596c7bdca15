package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdatePatch carries a partial customer update. Nil pointers (and a nil
// PaymentHistory slice) mean "leave the field untouched".
type UpdatePatch struct {
	Name           *string
	Phone          *string
	Email          *string
	Address        *string
	BusinessName   *string
	GSTNumber      *string
	AlternatePhone *string
	Notes          *string

	PendingAmount *decimal.Decimal
	Currency      *string
	PaymentTerms  *string
	CreditLimit   *decimal.Decimal

	LastPaymentDate   *time.Time
	LastPaymentAmount *decimal.Decimal
	DueDate           *time.Time
	PaymentHistory    []PaymentEntry

	CustomerType  *string
	PaymentStatus *PaymentStatus
	RiskLevel     *string

	ReminderFrequency      *string
	PreferredContactMethod *string
	AutoReminder           *bool

	Deleted *bool
}

// TouchesFinancials reports whether the patch changes a field that feeds the
// payment-status derivation rule.
func (p *UpdatePatch) TouchesFinancials() bool {
	return p.PendingAmount != nil || p.DueDate != nil
}
