package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus classifies how a customer stands against their pending amount.
// Paid, Current and Overdue are derived; Delinquent is only ever set by an
// explicit write.
type PaymentStatus string

const (
	StatusCurrent    PaymentStatus = "Current"
	StatusOverdue    PaymentStatus = "Overdue"
	StatusPaid       PaymentStatus = "Paid"
	StatusDelinquent PaymentStatus = "Delinquent"
)

const (
	DefaultCurrency          = "INR"
	DefaultPaymentTerms      = "Net 30"
	DefaultCustomerType      = "Regular"
	DefaultRiskLevel         = "Low"
	DefaultReminderFrequency = "Weekly"
	DefaultContactMethod     = "Email"
)

// PaymentEntry is one element of the append-only payment history.
type PaymentEntry struct {
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

type Customer struct {
	CustomerID     int64
	OrganisationID int64

	Name           string
	Phone          string
	Email          string
	Address        string
	BusinessName   string
	GSTNumber      string
	AlternatePhone string
	Notes          string

	PendingAmount decimal.Decimal
	Currency      string
	PaymentTerms  string
	CreditLimit   decimal.Decimal

	LastPaymentDate   *time.Time
	LastPaymentAmount *decimal.Decimal
	DueDate           *time.Time
	PaymentHistory    []PaymentEntry

	CustomerType  string
	PaymentStatus PaymentStatus
	RiskLevel     string

	ReminderFrequency      string
	PreferredContactMethod string
	AutoReminder           bool

	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer builds an active customer with the classification defaults the
// storage schema would otherwise apply.
func NewCustomer(organisationID int64, name, phone, email string) *Customer {
	now := time.Now()
	return &Customer{
		OrganisationID:         organisationID,
		Name:                   name,
		Phone:                  phone,
		Email:                  email,
		PendingAmount:          decimal.Zero,
		Currency:               DefaultCurrency,
		PaymentTerms:           DefaultPaymentTerms,
		CreditLimit:            decimal.Zero,
		CustomerType:           DefaultCustomerType,
		PaymentStatus:          StatusCurrent,
		RiskLevel:              DefaultRiskLevel,
		ReminderFrequency:      DefaultReminderFrequency,
		PreferredContactMethod: DefaultContactMethod,
		AutoReminder:           true,
		Deleted:                false,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}
