package customer

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrDuplicatePhone = errors.New("customer with this phone number already exists")
)

// Scope restricts a query to one organisation. A nil OrganisationID (the
// superadmin case) removes the tenant constraint.
type Scope struct {
	OrganisationID *int64
	IncludeDeleted bool
}

// ListFilter drives paginated listing. Search matches name, phone or email,
// case-insensitively.
type ListFilter struct {
	Scope
	Search string
	Offset int
	Limit  int
}

type CustomerRepository interface {
	Create(ctx context.Context, cust *Customer) error

	FindByID(ctx context.Context, customerID int64, scope Scope) (*Customer, error)

	// FindByPhone looks for another record in the organisation with the same
	// trimmed phone. excludeID is skipped so a customer does not collide with
	// itself on update.
	FindByPhone(ctx context.Context, organisationID int64, phone string, excludeID int64) (*Customer, error)

	List(ctx context.Context, filter ListFilter) ([]*Customer, int, error)

	Update(ctx context.Context, customerID int64, scope Scope, patch *UpdatePatch) (*Customer, error)

	SetDeleted(ctx context.Context, customerID int64, scope Scope, deleted bool) (*Customer, error)

	// FindOverdueCandidates returns active customers whose pending amount is
	// positive, whose due date has passed, and whose status is neither Overdue
	// nor Delinquent.
	FindOverdueCandidates(ctx context.Context, now time.Time) ([]*Customer, error)

	SetPaymentStatus(ctx context.Context, customerID int64, status PaymentStatus) error
}
