package organisation

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("organisation not found")

type ListFilter struct {
	Search string
	Offset int
	Limit  int
}

type OrganisationRepository interface {
	Create(ctx context.Context, org *Organisation) error

	FindByID(ctx context.Context, organisationID int64) (*Organisation, error)

	// List returns non-deleted organisations plus the total matching count.
	List(ctx context.Context, filter ListFilter) ([]*Organisation, int, error)

	Update(ctx context.Context, organisationID int64, patch *UpdatePatch) (*Organisation, error)

	SetDeleted(ctx context.Context, organisationID int64, deleted bool) (*Organisation, error)
}
