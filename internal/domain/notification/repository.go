package notification

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("notification not found")

type Scope struct {
	OrganisationID *int64
}

// ListFilter supports paging plus substring search on channel and status.
type ListFilter struct {
	Scope
	Search string
	Offset int
	Limit  int
}

type NotificationRepository interface {
	Insert(ctx context.Context, n *Notification) error

	List(ctx context.Context, filter ListFilter) ([]*Notification, int, error)
}
