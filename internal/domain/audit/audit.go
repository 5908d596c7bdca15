package audit

import (
	"context"
	"time"
)

const (
	ActionDelete  = "delete"
	ActionRestore = "restore"

	EntityCustomer = "Customer"
)

// Entry is one append-only audit record. Written on customer delete and
// restore.
type Entry struct {
	ID             int64
	Action         string
	Entity         string
	EntityID       int64
	UserID         int64
	UserName       string
	OrganisationID int64
	Timestamp      time.Time
	Details        map[string]any
}

// Actor identifies the authenticated user an entry is attributed to.
type Actor struct {
	UserID int64
	Name   string
}

type ListFilter struct {
	OrganisationID *int64
	Entity         string
	Offset         int
	Limit          int
}

type Repository interface {
	Insert(ctx context.Context, entry *Entry) error

	List(ctx context.Context, filter ListFilter) ([]*Entry, int, error)
}
