package organisation

import "time"

// Organisation is a tenant. Every customer, reminder, notification and
// non-superadmin user belongs to exactly one.
type Organisation struct {
	OrganisationID int64

	Name    string
	Email   string
	Phone   string
	Address string

	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewOrganisation(name, email, phone, address string) *Organisation {
	now := time.Now()
	return &Organisation{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdatePatch carries the fields of a partial organisation update. Nil means
// the field was absent from the request.
type UpdatePatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

func (p *UpdatePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Address == nil
}
