package authz

// Viewer is the authenticated principal a request runs as, as extracted from
// a verified bearer token.
type Viewer struct {
	UserID         int64
	Name           string
	Email          string
	Role           Role
	OrganisationID int64
}

// TenantScope returns the organisation the viewer's queries must be
// constrained to, or nil for an unscoped superadmin query.
func (v Viewer) TenantScope() *int64 {
	if !Scoped(v.Role) {
		return nil
	}
	org := v.OrganisationID
	return &org
}
