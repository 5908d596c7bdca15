package authz

// Role is the coarse permission level carried in a JWT.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
)

func ParseRole(s string) Role {
	switch Role(s) {
	case RoleSuperadmin, RoleAdmin, RoleUser:
		return Role(s)
	default:
		return RoleUser
	}
}

// Scoped reports whether queries issued on behalf of the role must be
// constrained to the caller's organisation. Superadmin queries run unscoped.
func Scoped(role Role) bool {
	return role != RoleSuperadmin
}

// CanAccessTenant decides whether a caller may touch a record owned by
// recordOrg. All tenant branching in handlers goes through here.
func CanAccessTenant(role Role, callerOrg, recordOrg int64) bool {
	if role == RoleSuperadmin {
		return true
	}
	return callerOrg != 0 && callerOrg == recordOrg
}

// SeesDeleted reports whether soft-deleted records are visible to the role.
func SeesDeleted(role Role) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}

// CanManageOrganisations gates organisation and user administration.
func CanManageOrganisations(role Role) bool {
	return role == RoleSuperadmin
}
