package models

// Role is the closed set of admin roles. Each role combines a tier (super or
// company scoped) with a capability (admin, viewer, creator).
type Role string

const (
	// RoleSuperAdmin has full access to everything.
	RoleSuperAdmin Role = "super_admin"
	// RoleCompanyAdmin has full access to their company.
	RoleCompanyAdmin Role = "company_admin"
	// RoleSuperViewer has read-only access to everything.
	RoleSuperViewer Role = "super_viewer"
	// RoleCompanyViewer has read-only access to their company.
	RoleCompanyViewer Role = "company_viewer"
	// RoleSuperCreator can create data anywhere (no edit/delete).
	RoleSuperCreator Role = "super_creator"
	// RoleCompanyCreator can create data in their company (no edit/delete).
	RoleCompanyCreator Role = "company_creator"
)

// Roles lists every valid role.
var Roles = []Role{
	RoleSuperAdmin,
	RoleCompanyAdmin,
	RoleSuperViewer,
	RoleCompanyViewer,
	RoleSuperCreator,
	RoleCompanyCreator,
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}

	return false
}

// IsSuper reports whether the role's authority is global.
func (r Role) IsSuper() bool {
	switch r {
	case RoleSuperAdmin, RoleSuperViewer, RoleSuperCreator:
		return true
	case RoleCompanyAdmin, RoleCompanyViewer, RoleCompanyCreator:
		return false
	}

	return false
}

// IsCompany reports whether the role is confined to one company.
func (r Role) IsCompany() bool {
	return r.Valid() && !r.IsSuper()
}

func (r Role) String() string {
	return string(r)
}
