package auth

import (
	"strings"

	"github.com/leadengine/leadengine/internal/db/models"
)

// Operation is the class of action a request performs on a resource.
type Operation string

const (
	// OpRead covers list and fetch requests.
	OpRead Operation = "read"
	// OpCreate covers requests creating new resources.
	OpCreate Operation = "create"
	// OpUpdate covers requests modifying existing resources.
	OpUpdate Operation = "update"
	// OpDelete covers requests removing resources.
	OpDelete Operation = "delete"
)

// grants is the static permission table. Defined once, never mutated at
// runtime. Update and delete grants are strict subsets of create grants,
// which are strict subsets of read grants.
var grants = map[Operation][]models.Role{
	OpRead: {
		models.RoleSuperAdmin,
		models.RoleCompanyAdmin,
		models.RoleSuperViewer,
		models.RoleCompanyViewer,
		models.RoleSuperCreator,
		models.RoleCompanyCreator,
	},
	OpCreate: {
		models.RoleSuperAdmin,
		models.RoleCompanyAdmin,
		models.RoleSuperCreator,
		models.RoleCompanyCreator,
	},
	OpUpdate: {
		models.RoleSuperAdmin,
		models.RoleCompanyAdmin,
	},
	OpDelete: {
		models.RoleSuperAdmin,
		models.RoleCompanyAdmin,
	},
}

// CompanyCreateRoles are the only roles that may create company records.
// Company tier users never create companies, they work inside one.
var CompanyCreateRoles = []models.Role{
	models.RoleSuperAdmin,
	models.RoleSuperCreator,
}

// Allowed reports whether role is granted the given operation class.
func Allowed(role models.Role, op Operation) bool {
	return RoleIn(role, grants[op])
}

// GrantedRoles returns the roles granted an operation class. The returned
// slice must not be modified.
func GrantedRoles(op Operation) []models.Role {
	return grants[op]
}

// RoleIn reports whether role is a member of the given role set.
func RoleIn(role models.Role, set []models.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}

	return false
}

// RoleList renders a role set for human-readable deny messages. Roles are
// not secret, so enumerating them to the caller is intentional.
func RoleList(set []models.Role) string {
	names := make([]string, 0, len(set))
	for _, r := range set {
		names = append(names, r.String())
	}

	return strings.Join(names, ", ")
}
