package auth

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	// Allow is true when the operation may proceed.
	Allow bool
	// Scope is the effective row-level company filter. Nil = unrestricted.
	// Only meaningful when Allow is true.
	Scope *uint
	// Status is the HTTP status to answer with when Allow is false.
	Status int
	// Reason is the human-readable deny message.
	Reason string
}

// Authorize decides whether identity may perform op, optionally against one
// specific pre-existing resource owned by resourceCompanyID.
//
// The check order is fixed: role capability first, then tier scoping, then
// the per-resource company match.
func Authorize(identity *Identity, op Operation, resourceCompanyID *uint) Decision {
	if !Allowed(identity.Role, op) {
		return Decision{
			Allow:  false,
			Status: 403,
			Reason: fmt.Sprintf("Access denied. Required roles: %s", RoleList(GrantedRoles(op))),
		}
	}

	if identity.Role.IsSuper() {
		// CompanyScope in the token is ignored for super tiers.
		return Decision{Allow: true, Scope: nil}
	}

	if identity.CompanyScope == nil {
		// Misconfigured account, not a caller mistake.
		log.Warn().
			Str("user_id", identity.SubjectID).
			Str("role", identity.Role.String()).
			Msg("company tier role without company scope")

		return Decision{
			Allow:  false,
			Status: 403,
			Reason: ErrNoCompanyAssigned.Error(),
		}
	}

	if resourceCompanyID != nil && *resourceCompanyID != *identity.CompanyScope {
		return Decision{
			Allow:  false,
			Status: 403,
			Reason: "Access denied to this resource",
		}
	}

	scope := *identity.CompanyScope

	return Decision{Allow: true, Scope: &scope}
}

// PermitsResource reports whether the decision's scope admits a resource
// owned by companyID. Unscoped decisions admit everything. Scoped decisions
// admit only resources of the matching company; a resource without a company
// is out of reach for every company tier caller.
func (d Decision) PermitsResource(companyID *uint) bool {
	if !d.Allow {
		return false
	}

	if d.Scope == nil {
		return true
	}

	return companyID != nil && *companyID == *d.Scope
}

// EffectiveCompanyFilter reconciles an explicit companyID list filter with
// the caller's scope. Super tiers may filter by any company; company tiers
// are force-overridden to their own scope no matter what they supplied.
// The override is silent: it restricts reads and cannot lose data.
func EffectiveCompanyFilter(identity *Identity, requested *uint) *uint {
	if identity.Role.IsSuper() {
		return requested
	}

	return identity.CompanyScope
}

// CheckCompanyAccess is the scope check for endpoints naming a company
// directly in path or query. Super tiers always pass. Company tiers pass
// only when no company was requested (defaulting to their own) or the
// requested company equals their scope.
//
// Callers must run the role-capability check first; a role with no
// capability for the operation must never reach this check.
func CheckCompanyAccess(identity *Identity, requestedCompanyID *uint) bool {
	if identity.Role.IsSuper() {
		return true
	}

	if identity.CompanyScope == nil {
		return false
	}

	return requestedCompanyID == nil || *requestedCompanyID == *identity.CompanyScope
}
