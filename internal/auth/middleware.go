package auth

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/leadengine/leadengine/internal/db/models"
)

const (
	// identityKey is the fiber locals key the authenticated identity lives
	// under for the remainder of the request.
	identityKey = "auth_identity"
	// decisionKey is the fiber locals key the authorization decision lives
	// under once RequireOperation admitted the request.
	decisionKey = "auth_decision"
)

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// RequireAuth verifies the session cookie and, on success, stores the
// caller's identity in the request locals. Requests without a cookie or
// with a defective token are answered directly with 401.
func RequireAuth(codec *TokenCodec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(CookieName)
		if cookie == "" {
			return deny(c, fiber.StatusUnauthorized, "Missing authentication cookie")
		}

		identity, err := codec.Verify(cookie)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(identityKey, identity)

		return c.Next()
	}
}

// StoreIdentity attaches an identity to the request locals. The login
// handler uses it so middleware running after the handler sees who just
// authenticated.
func StoreIdentity(c *fiber.Ctx, identity *Identity) {
	c.Locals(identityKey, identity)
}

// IdentityFromCtx returns the identity RequireAuth stored, or nil when the
// request never passed authentication.
func IdentityFromCtx(c *fiber.Ctx) *Identity {
	identity, _ := c.Locals(identityKey).(*Identity)

	return identity
}

// RequireOperation gates a route on the full authorization decision for op:
// role capability plus tier scoping. The admitted decision is stored in the
// request locals so handlers share its row-level scope instead of re-deriving
// it. It must run after RequireAuth.
func RequireOperation(op Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFromCtx(c)
		if identity == nil {
			return deny(c, fiber.StatusUnauthorized, "Missing authentication cookie")
		}

		decision := Authorize(identity, op, nil)
		if !decision.Allow {
			return deny(c, decision.Status, decision.Reason)
		}

		c.Locals(decisionKey, &decision)

		return c.Next()
	}
}

// DecisionFromCtx returns the decision RequireOperation stored, or nil when
// the request never passed an operation gate.
func DecisionFromCtx(c *fiber.Ctx) *Decision {
	decision, _ := c.Locals(decisionKey).(*Decision)

	return decision
}

// RequireRoles gates a route on an explicit role set, for routes whose
// allowed roles do not line up with one of the four operations.
func RequireRoles(roles ...models.Role) fiber.Handler {
	message := fmt.Sprintf("Access denied. Required roles: %s", RoleList(roles))

	return func(c *fiber.Ctx) error {
		identity := IdentityFromCtx(c)
		if identity == nil {
			return deny(c, fiber.StatusUnauthorized, "Missing authentication cookie")
		}

		if !RoleIn(identity.Role, roles) {
			return deny(c, fiber.StatusForbidden, message)
		}

		return c.Next()
	}
}

// RequireCompanyAccess enforces the row-level company boundary for routes
// that name a company in query or path. It must run after RequireAuth and
// after the role gate for the route's operation.
func RequireCompanyAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFromCtx(c)
		if identity == nil {
			return deny(c, fiber.StatusUnauthorized, "Missing authentication cookie")
		}

		if !CheckCompanyAccess(identity, RequestedCompanyID(c)) {
			return deny(c, fiber.StatusForbidden,
				"Access denied. You can only access data from your assigned company.")
		}

		return c.Next()
	}
}

// RequestedCompanyID extracts the company a request is asking about,
// preferring the path parameter over the query string. Nil means the
// request names no particular company.
func RequestedCompanyID(c *fiber.Ctx) *uint {
	raw := c.Params("companyID")
	if raw == "" {
		raw = c.Query("companyID")
	}
	if raw == "" {
		raw = c.Query("companyId")
	}
	if raw == "" {
		return nil
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}

	out := uint(id)

	return &out
}
