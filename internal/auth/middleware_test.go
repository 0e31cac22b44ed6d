package auth

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/leadengine/leadengine/internal/db/models"
)

// operationApp wires RequireOperation behind a stub that injects the given
// identity, with a terminal handler exposing the stored decision scope.
func operationApp(identity *Identity, op Operation) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", func(c *fiber.Ctx) error {
		if identity != nil {
			StoreIdentity(c, identity)
		}

		return c.Next()
	}, RequireOperation(op), func(c *fiber.Ctx) error {
		scope := -1
		if d := DecisionFromCtx(c); d != nil && d.Scope != nil {
			scope = int(*d.Scope)
		}

		return c.JSON(fiber.Map{"scope": scope})
	})

	return app
}

func guardedRequest(t *testing.T, identity *Identity, op Operation) (int, map[string]any) {
	t.Helper()

	resp, err := operationApp(identity, op).Test(httptest.NewRequest("GET", "/guarded", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	return resp.StatusCode, body
}

func TestRequireOperationMissingIdentity(t *testing.T) {
	status, body := guardedRequest(t, nil, OpRead)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if body["error"] != "Missing authentication cookie" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRequireOperationDeniesUnassignedCompanyTier(t *testing.T) {
	identity := &Identity{SubjectID: "u1", Role: models.RoleCompanyAdmin}

	status, body := guardedRequest(t, identity, OpRead)
	if status != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", status)
	}
	if body["error"] != ErrNoCompanyAssigned.Error() {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRequireOperationDeniesViewerCreate(t *testing.T) {
	identity := &Identity{SubjectID: "u1", Role: models.RoleCompanyViewer, CompanyScope: uintPtr(2)}

	status, _ := guardedRequest(t, identity, OpCreate)
	if status != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", status)
	}
}

func TestRequireOperationStoresScopedDecision(t *testing.T) {
	identity := &Identity{SubjectID: "u1", Role: models.RoleCompanyAdmin, CompanyScope: uintPtr(6)}

	status, body := guardedRequest(t, identity, OpRead)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["scope"] != float64(6) {
		t.Errorf("scope = %v, want 6", body["scope"])
	}
}

func TestRequireOperationStoresUnscopedDecision(t *testing.T) {
	identity := &Identity{SubjectID: "u1", Role: models.RoleSuperViewer}

	status, body := guardedRequest(t, identity, OpRead)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["scope"] != float64(-1) {
		t.Errorf("scope = %v, want -1 (unscoped)", body["scope"])
	}
}
