package health

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/leadengine/leadengine/internal/web/handler"
)

func TestHealth(t *testing.T) {
	app := fiber.New()
	svc := Service{}
	if err := svc.Init(app, &handler.Deps{}); err != nil {
		t.Fatalf("init: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", Path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status field = %q", payload["status"])
	}
}
