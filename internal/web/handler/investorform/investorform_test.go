package investorform

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/config"
	"github.com/leadengine/leadengine/internal/db/models"
	"github.com/leadengine/leadengine/internal/notify"
	"github.com/leadengine/leadengine/internal/web/handler"
)

type countingNotifier struct{ received int }

func (n *countingNotifier) SubmissionReceived(*models.Investor) { n.received++ }

var _ notify.Notifier = (*countingNotifier)(nil)

func testApp(t *testing.T) (*fiber.App, *gorm.DB, *countingNotifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Company{}, &models.Investor{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{DevMode: true}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour

	notifier := &countingNotifier{}

	app := fiber.New()
	svc := Service{}
	if err := svc.Init(app, &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Codec:    auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Notifier: notifier,
	}); err != nil {
		t.Fatalf("init: %v", err)
	}

	return app, db, notifier
}

func submit(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest("POST", Path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	return string(body)
}

func TestSubmitStoresAndNotifies(t *testing.T) {
	app, db, notifier := testApp(t)

	resp := submit(t, app, `{"fullName":"Salem","phoneNumber":"+966 50 000 0000","city":"Riyadh","sharesQuantity":10,"calculatedTotal":5000}`)
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Success || payload.Message != "Submission received" || payload.Data.ID == "" {
		t.Errorf("payload = %+v", payload)
	}

	var stored models.Investor
	if err := db.First(&stored, "id = ?", payload.Data.ID).Error; err != nil {
		t.Fatalf("submission not stored: %v", err)
	}
	if stored.FullName != "Salem" || stored.Source != "website" {
		t.Errorf("stored = %+v", stored)
	}
	if notifier.received != 1 {
		t.Errorf("notifications = %d, want 1", notifier.received)
	}
}

func TestSubmitStripsMarkup(t *testing.T) {
	app, db, _ := testApp(t)

	resp := submit(t, app, `{"fullName":"<script>alert(1)</script>Salem","phoneNumber":"0500000000","city":"Riyadh"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, readBody(t, resp))
	}

	var stored models.Investor
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("submission not stored: %v", err)
	}
	if strings.Contains(stored.FullName, "<script>") {
		t.Errorf("markup survived: %q", stored.FullName)
	}
}

func TestSubmitInvalidPhone(t *testing.T) {
	app, _, notifier := testApp(t)

	resp := submit(t, app, `{"fullName":"Salem","phoneNumber":"not-a-phone","city":"Riyadh"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Invalid phone number format") {
		t.Errorf("body = %s", body)
	}
	if notifier.received != 0 {
		t.Errorf("notified about rejected submission")
	}
}

func TestSubmitMissingFields(t *testing.T) {
	app, _, _ := testApp(t)

	resp := submit(t, app, `{"phoneNumber":"0500000000"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Validation failed") {
		t.Errorf("body = %s", body)
	}
}

func TestListRequiresAuth(t *testing.T) {
	app, _, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", Path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
