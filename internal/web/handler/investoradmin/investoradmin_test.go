package investoradmin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/auth"
	"github.com/leadengine/leadengine/internal/config"
	"github.com/leadengine/leadengine/internal/db/models"
	"github.com/leadengine/leadengine/internal/web/handler"
)

type fixture struct {
	app   *fiber.App
	db    *gorm.DB
	codec *auth.TokenCodec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Company{}, &models.Investor{},
		&models.Lead{}, &models.ActivityLog{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{DevMode: true}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour

	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	app := fiber.New()
	svc := Service{}
	if err := svc.Init(app, &handler.Deps{Cfg: cfg, DB: db, Codec: codec}); err != nil {
		t.Fatalf("init: %v", err)
	}

	return &fixture{app: app, db: db, codec: codec}
}

func (f *fixture) user(t *testing.T, role models.Role, companyID *uint) *models.User {
	t.Helper()

	user := &models.User{
		Username:     string(role) + "-user",
		Email:        string(role) + "@example.com",
		PasswordHash: "x",
		Role:         role,
		CompanyID:    companyID,
		Active:       true,
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return user
}

func (f *fixture) request(t *testing.T, user *models.User, method, target, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		token, err := f.codec.Issue(user)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}

	resp, err := f.app.Test(req)
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

func seedLead(t *testing.T, db *gorm.DB, name, phone string, companyID *uint) *models.Lead {
	t.Helper()

	lead := &models.Lead{
		FullName:    name,
		PhoneNumber: &phone,
		City:        "Riyadh",
		LeadStatus:  "new",
		Source:      "manual",
		CompanyID:   companyID,
	}
	if err := db.Create(lead).Error; err != nil {
		t.Fatalf("failed to seed lead: %v", err)
	}

	return lead
}

func uintPtr(v uint) *uint { return &v }

func TestListRequiresAuth(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, nil, "GET", Path, "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestListCompanyTierIgnoresForeignFilter(t *testing.T) {
	f := newFixture(t)
	seedLead(t, f.db, "Own Lead", "0500000001", uintPtr(1))
	seedLead(t, f.db, "Foreign Lead", "0500000002", uintPtr(2))
	viewer := f.user(t, models.RoleCompanyViewer, uintPtr(1))

	// The filter asks for company 2; the caller only ever sees company 1.
	resp := f.request(t, viewer, "GET", Path+"?companyID=2", "")
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var payload struct {
		Data       []models.Lead `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].FullName != "Own Lead" {
		t.Errorf("data = %+v", payload.Data)
	}
	if payload.Pagination.Total != 1 {
		t.Errorf("total = %d", payload.Pagination.Total)
	}
}

func TestListNoCompanyAssigned(t *testing.T) {
	f := newFixture(t)
	viewer := f.user(t, models.RoleCompanyViewer, nil)

	resp := f.request(t, viewer, "GET", Path, "")
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "No company assigned to your account") {
		t.Errorf("body = %s", body)
	}
}

func TestCreateRequiresMsgDateForCreators(t *testing.T) {
	f := newFixture(t)
	creator := f.user(t, models.RoleSuperCreator, nil)

	resp := f.request(t, creator, "POST", Path, `{"fullName":"New Lead","city":"Jeddah"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "msgDate is required for creator roles") {
		t.Errorf("body = %s", body)
	}
}

func TestCreateCrossCompanyDenied(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, models.RoleCompanyAdmin, uintPtr(1))

	resp := f.request(t, admin, "POST", Path, `{"fullName":"New Lead","city":"Jeddah","companyID":2}`)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	want := "Access denied. You can only create leads for company ID 1, but you tried to create for company ID 2"
	if body := readBody(t, resp); !strings.Contains(body, want) {
		t.Errorf("body = %s", body)
	}
}

func TestCreateForcesOwnCompany(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, models.RoleCompanyAdmin, uintPtr(1))

	resp := f.request(t, admin, "POST", Path, `{"fullName":"New Lead","phoneNumber":"0500000009","city":"Jeddah"}`)
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var stored models.Lead
	if err := f.db.First(&stored, "full_name = ?", "New Lead").Error; err != nil {
		t.Fatalf("lead not stored: %v", err)
	}
	if stored.CompanyID == nil || *stored.CompanyID != 1 {
		t.Errorf("company id = %v, want forced to 1", stored.CompanyID)
	}
	if stored.CreatedBy == nil || *stored.CreatedBy != admin.ID {
		t.Errorf("created by = %v", stored.CreatedBy)
	}
}

func TestCreateDuplicatePhone(t *testing.T) {
	f := newFixture(t)
	seedLead(t, f.db, "Existing", "0500000111", nil)
	admin := f.user(t, models.RoleSuperAdmin, nil)

	resp := f.request(t, admin, "POST", Path, `{"fullName":"Another","phoneNumber":"0500000111","city":"Riyadh"}`)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Phone number already exists for another lead.") {
		t.Errorf("body = %s", body)
	}
}

func TestCreateDeniedForViewers(t *testing.T) {
	f := newFixture(t)
	viewer := f.user(t, models.RoleSuperViewer, nil)

	resp := f.request(t, viewer, "POST", Path, `{"fullName":"New Lead","city":"Jeddah"}`)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestUpdateRejectsNoChanges(t *testing.T) {
	f := newFixture(t)
	lead := seedLead(t, f.db, "Lead", "0500000222", nil)
	admin := f.user(t, models.RoleSuperAdmin, nil)

	resp := f.request(t, admin, "PUT", Path+"/"+itoa(lead.ID), `{"fullName":"Lead"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "No changes detected") {
		t.Errorf("body = %s", body)
	}
}

func TestUpdateInvalidID(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, models.RoleSuperAdmin, nil)

	resp := f.request(t, admin, "PUT", Path+"/abc", `{"fullName":"x"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Invalid ID format") {
		t.Errorf("body = %s", body)
	}
}

func TestUpdateCrossCompanyDenied(t *testing.T) {
	f := newFixture(t)
	lead := seedLead(t, f.db, "Lead", "0500000333", uintPtr(2))
	admin := f.user(t, models.RoleCompanyAdmin, uintPtr(1))

	resp := f.request(t, admin, "PUT", Path+"/"+itoa(lead.ID), `{"city":"Dammam"}`)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Access denied to this lead") {
		t.Errorf("body = %s", body)
	}
}

func TestTransferAlreadyTransferred(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, models.RoleSuperAdmin, nil)

	investor := &models.Investor{FullName: "Investor", City: "Riyadh", Transferred: true}
	if err := f.db.Create(investor).Error; err != nil {
		t.Fatalf("seed investor: %v", err)
	}

	resp := f.request(t, admin, "POST", Path+"/transfer/"+investor.ID, "")
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Investor already transferred") {
		t.Errorf("body = %s", body)
	}
}

func TestTransferForeignInvestorDenied(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, models.RoleCompanyAdmin, uintPtr(1))

	investor := &models.Investor{FullName: "Investor", City: "Riyadh", CompanyID: uintPtr(2)}
	if err := f.db.Create(investor).Error; err != nil {
		t.Fatalf("seed investor: %v", err)
	}

	resp := f.request(t, admin, "POST", Path+"/transfer/"+investor.ID, "")
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Access denied to this investor") {
		t.Errorf("body = %s", body)
	}
}

func TestStatisticsScopedToCompany(t *testing.T) {
	f := newFixture(t)
	own := seedLead(t, f.db, "Own", "0500000444", uintPtr(1))
	amount := 1000.0
	f.db.Model(own).Update("investment_amount", amount)
	foreign := seedLead(t, f.db, "Foreign", "0500000555", uintPtr(2))
	f.db.Model(foreign).Update("investment_amount", 9000.0)

	viewer := f.user(t, models.RoleCompanyViewer, uintPtr(1))

	resp := f.request(t, viewer, "GET", Path+"/statistics", "")
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var payload struct {
		Data struct {
			Sum   *float64 `json:"sum"`
			Count int64    `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Data.Count != 1 {
		t.Errorf("count = %d, want only own company", payload.Data.Count)
	}
	if payload.Data.Sum == nil || *payload.Data.Sum != amount {
		t.Errorf("sum = %v, want %v", payload.Data.Sum, amount)
	}
}

func TestHistoryStartsWithCreation(t *testing.T) {
	f := newFixture(t)
	lead := seedLead(t, f.db, "Lead", "0500000666", nil)
	admin := f.user(t, models.RoleSuperAdmin, nil)

	resp := f.request(t, admin, "GET", Path+"/"+itoa(lead.ID)+"/history", "")
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var payload struct {
		Data struct {
			History      []map[string]interface{} `json:"history"`
			TotalUpdates int                      `json:"totalUpdates"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Data.History) != 1 || payload.Data.History[0]["action"] != "CREATE" {
		t.Errorf("history = %+v", payload.Data.History)
	}
	if payload.Data.TotalUpdates != 0 {
		t.Errorf("total updates = %d", payload.Data.TotalUpdates)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
