package audit

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DeriveAction maps a request to its audit action. Login, logout and
// transfer routes get dedicated verbs; everything else falls back to the
// HTTP method's CRUD meaning.
func DeriveAction(method, path string) string {
	switch {
	case strings.Contains(path, "/login"):
		return "LOGIN"
	case strings.Contains(path, "/logout"):
		return "LOGOUT"
	case strings.Contains(path, "/transfer"):
		return "TRANSFER"
	}

	switch strings.ToUpper(method) {
	case fiber.MethodPost:
		return "CREATE"
	case fiber.MethodPut, fiber.MethodPatch:
		return "UPDATE"
	case fiber.MethodDelete:
		return "DELETE"
	case fiber.MethodGet:
		return "READ"
	default:
		return strings.ToUpper(method)
	}
}

// DeriveResourceType maps a route path to the resource it operates on.
// More specific prefixes are checked first.
func DeriveResourceType(path string) string {
	switch {
	case strings.Contains(path, "/investor-admin"):
		return "InvestorAdmin"
	case strings.Contains(path, "/investor-form"), strings.Contains(path, "/investor"):
		return "Investor"
	case strings.Contains(path, "/company"), strings.Contains(path, "/companies"):
		return "Company"
	case strings.Contains(path, "/users"), strings.Contains(path, "/user"):
		return "User"
	default:
		return "Unknown"
	}
}

// deriveResourceID pulls the acted-on resource id from the route
// parameters, or from the response body of a successful create, which is
// the only point the id exists yet.
func deriveResourceID(c *fiber.Ctx, responseBody []byte) *string {
	for _, param := range []string{"id", "companyID", "investorId", "userId"} {
		if v := c.Params(param); v != "" {
			out := v

			return &out
		}
	}

	if id := idFromRequestBody(c.Body()); id != "" {
		return &id
	}

	if c.Method() == fiber.MethodPost && c.Response().StatusCode() == fiber.StatusCreated {
		if id := idFromCreateResponse(responseBody); id != "" {
			return &id
		}
	}

	return nil
}

func idFromRequestBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var decoded struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ""
	}

	return rawToString(decoded.ID)
}

func idFromCreateResponse(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var decoded struct {
		ID   json.RawMessage `json:"id"`
		Data struct {
			ID json.RawMessage `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ""
	}

	raw := decoded.Data.ID
	if len(raw) == 0 {
		raw = decoded.ID
	}

	return rawToString(raw)
}

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatInt(asNumber, 10)
	}

	return ""
}

// filterFields are the list-query filters worth keeping in metadata.
// "all" is the UI's no-filter sentinel and is ignored.
var filterFields = []string{
	"search", "status", "city", "source", "companyID",
	"createdBy", "updatedBy", "createdAtFrom", "createdAtTo",
	"updatedAtFrom", "updatedAtTo",
}

// extractMetadata captures the query string, pagination and active
// filters of a request as a JSON document, or nil when there is nothing
// worth keeping.
func extractMetadata(c *fiber.Ctx) json.RawMessage {
	metadata := map[string]interface{}{}

	queries := c.Queries()
	if len(queries) > 0 {
		metadata["queryParams"] = queries
	}

	pagination := map[string]int{}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		pagination["page"] = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		pagination["limit"] = limit
	}
	if len(pagination) > 0 {
		metadata["pagination"] = pagination
	}

	filters := map[string]string{}
	for _, field := range filterFields {
		if v := c.Query(field); v != "" && v != "all" {
			filters[field] = v
		}
	}
	if len(filters) > 0 {
		metadata["filters"] = filters
	}

	params := c.AllParams()
	if len(params) > 0 {
		metadata["routeParams"] = params
	}

	if len(metadata) == 0 {
		return nil
	}

	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil
	}

	return encoded
}
