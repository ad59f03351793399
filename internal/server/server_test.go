package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/cytzrs/share-sub001/internal/db"
	"github.com/cytzrs/share-sub001/internal/models"
	"github.com/cytzrs/share-sub001/internal/templates"
)

func setupServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return New(database), database
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var body map[string]string
	decodeResponse(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestTemplateCRUD(t *testing.T) {
	srv, _ := setupServer(t)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/templates", map[string]string{
		"name":    "morning-brief",
		"content": "现金: {{cash}}",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Template
	decodeResponse(t, rec, &created)
	if created.ID == "" || created.Version != 1 {
		t.Fatalf("unexpected created template: %+v", created)
	}

	// Duplicate name conflicts.
	rec = doJSON(t, mux, http.MethodPost, "/api/templates", map[string]string{
		"name":    "morning-brief",
		"content": "x",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/templates/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: unexpected status %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPut, "/api/templates/"+created.ID, map[string]string{
		"content": "现金: {{cash}}, 日期: {{date}}",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var updated models.Template
	decodeResponse(t, rec, &updated)
	if updated.Version != 2 {
		t.Fatalf("expected version bump to 2, got %d", updated.Version)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/templates/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: unexpected status %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/templates/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestTemplatePreview(t *testing.T) {
	srv, _ := setupServer(t)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/templates/preview", map[string]any{
		"content": "现金: {{cash}}, 未知: {{foo}}",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var result templates.RenderResult
	decodeResponse(t, rec, &result)
	if result.RenderedContent != "现金: 15000.00, 未知: {{foo}}" {
		t.Fatalf("unexpected rendered content: %q", result.RenderedContent)
	}
	if len(result.Errors) != 1 || result.Errors[0] != "undefined placeholder: {{foo}} (foo)" {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestTemplatePreviewWithOverrides(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/templates/preview", map[string]any{
		"content":     "{{cash}}",
		"sample_data": map[string]string{"cash": "999.00"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var result templates.RenderResult
	decodeResponse(t, rec, &result)
	if result.RenderedContent != "999.00" {
		t.Fatalf("expected override to win, got %q", result.RenderedContent)
	}
}

func TestPlaceholdersEndpoint(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/placeholders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var body struct {
		Catalog    map[string]templates.CatalogEntry `json:"catalog"`
		Categories []templates.Category              `json:"categories"`
		SampleData map[string]string                 `json:"sample_data"`
	}
	decodeResponse(t, rec, &body)
	if _, ok := body.Catalog["cash"]; !ok {
		t.Fatal("catalog missing cash entry")
	}
	if len(body.Categories) == 0 || body.SampleData["cash"] == "" {
		t.Fatalf("incomplete placeholder response: %+v", body)
	}
}

func TestAgentLifecycle(t *testing.T) {
	srv, _ := setupServer(t)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/agents", map[string]string{
		"name":  "alpha",
		"model": "gpt-5",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Agent
	decodeResponse(t, rec, &created)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/agents/%s/pause", created.ID), map[string]string{
		"reason": "maintenance",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("pause: unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	// Pausing twice conflicts.
	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/agents/%s/pause", created.ID), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("double pause: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/agents/%s/resume", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("resume: unexpected status %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/agents/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: unexpected status %d", rec.Code)
	}
	var got models.Agent
	decodeResponse(t, rec, &got)
	if got.State != models.AgentStateIdle {
		t.Fatalf("expected idle after resume, got %q", got.State)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/agents/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: unexpected status %d", rec.Code)
	}
	rec = doJSON(t, mux, http.MethodGet, "/api/agents/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestAgentValidationError(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/agents", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d: %s", rec.Code, rec.Body.String())
	}

	var body models.ValidationErrors
	decodeResponse(t, rec, &body)
	if !body.HasErrors() {
		t.Fatal("expected field errors in response")
	}
}

func TestAgentDecisionEndpoint(t *testing.T) {
	srv, _ := setupServer(t)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/agents", map[string]string{
		"name": "alpha", "model": "gpt-5",
	})
	var created models.Agent
	decodeResponse(t, rec, &created)

	rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/agents/%s/decisions", created.ID), models.DecisionPayload{
		Symbol: "600519", Action: "buy", Quantity: 100, Price: 1520,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("record decision: unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodGet, fmt.Sprintf("/api/agents/%s/decisions", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list decisions: unexpected status %d", rec.Code)
	}
	var decisions []*models.Event
	decodeResponse(t, rec, &decisions)
	if len(decisions) == 0 {
		t.Fatal("expected recorded decision events")
	}
}

func TestPortfolioEndpoints(t *testing.T) {
	srv, database := setupServer(t)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/agents", map[string]string{
		"name": "alpha", "model": "gpt-5",
	})
	var created models.Agent
	decodeResponse(t, rec, &created)

	portfolioRepo := db.NewPortfolioRepository(database)
	portfolio := &models.Portfolio{AgentID: created.ID, Name: "main", Cash: 15000, InitialCash: 15000}
	if err := portfolioRepo.Create(t.Context(), portfolio); err != nil {
		t.Fatalf("create portfolio: %v", err)
	}
	if err := portfolioRepo.UpsertPosition(t.Context(), &models.Position{
		PortfolioID: portfolio.ID, Symbol: "600519", Name: "贵州茅台",
		Quantity: 100, CostPrice: 1500, CurrentPrice: 1520,
	}); err != nil {
		t.Fatalf("upsert position: %v", err)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/portfolios", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: unexpected status %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/portfolios/"+portfolio.ID+"/snapshot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot: unexpected status %d", rec.Code)
	}
	var snap struct {
		TotalAssets float64 `json:"total_assets"`
	}
	decodeResponse(t, rec, &snap)
	if snap.TotalAssets != 167000 {
		t.Fatalf("unexpected total assets: %v", snap.TotalAssets)
	}
}

func TestMCPEndpoints(t *testing.T) {
	srv, _ := setupServer(t)
	mux := srv.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/mcp-servers", map[string]any{
		"name":      "tools",
		"transport": "stdio",
		"command":   "sh",
		"enabled":   true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var server models.MCPServer
	decodeResponse(t, rec, &server)

	// Bad transport is a validation failure.
	rec = doJSON(t, mux, http.MethodPost, "/api/mcp-servers", map[string]any{
		"name":      "broken",
		"transport": "carrier-pigeon",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad transport: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/mcp-servers/"+server.ID+"/check", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("check: unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var checked models.MCPServer
	decodeResponse(t, rec, &checked)
	if checked.Status != models.MCPServerStatusReachable {
		t.Fatalf("expected reachable, got %q", checked.Status)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/mcp-servers/"+server.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: unexpected status %d", rec.Code)
	}
}

func TestEventsFeed(t *testing.T) {
	srv, _ := setupServer(t)
	mux := srv.Routes()

	for i := 0; i < 3; i++ {
		rec := doJSON(t, mux, http.MethodPost, "/api/templates", map[string]string{
			"name":    fmt.Sprintf("tmpl-%d", i),
			"content": "{{cash}}",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed template %d: status %d", i, rec.Code)
		}
	}

	rec := doJSON(t, mux, http.MethodGet, "/api/events?type=template.created&limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var page struct {
		Events     []*models.Event `json:"events"`
		NextCursor string          `json:"next_cursor"`
	}
	decodeResponse(t, rec, &page)
	if len(page.Events) != 2 || page.NextCursor == "" {
		t.Fatalf("expected a full first page with cursor, got %d events", len(page.Events))
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/events?type=template.created&limit=2&cursor="+page.NextCursor, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	decodeResponse(t, rec, &page)
	if len(page.Events) != 1 {
		t.Fatalf("expected final page with one event, got %d", len(page.Events))
	}
}
