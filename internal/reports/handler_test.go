package reports_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"stockreport-backend/internal/reports"
	sharedauth "stockreport-backend/internal/shared/auth"
	"stockreport-backend/internal/shared/config"
	"stockreport-backend/internal/shared/server"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	svc := reports.NewService(reports.NewMemoryRepo())
	handler := reports.NewHandler(svc, "memory")
	return server.NewRouter(server.RouterDeps{
		Config: config.Config{
			Env:             "dev",
			CORSAllowOrigin: []string{"http://localhost:5173"},
		},
		Reports: handler,
	})
}

func sessionToken(t *testing.T, sub string) string {
	t.Helper()
	token, err := sharedauth.SignJWT(sharedauth.Claims{Sub: sub})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	return token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthIsPublic(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/health", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["db"] != "memory" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/documents", "/api/history/2025-01-15", "/api/latest"} {
		resp := doJSON(t, router, http.MethodGet, path, "", "")
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.Code)
		}
	}
	resp := doJSON(t, router, http.MethodPost, "/api/save", "", `{"id":"x"}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("save: expected 401, got %d", resp.Code)
	}
}

func TestSessionCookieAuthenticates(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: sessionToken(t, "user-1")})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with session cookie, got %d", resp.Code)
	}
}

func TestSaveThenBrowseFlow(t *testing.T) {
	router := newTestRouter(t)
	token := sessionToken(t, "user-1")

	payload := `{
		"id": "client-id",
		"metadata": {"id": "client-id", "title": "January Report"},
		"extracted_data": {
			"report_date": "2025/01/15",
			"executive_summary": {"sentiment": "Bullish", "bullish_bearish_score": 3, "headline": "Tight supply"},
			"summary": "s",
			"key_points": ["k"]
		},
		"evaluation": {"score": 82, "status": "positive", "details": "d", "tags": ["stock"]}
	}`

	resp := doJSON(t, router, http.MethodPost, "/api/save", token, payload)
	if resp.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var saved struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode save: %v", err)
	}
	if !saved.Success || saved.ID != "2025-01-15" {
		t.Fatalf("unexpected save response: %+v", saved)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/documents", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("documents: expected 200, got %d", resp.Code)
	}
	var summaries []reports.DocumentSummary
	if err := json.Unmarshal(resp.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode documents: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "2025-01-15" || summaries[0].Sentiment != "Bullish" {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/history/2025-01-15", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", resp.Code)
	}
	var history []reports.AnalysisResult
	if err := json.Unmarshal(resp.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 1 || history[0].UserID != "user-1" {
		t.Fatalf("unexpected history: %+v", history)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/latest", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("latest: expected 200, got %d", resp.Code)
	}
	var latest reports.AnalysisResult
	if err := json.Unmarshal(resp.Body.Bytes(), &latest); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if latest.ID != "2025-01-15" {
		t.Fatalf("unexpected latest: %+v", latest)
	}
}

func TestLatestEmptyStoreReturnsJSONNull(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/latest", sessionToken(t, "user-1"), "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := strings.TrimSpace(resp.Body.String()); body != "null" {
		t.Fatalf("expected null body, got %q", body)
	}
}

func TestEmptyListsSerializeAsArrays(t *testing.T) {
	router := newTestRouter(t)
	token := sessionToken(t, "user-1")

	resp := doJSON(t, router, http.MethodGet, "/api/documents", token, "")
	if body := strings.TrimSpace(resp.Body.String()); body != "[]" {
		t.Fatalf("documents: expected [], got %q", body)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/history/none", token, "")
	if body := strings.TrimSpace(resp.Body.String()); body != "[]" {
		t.Fatalf("history: expected [], got %q", body)
	}
}

func TestSaveRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/save", sessionToken(t, "user-1"), `{"id":`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
