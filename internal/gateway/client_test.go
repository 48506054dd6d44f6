package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"stockreport-backend/internal/reports"
)

func TestHealthNeverErrors(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","db":"memory"}`))
	}))
	t.Cleanup(healthy.Close)

	if !NewClient(healthy.URL+"/api").Health(context.Background()) {
		t.Fatal("expected healthy backend")
	}

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	if NewClient(broken.URL+"/api").Health(context.Background()) {
		t.Fatal("expected unhealthy on 500")
	}

	down := NewClient("http://127.0.0.1:1/api")
	if down.Health(context.Background()) {
		t.Fatal("expected unhealthy on connection failure")
	}
}

func TestReadsDegradeToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL + "/api")
	ctx := context.Background()

	if got := client.List(ctx); got == nil || len(got) != 0 {
		t.Fatalf("List should degrade to empty slice, got %v", got)
	}
	if got := client.HistoryByID(ctx, "2025-01-15"); got == nil || len(got) != 0 {
		t.Fatalf("HistoryByID should degrade to empty slice, got %v", got)
	}
	if got := client.Latest(ctx); got != nil {
		t.Fatalf("Latest should degrade to nil, got %v", got)
	}
}

func TestLatestNullMeansNoAnalysis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	t.Cleanup(srv.Close)

	if got := NewClient(srv.URL + "/api").Latest(context.Background()); got != nil {
		t.Fatalf("expected nil for null body, got %v", got)
	}
}

func TestSaveReturnsCanonicalID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/save" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"id":"2025-01-15"}`))
	}))
	t.Cleanup(srv.Close)

	id, err := NewClient(srv.URL+"/api").Save(context.Background(), reports.AnalysisResult{ID: "client-id"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != "2025-01-15" {
		t.Fatalf("expected canonical id, got %q", id)
	}
}

func TestSaveFailureWrapsErrPersistence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"internal_error","message":"boom"}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL+"/api").Save(context.Background(), reports.AnalysisResult{ID: "x"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestTokenSourceAuthenticatesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer session-token" {
			t.Fatalf("missing bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL+"/api",
		WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "session-token"})))
	if !client.Health(context.Background()) {
		t.Fatal("expected healthy")
	}
}
