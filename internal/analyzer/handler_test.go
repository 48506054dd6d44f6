package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"stockreport-backend/internal/reports"
)

func newAnalyzeRouter(t *testing.T, svc *Service) (*gin.Engine, *reports.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reportsSvc := reports.NewService(reports.NewMemoryRepo())
	router := gin.New()
	NewHandler(svc, reportsSvc).RegisterRoutes(router.Group("/api"))
	return router, reportsSvc
}

func multipartUpload(t *testing.T, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestAnalyzeEndpointPersistsResult(t *testing.T) {
	client := &fakeLLM{response: validModelResponse("model-id", "2025/01/15")}
	svc := NewService(client, nil)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	router, reportsSvc := newAnalyzeRouter(t, svc)

	body, contentType := multipartUpload(t, "report.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var parsed struct {
		ID     string                 `json:"id"`
		Result reports.AnalysisResult `json:"result"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if parsed.ID != "2025-01-15" {
		t.Fatalf("expected canonical id, got %q", parsed.ID)
	}

	latest, err := reportsSvc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest == nil || latest.ID != "2025-01-15" {
		t.Fatalf("analysis was not persisted: %+v", latest)
	}
}

type offlineRepo struct{}

func (offlineRepo) Save(ctx context.Context, docID string, summary reports.DocumentSummary, result reports.AnalysisResult) error {
	return errors.New("store offline")
}

func (offlineRepo) List(ctx context.Context) ([]reports.DocumentSummary, error) {
	return nil, errors.New("store offline")
}

func (offlineRepo) HistoryByID(ctx context.Context, id string) ([]reports.AnalysisResult, error) {
	return nil, errors.New("store offline")
}

func (offlineRepo) Latest(ctx context.Context) (*reports.AnalysisResult, error) {
	return nil, errors.New("store offline")
}

func TestAnalyzeEndpointSaveFailureStillReturnsResult(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client := &fakeLLM{response: validModelResponse("model-id", "2025/01/15")}
	svc := NewService(client, nil)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	reportsSvc := reports.NewService(offlineRepo{})
	router := gin.New()
	NewHandler(svc, reportsSvc).RegisterRoutes(router.Group("/api"))

	body, contentType := multipartUpload(t, "report.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 when only the save fails, got %d: %s", resp.Code, resp.Body.String())
	}
	var parsed struct {
		Result      reports.AnalysisResult `json:"result"`
		SaveWarning string                 `json:"save_warning"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if parsed.SaveWarning != "analysis completed but could not be saved" {
		t.Fatalf("expected save warning, got %q", parsed.SaveWarning)
	}
	if parsed.Result.ID != "model-id" || parsed.Result.ExtractedData.Summary != "s" {
		t.Fatalf("analysis result not preserved: %+v", parsed.Result)
	}
}

func TestAnalyzeEndpointWithoutFile(t *testing.T) {
	router, _ := newAnalyzeRouter(t, NewService(&fakeLLM{}, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAnalyzeEndpointNotConfigured(t *testing.T) {
	router, _ := newAnalyzeRouter(t, NewService(nil, nil))

	body, contentType := multipartUpload(t, "report.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestAnalyzeEndpointModelFailure(t *testing.T) {
	client := &fakeLLM{err: context.DeadlineExceeded}
	router, _ := newAnalyzeRouter(t, NewService(client, nil))

	body, contentType := multipartUpload(t, "report.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}
