package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"stockreport-backend/internal/extract"
	"stockreport-backend/internal/llm"
	"stockreport-backend/internal/reports"
	"stockreport-backend/internal/shared/telemetry"
)

// LatestProvider supplies the most recent stored analysis for trend
// context. A nil result with nil error means no prior analysis exists.
type LatestProvider interface {
	Latest(ctx context.Context) (*reports.AnalysisResult, error)
}

// Service runs the document analysis pipeline: extract, prompt, model
// call, parse, id derivation.
type Service struct {
	LLM    llm.Client
	Latest LatestProvider

	// PDFAsText sends extracted PDF text instead of the raw bytes.
	// Cuts request size, but loses layout for scanned documents.
	PDFAsText bool

	now func() time.Time
}

// NewService constructs a Service. latest may be nil when no store is
// available; analyses then run without trend context.
func NewService(client llm.Client, latest LatestProvider) *Service {
	return &Service{LLM: client, Latest: latest, now: time.Now}
}

// modelPayload is the shape the model is asked to return. The analysis
// id and timestamp are derived server-side, not trusted from the model.
type modelPayload struct {
	Metadata      reports.DocumentMetadata `json:"metadata"`
	ExtractedData reports.ExtractedData    `json:"extracted_data"`
	Evaluation    reports.Evaluation       `json:"evaluation"`
}

// Analyze runs one document through the model and returns the
// assembled result. The caller decides whether to persist it.
func (s *Service) Analyze(ctx context.Context, fileName, mimeType string, data []byte) (reports.AnalysisResult, error) {
	if s.LLM == nil {
		return reports.AnalysisResult{}, ErrNotConfigured
	}

	input := llm.AnalyzeInput{Schema: responseSchema()}
	switch {
	case extract.IsSpreadsheet(fileName):
		csv, err := extract.SpreadsheetToCSV(data)
		if err != nil {
			return reports.AnalysisResult{}, err
		}
		input.Text = csv
	case s.PDFAsText:
		text, err := extract.PDFText(data)
		if err != nil {
			return reports.AnalysisResult{}, err
		}
		input.Text = text
	default:
		input.InlineData = data
		input.InlineMimeType = mimeType
		if input.InlineMimeType == "" {
			input.InlineMimeType = "application/pdf"
		}
	}

	// Trend context is best effort; a store outage must not block a
	// fresh analysis.
	var prev *reports.AnalysisResult
	if s.Latest != nil {
		fetched, err := s.Latest.Latest(ctx)
		if err != nil {
			telemetry.Warn("analyze.context_unavailable", map[string]any{"error": err.Error()})
		} else {
			prev = fetched
		}
	}
	input.Prompt = buildPrompt(prev)

	raw, err := s.LLM.AnalyzeDocument(ctx, input)
	if err != nil {
		return reports.AnalysisResult{}, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	var payload modelPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return reports.AnalysisResult{}, fmt.Errorf("%w: unparseable model output: %v", ErrAnalysis, err)
	}

	// The model's own id wins here; the save path re-canonicalizes to
	// the report date, so this only names unsaved results.
	docID := strings.TrimSpace(payload.Metadata.ID)
	if docID == "" {
		docID = reports.NormalizeDocID(payload.ExtractedData.ReportDate, fileStem(fileName))
	}
	payload.Metadata.ID = docID

	return reports.AnalysisResult{
		ID:            docID,
		Metadata:      payload.Metadata,
		ExtractedData: payload.ExtractedData,
		Evaluation:    payload.Evaluation,
		Timestamp:     s.nowMillis(),
	}, nil
}

func (s *Service) nowMillis() int64 {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().UnixMilli()
}

func fileStem(fileName string) string {
	base := filepath.Base(fileName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		return "document"
	}
	return stem
}
