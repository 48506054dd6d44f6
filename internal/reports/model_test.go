package reports

import (
	"encoding/json"
	"testing"
)

func TestNormalizeDocID(t *testing.T) {
	cases := []struct {
		name       string
		reportDate string
		fallback   string
		want       string
	}{
		{"slashes become hyphens", "2025/01/15", "doc-1", "2025-01-15"},
		{"hyphenated date unchanged", "2025-01-15", "doc-1", "2025-01-15"},
		{"empty date falls back", "", "doc-1", "doc-1"},
		{"whitespace date falls back", "   ", "doc-1", "doc-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDocID(tc.reportDate, tc.fallback); got != tc.want {
				t.Fatalf("NormalizeDocID(%q, %q) = %q, want %q", tc.reportDate, tc.fallback, got, tc.want)
			}
		})
	}
}

func TestExtractedDataKeepsUnknownFields(t *testing.T) {
	raw := `{
		"report_date": "2025-01-15",
		"summary": "s",
		"key_points": ["k"],
		"regional_breakdown": {"antwerp": 12000},
		"analyst_note": "watch logistics"
	}`

	var data ExtractedData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if data.ReportDate != "2025-01-15" || data.Summary != "s" {
		t.Fatalf("declared fields lost: %+v", data)
	}
	if len(data.Extra) != 2 {
		t.Fatalf("expected 2 extra fields, got %d", len(data.Extra))
	}

	out, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var round map[string]json.RawMessage
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("Unmarshal round trip: %v", err)
	}
	if _, ok := round["regional_breakdown"]; !ok {
		t.Fatal("unknown field dropped on round trip")
	}
	if _, ok := round["analyst_note"]; !ok {
		t.Fatal("unknown field dropped on round trip")
	}
}

func TestEvaluationValidation(t *testing.T) {
	if !(Evaluation{Score: 50, Status: StatusPositive}).ScoreInRange() {
		t.Fatal("50 should be in range")
	}
	if (Evaluation{Score: 150}).ScoreInRange() {
		t.Fatal("150 should be out of range")
	}
	if (Evaluation{Score: -1}).ScoreInRange() {
		t.Fatal("-1 should be out of range")
	}
	if !(Evaluation{Status: StatusWarning}).ValidStatus() {
		t.Fatal("warning is a valid status")
	}
	if (Evaluation{Status: "great"}).ValidStatus() {
		t.Fatal("great is not a valid status")
	}
}
