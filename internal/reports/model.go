package reports

import (
	"encoding/json"
	"strings"
)

// Evaluation status values the model is allowed to return.
const (
	StatusPositive = "positive"
	StatusNeutral  = "neutral"
	StatusNegative = "negative"
	StatusWarning  = "warning"
)

// DocumentMetadata identifies one analyzed source document.
type DocumentMetadata struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date,omitempty"`
	Author   string `json:"author,omitempty"`
}

// Warehouse is a per-warehouse stock entry.
type Warehouse struct {
	Name string  `json:"name"`
	Bags float64 `json:"bags"`
}

// Grading summarizes certification grading results.
type Grading struct {
	Passed      float64 `json:"passed"`
	Failed      float64 `json:"failed"`
	TotalGraded float64 `json:"total_graded"`
	Pending     float64 `json:"pending,omitempty"`
}

// ExecutiveSummary carries the strategist-level market read.
type ExecutiveSummary struct {
	Sentiment           string  `json:"sentiment"`
	BullishBearishScore float64 `json:"bullish_bearish_score"`
	Headline            string  `json:"headline"`
	Text                string  `json:"text"`
}

// KeyMetrics holds derived ratio and trend descriptions.
type KeyMetrics struct {
	FreshVsTransitionRatio string `json:"fresh_vs_transition_ratio"`
	ChangeFromPrevious     string `json:"change_from_previous"`
}

// DeepDiveAnalysis holds the longer-form risk and demand insights.
type DeepDiveAnalysis struct {
	GeoLogisticsRisk    string `json:"geo_logistics_risk"`
	SupplyDemandInsight string `json:"supply_demand_insight"`
}

// ExtractedData is the structured payload produced by the model. Every
// consumer can rely on Summary and KeyPoints being present; the report
// variant fields are specific to warehouse stock reports, and any
// fields outside the declared set survive round trips through Extra so
// schema evolution on the model side does not drop data.
type ExtractedData struct {
	ReportDate             string           `json:"report_date,omitempty"`
	TotalBags              float64          `json:"total_bags,omitempty"`
	Warehouses             []Warehouse      `json:"warehouses,omitempty"`
	Grading                Grading          `json:"grading"`
	ExecutiveSummary       ExecutiveSummary `json:"executive_summary"`
	KeyMetrics             KeyMetrics       `json:"key_metrics"`
	DeepDiveAnalysis       DeepDiveAnalysis `json:"deep_dive_analysis"`
	EngineeringSuggestions []string         `json:"engineering_suggestions,omitempty"`
	Summary                string           `json:"summary"`
	KeyPoints              []string         `json:"key_points"`

	// Extra keeps fields the declared shape does not know about.
	Extra map[string]json.RawMessage `json:"-"`
}

var extractedKnownKeys = map[string]struct{}{
	"report_date":             {},
	"total_bags":              {},
	"warehouses":              {},
	"grading":                 {},
	"executive_summary":       {},
	"key_metrics":             {},
	"deep_dive_analysis":      {},
	"engineering_suggestions": {},
	"summary":                 {},
	"key_points":              {},
}

type extractedDataAlias ExtractedData

// UnmarshalJSON decodes the declared fields and collects unknown ones
// into Extra.
func (e *ExtractedData) UnmarshalJSON(data []byte) error {
	var alias extractedDataAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw {
		if _, known := extractedKnownKeys[key]; known {
			delete(raw, key)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}

	*e = ExtractedData(alias)
	e.Extra = raw
	return nil
}

// MarshalJSON emits the declared fields plus any Extra fields. Declared
// fields win on key collision.
func (e ExtractedData) MarshalJSON() ([]byte, error) {
	alias := extractedDataAlias(e)
	base, err := json.Marshal(alias)
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, val := range e.Extra {
		if _, taken := merged[key]; taken {
			continue
		}
		merged[key] = val
	}
	return json.Marshal(merged)
}

// Evaluation is the model's judgment of the analyzed document.
type Evaluation struct {
	Score   float64  `json:"score"`
	Status  string   `json:"status"`
	Details string   `json:"details"`
	Tags    []string `json:"tags"`
}

// ScoreInRange reports whether the score sits inside [0,100]. Scores
// outside the range are persisted as-is; callers log a warning.
func (e Evaluation) ScoreInRange() bool {
	return e.Score >= 0 && e.Score <= 100
}

// ValidStatus reports whether the status is one of the allowed values.
func (e Evaluation) ValidStatus() bool {
	switch e.Status {
	case StatusPositive, StatusNeutral, StatusNegative, StatusWarning:
		return true
	default:
		return false
	}
}

// AnalysisResult is the unit of work and the unit of persistence. It is
// constructed by the analysis client and never mutated afterwards; the
// backend stamps UserID for provenance on save.
type AnalysisResult struct {
	ID            string           `json:"id"`
	Metadata      DocumentMetadata `json:"metadata"`
	ExtractedData ExtractedData    `json:"extracted_data"`
	Evaluation    Evaluation       `json:"evaluation"`
	Timestamp     int64            `json:"timestamp"`
	UserID        string           `json:"userId,omitempty"`
}

// DocumentSummary is the denormalized list record used by the history
// view; browsing never needs the full detail payload.
type DocumentSummary struct {
	ID                  string  `json:"id" bson:"id"`
	Title               string  `json:"title" bson:"title"`
	Category            string  `json:"category,omitempty" bson:"category,omitempty"`
	Date                string  `json:"date,omitempty" bson:"date,omitempty"`
	Author              string  `json:"author,omitempty" bson:"author,omitempty"`
	Timestamp           int64   `json:"timestamp" bson:"timestamp"`
	LastEvaluation      string  `json:"last_evaluation" bson:"last_evaluation"`
	BullishBearishScore float64 `json:"bullish_bearish_score" bson:"bullish_bearish_score"`
	SummaryHeadline     string  `json:"summary_headline" bson:"summary_headline"`
	Sentiment           string  `json:"sentiment" bson:"sentiment"`
}

// NormalizeDocID computes the canonical storage key. A report date wins
// over the caller-supplied id so repeated uploads of the same reporting
// period overwrite rather than accumulate.
func NormalizeDocID(reportDate, fallback string) string {
	if trimmed := strings.TrimSpace(reportDate); trimmed != "" {
		return strings.ReplaceAll(trimmed, "/", "-")
	}
	return fallback
}
