package analyzer

import (
	"fmt"
	"strings"

	"stockreport-backend/internal/reports"
)

const basePrompt = `You are a senior commodity market strategist specializing in coffee markets.
Analyze the attached warehouse stock report and produce a structured assessment.

Instructions:
- Extract the report date exactly as printed in the document.
- Extract total certified stock in bags and the per-warehouse breakdown.
- Extract grading results: bags passed, failed, total graded and pending.
- Write an executive summary with a market sentiment (Bullish, Bearish or Neutral),
  a bullish/bearish score from -10 (strongly bearish) to +10 (strongly bullish),
  a one-line headline and a short analysis text.
- Derive key metrics: the fresh-vs-transition ratio and the change from the
  previous report when prior context is available.
- Provide a deep-dive on geographic/logistics risk and supply-demand insight.
- Give an overall evaluation score from 0 to 100, a status (positive, neutral,
  negative or warning), a details sentence and a few classification tags.
- Always fill summary and key_points, even for documents that are not stock reports.

Respond with JSON only, matching the response schema.`

// buildPrompt assembles the instruction block, appending a bounded
// summary of the previous report as trend context when one exists. The
// block stays small regardless of how large the stored payload is.
func buildPrompt(prev *reports.AnalysisResult) string {
	if prev == nil {
		return basePrompt
	}
	data := prev.ExtractedData

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n=== PREVIOUS REPORT CONTEXT")
	if data.ReportDate != "" {
		fmt.Fprintf(&b, " (%s)", data.ReportDate)
	}
	b.WriteString(" ===\n")
	b.WriteString("Use this earlier analysis to describe the change from the previous report.\n")
	if data.TotalBags > 0 {
		fmt.Fprintf(&b, "Total certified stock: %.0f bags.\n", data.TotalBags)
	}
	es := data.ExecutiveSummary
	if es.Sentiment != "" {
		fmt.Fprintf(&b, "Market sentiment: %s (score %.1f).\n", es.Sentiment, es.BullishBearishScore)
	}
	if es.Headline != "" {
		fmt.Fprintf(&b, "Headline: %s\n", es.Headline)
	}
	for i, wh := range data.Warehouses {
		if i == 2 {
			break
		}
		fmt.Fprintf(&b, "Warehouse %s: %.0f bags.\n", wh.Name, wh.Bags)
	}
	return b.String()
}
