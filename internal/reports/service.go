package reports

import (
	"context"
	"errors"
	"sort"
	"time"

	"stockreport-backend/internal/shared/telemetry"
)

// Service owns the save/list/history semantics on top of a Repo.
type Service struct {
	Repo Repo

	// now is injectable for tests; defaults to wall clock.
	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

// Save canonicalizes the document id, stamps provenance and upserts the
// list and detail records atomically. Returns the canonical docId.
func (s *Service) Save(ctx context.Context, userID string, result AnalysisResult) (string, error) {
	docID := NormalizeDocID(result.ExtractedData.ReportDate, result.ID)

	// The id is the join key between both collections and the embedded
	// metadata; all three copies must agree.
	result.ID = docID
	result.Metadata.ID = docID
	result.UserID = userID
	if result.Timestamp == 0 {
		result.Timestamp = s.nowMillis()
	}

	if !result.Evaluation.ScoreInRange() {
		telemetry.Warn("save.score_out_of_range", map[string]any{
			"doc_id": docID,
			"score":  result.Evaluation.Score,
		})
	}
	if !result.Evaluation.ValidStatus() {
		telemetry.Warn("save.unknown_status", map[string]any{
			"doc_id": docID,
			"status": result.Evaluation.Status,
		})
	}

	summary := summaryFromResult(docID, result)
	if err := s.Repo.Save(ctx, docID, summary, result); err != nil {
		return "", err
	}
	return docID, nil
}

// List returns the list records, newest first.
func (s *Service) List(ctx context.Context) ([]DocumentSummary, error) {
	summaries, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Timestamp > summaries[j].Timestamp
	})
	return summaries, nil
}

// HistoryByID returns the detail records for one id, newest first. The
// sort happens here rather than in the store so no compound index is
// required; the matched set per id stays small.
func (s *Service) HistoryByID(ctx context.Context, id string) ([]AnalysisResult, error) {
	history, err := s.Repo.HistoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp > history[j].Timestamp
	})
	return history, nil
}

// Latest returns the most recent detail record, or nil when none
// exists; an empty store is not an error at the API boundary.
func (s *Service) Latest(ctx context.Context) (*AnalysisResult, error) {
	latest, err := s.Repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return latest, nil
}

func (s *Service) nowMillis() int64 {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().UnixMilli()
}

func summaryFromResult(docID string, result AnalysisResult) DocumentSummary {
	date := result.ExtractedData.ReportDate
	if date == "" {
		date = result.Metadata.Date
	}
	sentiment := result.ExtractedData.ExecutiveSummary.Sentiment
	if sentiment == "" {
		sentiment = "Neutral"
	}
	return DocumentSummary{
		ID:                  docID,
		Title:               result.Metadata.Title,
		Category:            result.Metadata.Category,
		Date:                date,
		Author:              result.Metadata.Author,
		Timestamp:           result.Timestamp,
		LastEvaluation:      result.Evaluation.Status,
		BullishBearishScore: result.ExtractedData.ExecutiveSummary.BullishBearishScore,
		SummaryHeadline:     result.ExtractedData.ExecutiveSummary.Headline,
		Sentiment:           sentiment,
	}
}

// mergeSummary applies the merge contract shared by all repo
// implementations: string fields absent in the new write keep their
// prior values, while timestamp, evaluation status and score always
// reflect the latest save.
func mergeSummary(prev, next DocumentSummary) DocumentSummary {
	merged := next
	if merged.Title == "" {
		merged.Title = prev.Title
	}
	if merged.Category == "" {
		merged.Category = prev.Category
	}
	if merged.Date == "" {
		merged.Date = prev.Date
	}
	if merged.Author == "" {
		merged.Author = prev.Author
	}
	if merged.SummaryHeadline == "" {
		merged.SummaryHeadline = prev.SummaryHeadline
	}
	if merged.Sentiment == "" {
		merged.Sentiment = prev.Sentiment
	}
	return merged
}
