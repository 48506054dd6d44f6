package reports

import "context"

// Repo defines persistence operations against the two denormalized
// report collections. Save must write the list record (merged) and the
// detail record (replaced) atomically; both commit together or not at
// all. HistoryByID returns the matched set in storage order; callers
// sort. Latest returns ErrNotFound when no record exists.
type Repo interface {
	Save(ctx context.Context, docID string, summary DocumentSummary, result AnalysisResult) error
	List(ctx context.Context) ([]DocumentSummary, error)
	HistoryByID(ctx context.Context, id string) ([]AnalysisResult, error)
	Latest(ctx context.Context) (*AnalysisResult, error)
}
