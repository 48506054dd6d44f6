package reports

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo, used in dev mode
// and by handler tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	summaries map[string]DocumentSummary
	details   map[string]AnalysisResult
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		summaries: make(map[string]DocumentSummary),
		details:   make(map[string]AnalysisResult),
	}
}

// Save merges the list record and replaces the detail record under one
// lock, mirroring the batched write of the real stores.
func (r *MemoryRepo) Save(ctx context.Context, docID string, summary DocumentSummary, result AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.summaries[docID]; ok {
		summary = mergeSummary(prev, summary)
	}
	r.summaries[docID] = summary
	r.details[docID] = result
	return nil
}

// List returns all list records in unspecified order.
func (r *MemoryRepo) List(ctx context.Context) ([]DocumentSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DocumentSummary, 0, len(r.summaries))
	for _, s := range r.summaries {
		out = append(out, s)
	}
	return out, nil
}

// HistoryByID returns detail records whose top-level id matches.
func (r *MemoryRepo) HistoryByID(ctx context.Context, id string) ([]AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []AnalysisResult
	for _, res := range r.details {
		if res.ID == id {
			out = append(out, res)
		}
	}
	return out, nil
}

// Latest returns the detail record with the highest timestamp, or
// ErrNotFound when the store is empty.
func (r *MemoryRepo) Latest(ctx context.Context) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *AnalysisResult
	for _, res := range r.details {
		if latest == nil || res.Timestamp > latest.Timestamp {
			copied := res
			latest = &copied
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

var _ Repo = (*MemoryRepo)(nil)
