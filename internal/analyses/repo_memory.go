package analyses

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu         sync.RWMutex
	byID       map[string]Analysis
	byDocument map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:       make(map[string]Analysis),
		byDocument: make(map[string][]string),
	}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if analysis.UpdatedAt.IsZero() {
		analysis.UpdatedAt = analysis.CreatedAt
	}
	r.byID[analysis.ID] = analysis
	r.byDocument[analysis.DocumentID] = append(r.byDocument[analysis.DocumentID], analysis.ID)
	return nil
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// GetOrCreateForDocument returns the latest analysis for a document or stores
// the given one. A failed latest analysis blocks creation unless allowRetry
// is set.
func (r *MemoryRepo) GetOrCreateForDocument(ctx context.Context, analysis Analysis, allowRetry bool) (Analysis, bool, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.byDocument[analysis.DocumentID]
	if len(ids) > 0 {
		latest := r.byID[ids[len(ids)-1]]
		switch latest.Status {
		case StatusQueued, StatusProcessing, StatusCompleted:
			return latest, false, nil
		case StatusFailed:
			if !allowRetry {
				return latest, false, ErrRetryRequired
			}
		}
	}

	if analysis.UpdatedAt.IsZero() {
		analysis.UpdatedAt = analysis.CreatedAt
	}
	r.byID[analysis.ID] = analysis
	r.byDocument[analysis.DocumentID] = append(r.byDocument[analysis.DocumentID], analysis.ID)
	return analysis, true, nil
}

// List returns analyses ordered newest-first with limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	analyses := make([]Analysis, 0, len(r.byID))
	for _, analysis := range r.byID {
		analyses = append(analyses, analysis)
	}
	r.mu.RUnlock()

	sort.Slice(analyses, func(i, j int) bool {
		if analyses[i].CreatedAt.Equal(analyses[j].CreatedAt) {
			return analyses[i].ID > analyses[j].ID
		}
		return analyses[i].CreatedAt.After(analyses[j].CreatedAt)
	})

	if offset >= len(analyses) {
		return []Analysis{}, nil
	}
	end := len(analyses)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return analyses[offset:end], nil
}

// MarkProcessing transitions an analysis to processing and records its start time.
func (r *MemoryRepo) MarkProcessing(ctx context.Context, analysisID string, startedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.Status = StatusProcessing
	if analysis.StartedAt == nil {
		analysis.StartedAt = &startedAt
	}
	analysis.UpdatedAt = time.Now().UTC()
	r.byID[analysisID] = analysis
	return nil
}

// Complete stores the result and transitions the analysis to completed.
func (r *MemoryRepo) Complete(ctx context.Context, analysisID string, result Result, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.Status = StatusCompleted
	analysis.Result = &result
	analysis.Keywords = result.Keywords
	analysis.CompletedAt = &completedAt
	analysis.UpdatedAt = time.Now().UTC()
	r.byID[analysisID] = analysis
	return nil
}

// Fail records error details and transitions the analysis to failed.
func (r *MemoryRepo) Fail(ctx context.Context, analysisID string, code, message string, retryable bool, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.Status = StatusFailed
	analysis.ErrorCode = code
	analysis.ErrorMessage = message
	analysis.ErrorRetryable = retryable
	if analysis.CompletedAt == nil {
		analysis.CompletedAt = &completedAt
	}
	analysis.UpdatedAt = time.Now().UTC()
	r.byID[analysisID] = analysis
	return nil
}
