package analyses

import (
	"context"
	"time"
)

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	// GetOrCreateForDocument returns the latest analysis for a document when
	// one is still usable, or inserts the given analysis. The bool reports
	// whether a new row was created.
	GetOrCreateForDocument(ctx context.Context, analysis Analysis, allowRetry bool) (Analysis, bool, error)
	List(ctx context.Context, limit, offset int) ([]Analysis, error)
	MarkProcessing(ctx context.Context, analysisID string, startedAt time.Time) error
	Complete(ctx context.Context, analysisID string, result Result, completedAt time.Time) error
	Fail(ctx context.Context, analysisID string, code, message string, retryable bool, completedAt time.Time) error
}
