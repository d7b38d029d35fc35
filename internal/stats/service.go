package stats

import (
	"context"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/documents"
)

type store interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// DocumentSource lists stored documents for aggregation.
type DocumentSource interface {
	List(ctx context.Context, limit, offset int) ([]documents.Document, error)
}

// AnalysisSource lists analysis jobs for aggregation.
type AnalysisSource interface {
	List(ctx context.Context, limit, offset int) ([]analyses.Analysis, error)
}

// Service reads aggregate counters through an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service that aggregates over repository listings.
func NewService(docs DocumentSource, jobs AnalysisSource) *Service {
	return &Service{store: newMemoryStore(docs, jobs)}
}

// NewPostgresService constructs a Service backed by Postgres aggregates.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Snapshot returns current totals for documents and analyses.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.store.Snapshot(ctx)
}
