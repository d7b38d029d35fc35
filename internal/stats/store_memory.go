package stats

import (
	"context"

	"resume-analyzer/internal/analyses"
)

type memoryStore struct {
	docs DocumentSource
	jobs AnalysisSource
}

func newMemoryStore(docs DocumentSource, jobs AnalysisSource) *memoryStore {
	return &memoryStore{docs: docs, jobs: jobs}
}

func (s *memoryStore) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	docs, err := s.docs.List(ctx, 0, 0)
	if err != nil {
		return Snapshot{}, err
	}
	jobs, err := s.jobs.List(ctx, 0, 0)
	if err != nil {
		return Snapshot{}, err
	}

	snap := emptySnapshot()
	for _, doc := range docs {
		snap.Documents.Total++
		snap.Documents.ByStatus[doc.Status]++
		snap.Documents.ByFormat[formatForMime(doc.MimeType)]++
	}

	var sum float64
	var completed int
	for _, job := range jobs {
		snap.Analyses.Total++
		snap.Analyses.ByStatus[job.Status]++
		snap.Analyses.ByMode[string(job.Mode)]++
		switch job.Status {
		case analyses.StatusCompleted:
			if job.Result != nil {
				sum += job.Result.Score.TotalScore
				completed++
			}
		case analyses.StatusFailed:
			if job.ErrorCode != "" {
				snap.Analyses.FailuresByCode[job.ErrorCode]++
			}
		}
	}
	if completed > 0 {
		avg := round2(sum / float64(completed))
		snap.Analyses.AverageScore = &avg
	}
	return snap, nil
}
