package stats

import (
	"context"
	"database/sql"

	"resume-analyzer/internal/analyses"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed stats store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

// Snapshot runs the aggregate queries inside one transaction so the counts
// describe a single consistent state.
func (s *pgStore) Snapshot(ctx context.Context) (Snapshot, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	snap := emptySnapshot()

	docStatus, err := countGroups(ctx, tx, `
SELECT status, COUNT(*) FROM documents WHERE deleted_at IS NULL GROUP BY status`)
	if err != nil {
		return Snapshot{}, err
	}
	for status, n := range docStatus {
		snap.Documents.ByStatus[status] = n
		snap.Documents.Total += n
	}

	docMime, err := countGroups(ctx, tx, `
SELECT mime_type, COUNT(*) FROM documents WHERE deleted_at IS NULL GROUP BY mime_type`)
	if err != nil {
		return Snapshot{}, err
	}
	for mime, n := range docMime {
		snap.Documents.ByFormat[formatForMime(mime)] += n
	}

	jobStatus, err := countGroups(ctx, tx, `
SELECT status, COUNT(*) FROM analyses WHERE deleted_at IS NULL GROUP BY status`)
	if err != nil {
		return Snapshot{}, err
	}
	for status, n := range jobStatus {
		snap.Analyses.ByStatus[status] = n
		snap.Analyses.Total += n
	}

	jobMode, err := countGroups(ctx, tx, `
SELECT mode, COUNT(*) FROM analyses WHERE deleted_at IS NULL GROUP BY mode`)
	if err != nil {
		return Snapshot{}, err
	}
	for mode, n := range jobMode {
		snap.Analyses.ByMode[mode] = n
	}

	failures, err := countGroups(ctx, tx, `
SELECT error_code, COUNT(*) FROM analyses
WHERE deleted_at IS NULL AND status = $1 AND error_code <> ''
GROUP BY error_code`, analyses.StatusFailed)
	if err != nil {
		return Snapshot{}, err
	}
	for code, n := range failures {
		snap.Analyses.FailuresByCode[code] = n
	}

	var avg sql.NullFloat64
	if err = tx.QueryRowContext(ctx, `
SELECT AVG(total_score) FROM analyses
WHERE deleted_at IS NULL AND status = $1 AND total_score IS NOT NULL`,
		analyses.StatusCompleted).Scan(&avg); err != nil {
		return Snapshot{}, err
	}
	if avg.Valid {
		rounded := round2(avg.Float64)
		snap.Analyses.AverageScore = &rounded
	}

	if err = tx.Commit(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func countGroups(ctx context.Context, tx *sql.Tx, query string, args ...any) (map[string]int, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}
