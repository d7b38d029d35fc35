package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"resume-analyzer/internal/score"
	"resume-analyzer/internal/score/recommendations"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, document_id, status, mode, analysis_version, keywords, job_description,
       name, email, phone, skills, education, experience,
       completeness_score, keyword_score, total_score,
       matched_keywords, breakdown, recommendations,
       error_code, error_message, error_retryable,
       started_at, completed_at, created_at, updated_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, document_id, status, mode, analysis_version, keywords, job_description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $8)`

	keywordsPayload, err := jsonbOrNil(analysis.Keywords)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.DocumentID,
		analysis.Status,
		analysis.Mode,
		analysis.AnalysisVersion,
		keywordsPayload,
		analysis.JobDescription,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	return scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
}

// GetOrCreateForDocument returns the latest analysis for a document or creates
// a new one. A failed latest analysis blocks creation unless allowRetry is set.
func (r *PGRepo) GetOrCreateForDocument(ctx context.Context, analysis Analysis, allowRetry bool) (Analysis, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Analysis{}, false, err
	}
	defer tx.Rollback()

	// Serialize per-document to avoid duplicate analysis creation.
	if _, err := tx.ExecContext(ctx, `SELECT id FROM documents WHERE id = $1 FOR UPDATE`, analysis.DocumentID); err != nil {
		return Analysis{}, false, err
	}

	latest, err := getLatestForDocument(ctx, tx, analysis.DocumentID)
	if err == nil {
		switch latest.Status {
		case StatusQueued, StatusProcessing, StatusCompleted:
			if err := tx.Commit(); err != nil {
				return Analysis{}, false, err
			}
			return latest, false, nil
		case StatusFailed:
			if !allowRetry {
				if err := tx.Commit(); err != nil {
					return Analysis{}, false, err
				}
				return latest, false, ErrRetryRequired
			}
		}
	} else if !errors.Is(err, sql.ErrNoRows) && !errors.Is(err, ErrNotFound) {
		return Analysis{}, false, err
	}

	if err := createWithTx(ctx, tx, analysis); err != nil {
		return Analysis{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return Analysis{}, false, err
	}
	return analysis, true, nil
}

// List returns analyses ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

// MarkProcessing transitions an analysis to processing and records its start time.
func (r *PGRepo) MarkProcessing(ctx context.Context, analysisID string, startedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = 'processing',
    started_at = CASE WHEN started_at IS NULL THEN $1::timestamptz ELSE started_at END,
    updated_at = now()
WHERE id = $2 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, startedAt, analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Complete stores the result columns and transitions the analysis to completed.
func (r *PGRepo) Complete(ctx context.Context, analysisID string, result Result, completedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = 'completed',
    keywords = $1::jsonb,
    name = $2, email = $3, phone = $4,
    skills = $5::jsonb,
    education = $6, experience = $7,
    completeness_score = $8, keyword_score = $9, total_score = $10,
    matched_keywords = $11::jsonb,
    breakdown = $12::jsonb,
    recommendations = $13::jsonb,
    completed_at = $14::timestamptz,
    updated_at = now()
WHERE id = $15 AND deleted_at IS NULL`

	keywordsPayload, err := jsonbOrNil(result.Keywords)
	if err != nil {
		return err
	}
	skillsPayload, err := jsonbOrNil(result.Sections.Skills)
	if err != nil {
		return err
	}
	matchedPayload, err := jsonbOrNil(result.Score.MatchedKeywords)
	if err != nil {
		return err
	}
	breakdownPayload, err := jsonbOrNil(result.Breakdown)
	if err != nil {
		return err
	}
	recommendationsPayload, err := jsonbOrNil(result.Recommendations)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query,
		keywordsPayload,
		result.Sections.Name,
		result.Sections.Email,
		result.Sections.Phone,
		skillsPayload,
		result.Sections.Education,
		result.Sections.Experience,
		result.Score.CompletenessScore,
		result.Score.KeywordScore,
		result.Score.TotalScore,
		matchedPayload,
		breakdownPayload,
		recommendationsPayload,
		completedAt,
		analysisID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Fail records error details and transitions the analysis to failed.
func (r *PGRepo) Fail(ctx context.Context, analysisID string, code, message string, retryable bool, completedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = 'failed',
    error_code = $1,
    error_message = $2,
    error_retryable = $3,
    completed_at = CASE WHEN completed_at IS NULL THEN $4::timestamptz ELSE completed_at END,
    updated_at = now()
WHERE id = $5 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, code, message, retryable, completedAt, analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)

func jsonbOrNil(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		if v == nil {
			return nil, nil
		}
	case *score.Breakdown:
		if v == nil {
			return nil, nil
		}
	case []recommendations.Recommendation:
		if v == nil {
			return nil, nil
		}
	}
	return json.Marshal(value)
}

func createWithTx(ctx context.Context, tx *sql.Tx, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, document_id, status, mode, analysis_version, keywords, job_description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $8)`

	keywordsPayload, err := jsonbOrNil(analysis.Keywords)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query,
		analysis.ID,
		analysis.DocumentID,
		analysis.Status,
		analysis.Mode,
		analysis.AnalysisVersion,
		keywordsPayload,
		analysis.JobDescription,
		analysis.CreatedAt,
	)
	return err
}

func getLatestForDocument(ctx context.Context, q queryer, documentID string) (Analysis, error) {
	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE document_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1`
	return scanAnalysis(q.QueryRowContext(ctx, query, documentID))
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var analysisVersion sql.NullString
	var keywordsJSON sql.NullString
	var jobDescription sql.NullString
	var name sql.NullString
	var email sql.NullString
	var phone sql.NullString
	var skillsJSON sql.NullString
	var education sql.NullString
	var experience sql.NullString
	var completenessScore sql.NullFloat64
	var keywordScore sql.NullFloat64
	var totalScore sql.NullFloat64
	var matchedJSON sql.NullString
	var breakdownJSON sql.NullString
	var recommendationsJSON sql.NullString
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var errorRetryable sql.NullBool
	var startedAt sql.NullTime
	var completedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.DocumentID,
		&a.Status,
		&a.Mode,
		&analysisVersion,
		&keywordsJSON,
		&jobDescription,
		&name,
		&email,
		&phone,
		&skillsJSON,
		&education,
		&experience,
		&completenessScore,
		&keywordScore,
		&totalScore,
		&matchedJSON,
		&breakdownJSON,
		&recommendationsJSON,
		&errorCode,
		&errorMessage,
		&errorRetryable,
		&startedAt,
		&completedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}

	if analysisVersion.Valid {
		a.AnalysisVersion = analysisVersion.String
	}
	if keywordsJSON.Valid {
		_ = json.Unmarshal([]byte(keywordsJSON.String), &a.Keywords)
	}
	if jobDescription.Valid {
		a.JobDescription = jobDescription.String
	}
	if errorCode.Valid {
		a.ErrorCode = errorCode.String
	}
	if errorMessage.Valid {
		a.ErrorMessage = errorMessage.String
	}
	if errorRetryable.Valid {
		a.ErrorRetryable = errorRetryable.Bool
	}
	if startedAt.Valid {
		a.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}

	if totalScore.Valid {
		result := Result{Keywords: a.Keywords}
		result.Sections.Name = name.String
		result.Sections.Email = email.String
		result.Sections.Phone = phone.String
		result.Sections.Skills = []string{}
		if skillsJSON.Valid {
			_ = json.Unmarshal([]byte(skillsJSON.String), &result.Sections.Skills)
		}
		result.Sections.Education = education.String
		result.Sections.Experience = experience.String
		result.Score = score.Report{
			CompletenessScore: completenessScore.Float64,
			KeywordScore:      keywordScore.Float64,
			TotalScore:        totalScore.Float64,
			MatchedKeywords:   []string{},
			KeywordsTotal:     len(a.Keywords),
		}
		if matchedJSON.Valid {
			_ = json.Unmarshal([]byte(matchedJSON.String), &result.Score.MatchedKeywords)
		}
		if breakdownJSON.Valid {
			var breakdown score.Breakdown
			if err := json.Unmarshal([]byte(breakdownJSON.String), &breakdown); err == nil {
				result.Breakdown = &breakdown
			}
		}
		if recommendationsJSON.Valid {
			_ = json.Unmarshal([]byte(recommendationsJSON.String), &result.Recommendations)
		}
		a.Result = &result
	}
	return a, nil
}
