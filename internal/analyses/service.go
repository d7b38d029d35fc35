package analyses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/documents"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/keywords"
	"resume-analyzer/internal/parse"
	"resume-analyzer/internal/queue"
	"resume-analyzer/internal/score"
	"resume-analyzer/internal/score/recommendations"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/telemetry"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Service contains business logic for analyses.
type Service struct {
	Repo            Repo
	DocRepo         documents.DocumentsRepo
	Store           object.ObjectStore
	JobQueue        queue.Client
	Keywords        []string
	AnalysisVersion string
}

// Create enqueues a new analysis job for a document.
func (s *Service) Create(ctx context.Context, documentID string, mode AnalysisMode, keywordList []string, jobDescription string) (Analysis, error) {
	analysis, err := s.newAnalysis(documentID, mode, keywordList, jobDescription)
	if err != nil {
		return Analysis{}, err
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}
	if err := s.enqueue(ctx, analysis.ID); err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// StartOrReuse enqueues a new analysis or reuses an existing one for
// idempotent requests. A failed latest analysis is only replaced when
// allowRetry is set; otherwise the repo reports ErrRetryRequired.
func (s *Service) StartOrReuse(ctx context.Context, documentID string, mode AnalysisMode, keywordList []string, jobDescription string, allowRetry bool) (Analysis, bool, error) {
	analysis, err := s.newAnalysis(documentID, mode, keywordList, jobDescription)
	if err != nil {
		return Analysis{}, false, err
	}
	created, wasCreated, err := s.Repo.GetOrCreateForDocument(ctx, analysis, allowRetry)
	if err != nil {
		return created, false, err
	}
	if wasCreated {
		if err := s.enqueue(ctx, created.ID); err != nil {
			return created, false, err
		}
	}
	return created, wasCreated, nil
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns analyses ordered newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Process handles one queued job. Queue workers invoke it for every message.
func (s *Service) Process(ctx context.Context, msg queue.Message) {
	s.completeAsync(withRequestID(ctx, msg.RequestID), msg.AnalysisID)
}

func (s *Service) newAnalysis(documentID string, mode AnalysisMode, keywordList []string, jobDescription string) (Analysis, error) {
	if documentID == "" {
		return Analysis{}, errors.New("documentID is required")
	}
	if mode == "" {
		mode = ModeBasic
	}
	if len(keywordList) == 0 {
		keywordList = s.Keywords
	}
	return Analysis{
		ID:              uuid.NewString(),
		DocumentID:      documentID,
		Status:          StatusQueued,
		Mode:            mode,
		AnalysisVersion: normalizeAnalysisVersion(s.AnalysisVersion),
		Keywords:        keywordList,
		JobDescription:  jobDescription,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func (s *Service) enqueue(ctx context.Context, analysisID string) error {
	if s.JobQueue == nil {
		return ErrJobQueueNotConfigured
	}
	return s.JobQueue.Send(ctx, queue.NewMessage(analysisID, requestIDFromContext(ctx)))
}

func normalizeAnalysisVersion(version string) string {
	if strings.TrimSpace(version) == "" {
		return "unknown"
	}
	return strings.TrimSpace(version)
}

func (s *Service) completeAsync(ctx context.Context, analysisID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, analysisID, "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	startedAt := time.Now().UTC()
	if err := s.Repo.MarkProcessing(ctx, analysisID, startedAt); err != nil {
		s.failAnalysis(ctx, analysisID, "", fmt.Errorf("set processing failed: %w", err), &startedAt)
		return
	}

	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		s.failAnalysis(ctx, analysisID, "", fmt.Errorf("analysis lookup: %w", err), &startedAt)
		return
	}
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       analysis.DocumentID,
		"analysis_id":       analysis.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})
	if s.DocRepo == nil || s.Store == nil {
		s.failAnalysis(ctx, analysisID, analysis.DocumentID, errors.New("missing document store dependencies"), &startedAt)
		return
	}

	doc, err := s.DocRepo.GetByID(ctx, analysis.DocumentID)
	if err != nil {
		s.failAnalysis(ctx, analysisID, analysis.DocumentID, fmt.Errorf("document lookup id=%s: %w", analysis.DocumentID, err), &startedAt)
		return
	}

	extractedKey := doc.ExtractedTextKey
	if extractedKey == "" {
		_, format, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
		if err != nil {
			s.failAnalysis(ctx, analysisID, analysis.DocumentID, fmt.Errorf("document %s mime %s: %w", doc.ID, doc.MimeType, err), &startedAt)
			return
		}
		metrics.IncExtracted(string(format))
		extractedKey = doc.StorageKey + ".extracted.txt"
		if err := s.DocRepo.UpdateExtraction(ctx, doc.ID, extractedKey, time.Now().UTC()); err != nil {
			s.failAnalysis(ctx, analysisID, analysis.DocumentID, fmt.Errorf("document %s: update extraction: %w", doc.ID, err), &startedAt)
			return
		}
	}

	rawText, err := loadText(ctx, s.Store, extractedKey)
	if err != nil {
		s.failAnalysis(ctx, analysisID, analysis.DocumentID, fmt.Errorf("document %s: load extracted text: %w", doc.ID, err), &startedAt)
		return
	}

	result := buildResult(rawText, analysis)

	completedAt := time.Now().UTC()
	if err := s.Repo.Complete(ctx, analysisID, result, completedAt); err != nil {
		s.failAnalysis(ctx, analysisID, analysis.DocumentID, fmt.Errorf("set analysis result failed: %w", err), &startedAt)
		return
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       analysis.DocumentID,
		"analysis_id":       analysis.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"total_score":       result.Score.TotalScore,
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
}

// Analyze runs the scoring pipeline over raw resume text without touching
// storage or repositories. The CLI uses it directly.
func Analyze(rawText string, mode AnalysisMode, keywordList []string, jobDescription string) Result {
	return buildResult(rawText, Analysis{
		Mode:           mode,
		Keywords:       keywordList,
		JobDescription: jobDescription,
	})
}

// buildResult runs the deterministic pipeline over extracted text: parse,
// resolve keywords, score, derive recommendations.
func buildResult(rawText string, analysis Analysis) Result {
	sections := parse.Parse(rawText)
	keywordList := keywords.ForScoring(analysis.Keywords, analysis.JobDescription)

	input := score.Input{
		Sections:       sections,
		RawText:        rawText,
		Keywords:       keywordList,
		JobDescription: analysis.JobDescription,
	}
	report := score.Basic(input)

	result := Result{
		Sections: sections,
		Keywords: keywordList,
		Score:    report,
	}
	if analysis.Mode == ModeWeighted {
		breakdown := score.Weighted(input)
		result.Breakdown = &breakdown
	}

	result.Recommendations = recommendations.Generate(recommendations.Input{
		Sections:        sections,
		MissingKeywords: missingKeywords(keywordList, report.MatchedKeywords),
		Components:      breakdownComponents(result.Breakdown),
	})
	return result
}

func missingKeywords(configured, matched []string) []string {
	hit := make(map[string]struct{}, len(matched))
	for _, kw := range matched {
		hit[strings.ToLower(kw)] = struct{}{}
	}
	var missing []string
	for _, kw := range configured {
		if _, ok := hit[strings.ToLower(kw)]; !ok {
			missing = append(missing, kw)
		}
	}
	return missing
}

func breakdownComponents(b *score.Breakdown) []score.Component {
	if b == nil {
		return nil
	}
	return b.Components
}

func (s *Service) failAnalysis(ctx context.Context, analysisID, documentID string, err error, startedAt *time.Time) {
	code, retryable := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.Fail(context.Background(), analysisID, code, msg, retryable, completedAt); updateErr != nil {
		telemetry.Error("analysis.fail_update", map[string]any{
			"analysis_id": analysisID,
			"error":       updateErr.Error(),
			"cause":       msg,
		})
	}
	metrics.IncAnalysisFailed()
	if startedAt != nil {
		metrics.ObserveAnalysisDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"analysis_id":       analysisID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) (string, bool) {
	if err == nil {
		return ErrorCodeInternal, false
	}
	if errors.Is(err, extract.ErrUnsupportedFormat) {
		return ErrorCodeUnsupportedFormat, false
	}
	if errors.Is(err, extract.ErrCorruptFile) {
		return ErrorCodeCorruptFile, false
	}
	// The pipeline's blocking calls are all storage or repo I/O, so a
	// deadline here is a storage timeout.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorCodeStorage, true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "validation") {
		return ErrorCodeValidation, false
	}
	if strings.Contains(msg, "document") || strings.Contains(msg, "storage") || strings.Contains(msg, "analysis result") || strings.Contains(msg, "analysis lookup") || strings.Contains(msg, "set processing") {
		return ErrorCodeStorage, true
	}
	return ErrorCodeInternal, false
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

func loadText(ctx context.Context, store object.ObjectStore, key string) (string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
