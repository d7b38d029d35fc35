package analyses

import (
	"time"

	"resume-analyzer/internal/parse"
	"resume-analyzer/internal/score"
	"resume-analyzer/internal/score/recommendations"
)

// Analysis represents a resume analysis job. Keywords holds the list the
// caller configured at creation time; once the job completes it is replaced
// by the resolved list scoring actually ran against.
type Analysis struct {
	ID              string       `json:"id"`
	DocumentID      string       `json:"documentId"`
	Status          string       `json:"status"`
	Mode            AnalysisMode `json:"mode"`
	AnalysisVersion string       `json:"analysisVersion,omitempty"`
	Keywords        []string     `json:"keywords,omitempty"`
	JobDescription  string       `json:"jobDescription,omitempty"`
	Result          *Result      `json:"result,omitempty"`
	ErrorCode       string       `json:"errorCode,omitempty"`
	ErrorMessage    string       `json:"errorMessage,omitempty"`
	ErrorRetryable  bool         `json:"errorRetryable,omitempty"`
	StartedAt       *time.Time   `json:"startedAt,omitempty"`
	CompletedAt     *time.Time   `json:"completedAt,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// Result is the outcome of a completed analysis.
type Result struct {
	Sections        parse.Sections                   `json:"sections"`
	Keywords        []string                         `json:"keywords"`
	Score           score.Report                     `json:"score"`
	Breakdown       *score.Breakdown                 `json:"breakdown,omitempty"`
	Recommendations []recommendations.Recommendation `json:"recommendations"`
}
