package recommendations

import (
	"resume-analyzer/internal/parse"
	"resume-analyzer/internal/score"
)

// Recommendation is one ranked improvement suggestion derived from analysis
// results.
type Recommendation struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Why      string `json:"why"`
	Action   string `json:"action"`
	Impact   string `json:"impact"`
	Order    int    `json:"order"`
}

// Input is the analysis data the engine derives recommendations from.
// MissingKeywords are configured keywords absent from the resume, and
// Components is the weighted scoring breakdown when one was computed.
type Input struct {
	Sections        parse.Sections
	MissingKeywords []string
	Components      []score.Component
}
