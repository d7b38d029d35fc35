package stats

import (
	"math"

	"resume-analyzer/internal/extract"
)

// Snapshot is a point-in-time aggregate over stored documents and analyses.
type Snapshot struct {
	Documents DocumentStats `json:"documents"`
	Analyses  AnalysisStats `json:"analyses"`
}

// DocumentStats counts stored documents by lifecycle status and detected format.
type DocumentStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	ByFormat map[string]int `json:"byFormat"`
}

// AnalysisStats counts analysis jobs. AverageScore is the mean total score
// across completed analyses and is absent until one completes.
type AnalysisStats struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"byStatus"`
	ByMode         map[string]int `json:"byMode"`
	AverageScore   *float64       `json:"averageScore,omitempty"`
	FailuresByCode map[string]int `json:"failuresByCode,omitempty"`
}

// formatOther buckets documents whose mime type the extractor does not handle.
const formatOther = "other"

func formatForMime(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return string(extract.FormatPDF)
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return string(extract.FormatDOCX)
	case "text/plain":
		return string(extract.FormatTXT)
	default:
		return formatOther
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
