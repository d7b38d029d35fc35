package analyses

import (
	"errors"
	"strings"
)

// AnalysisMode defines the supported analysis modes.
type AnalysisMode string

const (
	ModeBasic    AnalysisMode = "basic"
	ModeWeighted AnalysisMode = "weighted"
)

// ParseMode normalizes and validates a mode string.
func ParseMode(raw string) (AnalysisMode, error) {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return "", errors.New("analysis mode is required")
	}
	switch strings.ToLower(normalized) {
	case string(ModeBasic):
		return ModeBasic, nil
	case string(ModeWeighted):
		return ModeWeighted, nil
	default:
		return "", errors.New("analysis mode is invalid")
	}
}

// ModeFor resolves the mode for a request. An empty mode defaults to basic,
// or weighted when a job description is present.
func ModeFor(raw, jobDescription string) (AnalysisMode, error) {
	if strings.TrimSpace(raw) == "" {
		if strings.TrimSpace(jobDescription) != "" {
			return ModeWeighted, nil
		}
		return ModeBasic, nil
	}
	return ParseMode(raw)
}
