// Package report formats analysis results for the terminal and writes the
// JSON output file.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"resume-analyzer/internal/parse"
	"resume-analyzer/internal/score"
	"resume-analyzer/internal/score/recommendations"
)

// DefaultFileName is where WriteJSON lands unless the caller overrides it.
const DefaultFileName = "resume_analysis.json"

// ErrWrite wraps failures to persist the JSON output.
var ErrWrite = errors.New("report: write failed")

const rule = "============================================================"

// Result is everything the reporter can format. Breakdown and
// Recommendations are optional and only rendered when present.
type Result struct {
	Source          string
	Format          string
	Sections        parse.Sections
	Score           score.Report
	Breakdown       *score.Breakdown
	Recommendations []recommendations.Recommendation
}

// Render writes the human-readable summary block.
func Render(w io.Writer, r Result) error {
	_, err := io.WriteString(w, renderText(r))
	return err
}

func renderText(r Result) string {
	var b strings.Builder

	b.WriteString(rule + "\n")
	b.WriteString("RESUME ANALYSIS SUMMARY\n")
	b.WriteString(rule + "\n")
	if r.Source != "" {
		fmt.Fprintf(&b, "File: %s", r.Source)
		if r.Format != "" {
			fmt.Fprintf(&b, " (%s)", r.Format)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Name: %s\n", orNotFound(r.Sections.Name))
	fmt.Fprintf(&b, "Email: %s\n", orNotFound(r.Sections.Email))
	fmt.Fprintf(&b, "Phone: %s\n", orNotFound(r.Sections.Phone))
	fmt.Fprintf(&b, "Skills: %s\n", skillsPreview(r.Sections.Skills))
	fmt.Fprintf(&b, "Education: %s\n", entryCount(r.Sections.Education))
	fmt.Fprintf(&b, "Experience: %s\n", entryCount(r.Sections.Experience))

	b.WriteString("\nScores:\n")
	fmt.Fprintf(&b, "  Completeness: %s/50\n", formatScore(r.Score.CompletenessScore))
	keywordLine := fmt.Sprintf("  Keyword Match: %s/50", formatScore(r.Score.KeywordScore))
	if len(r.Score.MatchedKeywords) > 0 {
		keywordLine += " (matched: " + strings.Join(r.Score.MatchedKeywords, ", ") + ")"
	}
	b.WriteString(keywordLine + "\n")
	fmt.Fprintf(&b, "  Total Score: %s/100\n", formatScore(r.Score.TotalScore))

	if r.Breakdown != nil {
		b.WriteString("\nWeighted Breakdown:\n")
		for _, c := range r.Breakdown.Components {
			fmt.Fprintf(&b, "  %s: %s/%s\n", c.Label, formatScore(c.Points), formatScore(c.Weight))
		}
		fmt.Fprintf(&b, "  Weighted Score: %s/100\n", formatScore(r.Breakdown.FinalScore))
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  %d. [%s] %s\n", rec.Order, rec.Severity, rec.Title)
			if rec.Action != "" {
				fmt.Fprintf(&b, "     %s\n", rec.Action)
			}
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}

type jsonOutput struct {
	Name              string                            `json:"name"`
	Email             string                            `json:"email"`
	Phone             string                            `json:"phone"`
	Skills            []string                          `json:"skills"`
	Education         string                            `json:"education"`
	Experience        string                            `json:"experience"`
	CompletenessScore float64                           `json:"completeness_score"`
	KeywordScore      float64                           `json:"keyword_score"`
	TotalScore        float64                           `json:"total_score"`
	MatchedKeywords   []string                          `json:"matched_keywords"`
	Breakdown         *score.Breakdown                 `json:"breakdown,omitempty"`
	Recommendations   []recommendations.Recommendation `json:"recommendations,omitempty"`
}

// WriteJSON persists the result to path. Failures surface as ErrWrite; the
// caller decides whether that is terminal.
func WriteJSON(path string, r Result) error {
	out := jsonOutput{
		Name:              r.Sections.Name,
		Email:             r.Sections.Email,
		Phone:             r.Sections.Phone,
		Skills:            emptyIfNil(r.Sections.Skills),
		Education:         r.Sections.Education,
		Experience:        r.Sections.Experience,
		CompletenessScore: r.Score.CompletenessScore,
		KeywordScore:      r.Score.KeywordScore,
		TotalScore:        r.Score.TotalScore,
		MatchedKeywords:   emptyIfNil(r.Score.MatchedKeywords),
		Breakdown:         r.Breakdown,
		Recommendations:   r.Recommendations,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func orNotFound(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not found"
	}
	return s
}

func skillsPreview(skills []string) string {
	if len(skills) == 0 {
		return "Not found"
	}
	preview := skills
	suffix := ""
	if len(preview) > 8 {
		preview = preview[:8]
		suffix = "..."
	}
	return strings.Join(preview, ", ") + suffix
}

// entryCount reports how many non-empty lines a section block holds.
func entryCount(block string) string {
	n := 0
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	if n == 0 {
		return "Not found"
	}
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
