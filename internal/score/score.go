// Package score turns parsed resume sections into numeric scores.
//
// Two modes are supported. Basic is the classic completeness plus keyword
// match split, each worth up to 50 points. Weighted runs five components
// under fixed weights and reports a per-component breakdown. Both modes are
// pure functions of their input and always succeed, including on all-empty
// sections.
package score

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"resume-analyzer/internal/parse"
)

// Input bundles everything scoring looks at.
type Input struct {
	Sections       parse.Sections
	RawText        string
	Keywords       []string
	JobDescription string
}

// Report is the basic-mode result.
type Report struct {
	CompletenessScore float64  `json:"completenessScore"`
	KeywordScore      float64  `json:"keywordScore"`
	TotalScore        float64  `json:"totalScore"`
	MatchedKeywords   []string `json:"matchedKeywords"`
	KeywordsTotal     int      `json:"keywordsTotal"`
}

// Component is one weighted-mode scoring dimension. Score is the raw
// sub-score in [0,1]; Points is its contribution (Score * Weight).
type Component struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Score       float64  `json:"score"`
	Weight      float64  `json:"weight"`
	Points      float64  `json:"points"`
	Explanation string   `json:"explanation"`
	Helped      []string `json:"helped,omitempty"`
	Dragged     []string `json:"dragged,omitempty"`
}

// Breakdown is the weighted-mode result.
type Breakdown struct {
	Components []Component `json:"components"`
	FinalScore float64     `json:"finalScore"`
}

// Basic-mode maxima. Completeness and keyword match each contribute up to
// half of the 100-point total.
const (
	completenessMax = 50.0
	keywordMax      = 50.0
)

// Weighted-mode component weights. They total 100.
const (
	weightCompleteness = 15.0
	weightSkillMatch   = 35.0
	weightExperience   = 25.0
	weightProjects     = 10.0
	weightSeniority    = 15.0
)

var (
	wordRE  = regexp.MustCompile(`\w+`)
	yearsRE = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*years?\b`)

	projectMarkers = []string{"project", "portfolio"}
	certMarkers    = []string{"certificate", "certification", "certified"}
)

// Basic computes the completeness/keyword split. Keywords are matched
// case-insensitively as substrings of the parsed sections, and
// MatchedKeywords preserves the configured keyword order.
func Basic(in Input) Report {
	nonEmpty := in.Sections.NonEmptyFields()
	completeness := float64(nonEmpty) / float64(parse.TotalFields) * completenessMax

	haystack := strings.ToLower(sectionsText(in.Sections))
	var matched []string
	for _, kw := range in.Keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	keyword := 0.0
	if len(in.Keywords) > 0 {
		keyword = float64(len(matched)) / float64(len(in.Keywords)) * keywordMax
	}

	return Report{
		CompletenessScore: round2(completeness),
		KeywordScore:      round2(keyword),
		TotalScore:        round2(clamp(completeness+keyword, 0, 100)),
		MatchedKeywords:   matched,
		KeywordsTotal:     len(in.Keywords),
	}
}

// Weighted runs the five-component breakdown. FinalScore is the clamped sum
// of the component contributions.
func Weighted(in Input) Breakdown {
	components := []Component{
		scoreCompleteness(in),
		scoreSkillMatch(in),
		scoreExperienceRelevance(in),
		scoreProjectsAndCerts(in),
		scoreSeniority(in),
	}
	total := 0.0
	for _, c := range components {
		total += c.Points
	}
	return Breakdown{
		Components: components,
		FinalScore: round2(clamp(total, 0, 100)),
	}
}

func scoreCompleteness(in Input) Component {
	fields := []struct {
		name  string
		empty bool
	}{
		{"name", strings.TrimSpace(in.Sections.Name) == ""},
		{"email", strings.TrimSpace(in.Sections.Email) == ""},
		{"phone", strings.TrimSpace(in.Sections.Phone) == ""},
		{"skills", len(in.Sections.Skills) == 0},
		{"education", strings.TrimSpace(in.Sections.Education) == ""},
		{"experience", strings.TrimSpace(in.Sections.Experience) == ""},
	}
	var helped, dragged []string
	for _, f := range fields {
		if f.empty {
			dragged = append(dragged, "missing "+f.name)
		} else {
			helped = append(helped, f.name)
		}
	}
	sub := float64(len(helped)) / float64(len(fields))
	return component("completeness", "Completeness", sub, weightCompleteness,
		fmt.Sprintf("%d of %d sections present", len(helped), len(fields)),
		helped, dragged)
}

func scoreSkillMatch(in Input) Component {
	skillsBlob := strings.Join(in.Sections.Skills, " ")
	skillsLower := strings.ToLower(skillsBlob)

	var matched, missed []string
	for _, kw := range in.Keywords {
		if strings.Contains(skillsLower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		} else {
			missed = append(missed, "missing "+kw)
		}
	}
	exact := 0.0
	if len(in.Keywords) > 0 {
		exact = float64(len(matched)) / float64(len(in.Keywords))
	}

	// With no job description the similarity terms have nothing to compare
	// against, so the exact ratio carries the whole component.
	sub := exact
	if strings.TrimSpace(in.JobDescription) != "" {
		similarity := jaccard(skillsBlob, in.JobDescription)
		perSkill := 0.0
		for _, s := range in.Sections.Skills {
			perSkill += jaccard(s, in.JobDescription)
		}
		if len(in.Sections.Skills) > 0 {
			perSkill /= float64(len(in.Sections.Skills))
		}
		sub = 0.5*exact + 0.35*similarity + 0.15*perSkill
	}

	return component("skillMatch", "Skill Match", sub, weightSkillMatch,
		fmt.Sprintf("matched %d of %d keywords", len(matched), len(in.Keywords)),
		takeN(matched, 5), takeN(missed, 5))
}

func scoreExperienceRelevance(in Input) Component {
	exp := strings.TrimSpace(in.Sections.Experience)
	if exp == "" {
		return component("experienceRelevance", "Experience Relevance", 0, weightExperience,
			"no experience section found", nil, []string{"no experience section"})
	}

	if strings.TrimSpace(in.JobDescription) != "" {
		sub := jaccard(exp, in.JobDescription)
		return component("experienceRelevance", "Experience Relevance", sub, weightExperience,
			fmt.Sprintf("%.0f%% term overlap with the job description", sub*100),
			nil, nil)
	}

	// Without a job description, fall back to the keyword hit rate inside
	// the experience section.
	expLower := strings.ToLower(exp)
	hits := 0
	for _, kw := range in.Keywords {
		if strings.Contains(expLower, strings.ToLower(kw)) {
			hits++
		}
	}
	sub := 0.0
	if len(in.Keywords) > 0 {
		sub = float64(hits) / float64(len(in.Keywords))
	}
	return component("experienceRelevance", "Experience Relevance", sub, weightExperience,
		fmt.Sprintf("%d of %d keywords appear in experience", hits, len(in.Keywords)),
		nil, nil)
}

func scoreProjectsAndCerts(in Input) Component {
	blob := strings.ToLower(in.Sections.Experience + " " + in.Sections.Education)

	var found []string
	hasProject := false
	for _, m := range projectMarkers {
		if strings.Contains(blob, m) {
			found = append(found, m)
			hasProject = true
		}
	}
	hasCert := false
	for _, m := range certMarkers {
		if strings.Contains(blob, m) {
			found = append(found, m)
			hasCert = true
		}
	}

	sub := 0.0
	explanation := "no projects or certifications mentioned"
	switch {
	case hasProject && hasCert:
		sub = 1.0
		explanation = "projects and certifications both mentioned"
	case hasProject || hasCert:
		sub = 0.5
		explanation = "only one of projects or certifications mentioned"
	}

	var dragged []string
	if len(found) == 0 {
		dragged = []string{"no project or certification mentions"}
	}
	return component("projectsCerts", "Projects & Certifications", sub, weightProjects,
		explanation, found, dragged)
}

func scoreSeniority(in Input) Component {
	text := in.RawText
	if strings.TrimSpace(text) == "" {
		text = sectionsText(in.Sections)
	}
	years := estimateYears(text)
	skillCount := len(in.Sections.Skills)

	sub := 0.6*math.Min(1, float64(years)/4.0) + 0.4*math.Min(1, float64(skillCount)/15.0)

	explanation := fmt.Sprintf("~%d years of experience, %d skills listed", years, skillCount)
	if years == 0 {
		explanation = fmt.Sprintf("no explicit years of experience, %d skills listed", skillCount)
	}
	var helped, dragged []string
	if years >= 4 {
		helped = append(helped, fmt.Sprintf("%d+ years of experience", years))
	}
	if skillCount < 5 {
		dragged = append(dragged, "short skills list")
	}
	return component("seniority", "Seniority", sub, weightSeniority, explanation, helped, dragged)
}

func component(key, label string, sub, weight float64, explanation string, helped, dragged []string) Component {
	sub = clamp(sub, 0, 1)
	return Component{
		Key:         key,
		Label:       label,
		Score:       round4(sub),
		Weight:      weight,
		Points:      round2(sub * weight),
		Explanation: explanation,
		Helped:      helped,
		Dragged:     dragged,
	}
}

// sectionsText joins the text-bearing sections for keyword matching. Email
// and phone stay out of the haystack.
func sectionsText(s parse.Sections) string {
	parts := []string{s.Name, strings.Join(s.Skills, " "), s.Education, s.Experience}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordRE.FindAllString(strings.ToLower(s), -1) {
		set[w] = struct{}{}
	}
	return set
}

// jaccard is the token-set overlap of two strings, 0 when either is empty.
func jaccard(a, b string) float64 {
	as, bs := tokenSet(a), tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for w := range as {
		if _, ok := bs[w]; ok {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return float64(inter) / float64(union)
}

// estimateYears returns the largest "N years" / "N+ years" figure in the
// text, 0 when none is present.
func estimateYears(text string) int {
	best := 0
	for _, m := range yearsRE.FindAllStringSubmatch(text, -1) {
		n := 0
		fmt.Sscanf(m[1], "%d", &n)
		if n > best {
			best = n
		}
	}
	return best
}

func takeN(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
