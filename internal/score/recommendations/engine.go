// Package recommendations turns parsed sections and scoring results into a
// deterministic, ranked list of improvement suggestions.
package recommendations

import (
	"sort"
	"strings"
	"unicode"
)

const maxRecommendations = 7

// Generate builds recommendations from the analysis input: each mapper
// contributes candidates, duplicates merge by ID, and the survivors are
// ranked by severity, impact, category, and title before the cap is applied.
// The output depends only on the input.
func Generate(input Input) []Recommendation {
	candidates := make([]Recommendation, 0, 16)
	mappers := []func(Input) []Recommendation{
		func(in Input) []Recommendation { return fromMissingContact(in.Sections) },
		func(in Input) []Recommendation { return fromMissingSections(in.Sections) },
		func(in Input) []Recommendation { return fromMissingKeywords(in.MissingKeywords) },
		func(in Input) []Recommendation { return fromLowComponents(in.Components) },
		func(in Input) []Recommendation { return fromShortSkills(in.Sections) },
	}
	for _, mapper := range mappers {
		candidates = append(candidates, mapper(input)...)
	}

	deduped := dedupe(candidates)
	sortRecommendations(deduped)
	if len(deduped) > maxRecommendations {
		deduped = deduped[:maxRecommendations]
	}
	for i := range deduped {
		deduped[i].Order = i + 1
	}
	return deduped
}

func severityRank(value string) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "critical":
		return 3
	case "warning":
		return 2
	default:
		return 1
	}
}

func impactRank(value string) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

var categoryRanks = map[string]int{
	"CONTACT":    5,
	"SKILLS":     4,
	"EXPERIENCE": 3,
	"EDUCATION":  2,
	"STRUCTURE":  1,
}

func categoryRank(value string) int {
	return categoryRanks[strings.ToUpper(strings.TrimSpace(value))]
}

func slugify(input string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "item"
	}
	return out
}

func dedupe(items []Recommendation) []Recommendation {
	seen := make(map[string]Recommendation, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		if existing, ok := seen[id]; ok {
			seen[id] = mergeRecommendation(existing, item)
			continue
		}
		seen[id] = item
		order = append(order, id)
	}
	out := make([]Recommendation, 0, len(order))
	for _, id := range order {
		out = append(out, seen[id])
	}
	return out
}

// mergeRecommendation keeps the first candidate and fills any blank fields
// from the later duplicate.
func mergeRecommendation(a, b Recommendation) Recommendation {
	if strings.TrimSpace(a.Title) == "" {
		a.Title = b.Title
	}
	if strings.TrimSpace(a.Why) == "" {
		a.Why = b.Why
	}
	if strings.TrimSpace(a.Action) == "" {
		a.Action = b.Action
	}
	if strings.TrimSpace(a.Category) == "" {
		a.Category = b.Category
	}
	if strings.TrimSpace(a.Severity) == "" {
		a.Severity = b.Severity
	}
	if strings.TrimSpace(a.Impact) == "" {
		a.Impact = b.Impact
	}
	return a
}

func sortRecommendations(items []Recommendation) {
	sort.Slice(items, func(i, j int) bool {
		a := items[i]
		b := items[j]
		if severityRank(a.Severity) != severityRank(b.Severity) {
			return severityRank(a.Severity) > severityRank(b.Severity)
		}
		if impactRank(a.Impact) != impactRank(b.Impact) {
			return impactRank(a.Impact) > impactRank(b.Impact)
		}
		if categoryRank(a.Category) != categoryRank(b.Category) {
			return categoryRank(a.Category) > categoryRank(b.Category)
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}

func uniqueSortedStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
