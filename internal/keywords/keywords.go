// Package keywords derives and normalizes the keyword lists used for scoring.
//
// Keywords come from three places, in priority order: an explicit configured
// list, a job description (mined for technical terms), and a built-in default
// set. All derivation is deterministic for a given input.
package keywords

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// defaultLimit caps candidate extraction from free text.
	defaultLimit = 60
	// scoringLimit caps the keyword list handed to the scorer.
	scoringLimit = 30
)

// techTokens boosts candidate grams that mention a known technology.
var techTokens = []string{
	"python", "java", "javascript", "typescript", "react", "reactjs", "node", "node.js",
	"express", "express.js", "django", "flask", "c++", "c", "c#", "go", "golang",
	"sql", "mysql", "postgres", "mongodb", "redis", "docker", "kubernetes", "aws",
	"gcp", "azure", "git", "ci/cd", "jenkins", "circleci", "heroku",
	"html", "css", "tailwind", "bootstrap", "figma", "postman", "rest", "graphql",
	"tensorflow", "pytorch", "opencv", "socket.io",
}

var (
	cleanRE   = regexp.MustCompile(`[^\w.+\-/]`)
	spacesRE  = regexp.MustCompile(`\s+`)
	numericRE = regexp.MustCompile(`^\d+$`)
)

// Default returns the stock keyword set used when nothing else is configured.
func Default() []string {
	return []string{"python", "java", "sql", "git"}
}

// FromJobDescription mines a job description for keyword candidates:
// 1..3-grams over the cleaned word stream, ranked by frequency with a boost
// for known technical tokens and multi-word phrases, then deduplicated so a
// gram contained in a higher-ranked one is dropped. A limit <= 0 applies the
// default cap.
func FromJobDescription(text string, limit int) []string {
	if limit <= 0 {
		limit = defaultLimit
	}
	words := strings.Fields(cleanText(text))

	counts := make(map[string]int)
	for _, n := range []int{3, 2, 1} {
		for i := 0; i+n <= len(words); i++ {
			gram := strings.Join(words[i:i+n], " ")
			if len(gram) > 1 {
				counts[gram]++
			}
		}
	}

	type candidate struct {
		gram  string
		score int
	}
	scored := make([]candidate, 0, len(counts))
	for gram, freq := range counts {
		score := freq
		cmp := strings.ReplaceAll(strings.ReplaceAll(gram, ".", ""), "-", " ")
		for _, tk := range techTokens {
			if strings.Contains(cmp, tk) {
				score += 5
			}
		}
		if strings.Contains(gram, " ") {
			score++
		}
		scored = append(scored, candidate{gram: gram, score: score})
	}
	// Total order: score, then length so phrases outrank their fragments,
	// then lexical. Output is independent of map iteration order.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if len(scored[i].gram) != len(scored[j].gram) {
			return len(scored[i].gram) > len(scored[j].gram)
		}
		return scored[i].gram < scored[j].gram
	})

	var results []string
	for _, c := range scored {
		tok := strings.TrimSpace(c.gram)
		if len(tok) < 2 || numericRE.MatchString(tok) {
			continue
		}
		if overlapsAny(tok, results) {
			continue
		}
		results = append(results, tok)
		if len(results) >= limit {
			break
		}
	}
	return results
}

// ForScoring resolves the keyword list the scorer should use. An explicit
// configured list always wins. Otherwise keywords mined from the job
// description are merged with the defaults, and with neither input the
// defaults stand alone.
func ForScoring(configured []string, jobDescription string) []string {
	if cleaned := normalize(configured); len(cleaned) > 0 {
		return cleaned
	}
	if strings.TrimSpace(jobDescription) != "" {
		mined := FromJobDescription(jobDescription, scoringLimit)
		return normalize(append(mined, Default()...))
	}
	return Default()
}

// FromFile loads a keyword list from a YAML file of the form:
//
//	keywords:
//	  - go
//	  - postgres
func FromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}
	var doc struct {
		Keywords []string `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse keywords file %s: %w", path, err)
	}
	cleaned := normalize(doc.Keywords)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("keywords file %s has no keywords", path)
	}
	return cleaned, nil
}

// cleanText strips everything but word characters and . + - / (kept for
// version and tool names), collapses whitespace, and lowercases.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = cleanRE.ReplaceAllString(text, " ")
	text = spacesRE.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// normalize trims entries, drops empties, and removes case-insensitive
// duplicates while preserving order.
func normalize(list []string) []string {
	var out []string
	seen := make(map[string]bool, len(list))
	for _, kw := range list {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}
	return out
}

func overlapsAny(tok string, accepted []string) bool {
	for _, s := range accepted {
		if strings.Contains(s, tok) || strings.Contains(tok, s) {
			return true
		}
	}
	return false
}
