package recommendations

import (
	"reflect"
	"testing"

	"resume-analyzer/internal/parse"
	"resume-analyzer/internal/score"
)

func TestGenerateRanking(t *testing.T) {
	input := Input{
		Sections: parse.Sections{
			Name:       "Jane",
			Skills:     []string{"go", "sql"},
			Education:  "BSc",
			Experience: "x",
		},
		MissingKeywords: []string{"java", "git"},
		Components: []score.Component{
			{Key: "skillMatch", Label: "Skill Match", Score: 0.3, Weight: 35, Explanation: "matched 2 of 4 keywords"},
		},
	}

	recs := Generate(input)

	wantIDs := []string{
		"CONTACT_MISSING_EMAIL",
		"KEYWORDS_MISSING",
		"SCORE_LOW_SKILLMATCH",
		"CONTACT_MISSING_PHONE",
		"SKILLS_SHORT_LIST",
	}
	if len(recs) != len(wantIDs) {
		t.Fatalf("got %d recommendations, want %d: %+v", len(recs), len(wantIDs), recs)
	}
	for i, want := range wantIDs {
		if recs[i].ID != want {
			t.Errorf("recs[%d].ID = %q, want %q", i, recs[i].ID, want)
		}
		if recs[i].Order != i+1 {
			t.Errorf("recs[%d].Order = %d, want %d", i, recs[i].Order, i+1)
		}
	}
}

func TestGenerateDeterminism(t *testing.T) {
	input := Input{
		MissingKeywords: []string{"Kafka", "golang"},
		Components: []score.Component{
			{Key: "completeness", Label: "Completeness", Score: 0.2, Weight: 15, Explanation: "1 of 6 sections present"},
		},
	}

	first := Generate(input)
	second := Generate(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected deterministic recommendation ordering")
	}
}

func TestGenerateMaxSeven(t *testing.T) {
	input := Input{
		MissingKeywords: []string{"go"},
		Components: []score.Component{
			{Key: "completeness", Label: "Completeness", Score: 0.1, Weight: 15, Explanation: "0 of 6 sections present"},
			{Key: "skillMatch", Label: "Skill Match", Score: 0, Weight: 35, Explanation: "matched 0 of 1 keywords"},
		},
	}

	recs := Generate(input)
	if len(recs) != 7 {
		t.Fatalf("got %d recommendations, want 7", len(recs))
	}
	if recs[0].ID != "CONTACT_MISSING_EMAIL" {
		t.Fatalf("recs[0].ID = %q, want missing email first", recs[0].ID)
	}
	for i, rec := range recs {
		if rec.Order != i+1 {
			t.Fatalf("recs[%d].Order = %d, want %d", i, rec.Order, i+1)
		}
	}
}

func TestGenerateStrongResumeYieldsNothing(t *testing.T) {
	input := Input{
		Sections: parse.Sections{
			Name:       "Jane Doe",
			Email:      "jane@x.com",
			Phone:      "555-123-4567",
			Skills:     []string{"go", "sql", "docker", "kubernetes", "python"},
			Education:  "BSc",
			Experience: "7 years",
		},
		Components: []score.Component{
			{Key: "skillMatch", Label: "Skill Match", Score: 0.9, Weight: 35},
		},
	}

	if recs := Generate(input); len(recs) != 0 {
		t.Fatalf("expected no recommendations for a strong resume, got %+v", recs)
	}
}

func TestSortRecommendations(t *testing.T) {
	cases := []struct {
		name     string
		items    []Recommendation
		expected string
	}{
		{
			name: "critical above warning",
			items: []Recommendation{
				{ID: "a", Severity: "warning", Impact: "high", Title: "B"},
				{ID: "b", Severity: "critical", Impact: "high", Title: "A"},
			},
			expected: "b",
		},
		{
			name: "high impact above low",
			items: []Recommendation{
				{ID: "a", Severity: "warning", Impact: "low", Title: "B"},
				{ID: "b", Severity: "warning", Impact: "high", Title: "A"},
			},
			expected: "b",
		},
		{
			name: "contact category above skills",
			items: []Recommendation{
				{ID: "a", Severity: "warning", Impact: "high", Category: "SKILLS", Title: "A"},
				{ID: "b", Severity: "warning", Impact: "high", Category: "CONTACT", Title: "B"},
			},
			expected: "b",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := append([]Recommendation{}, tc.items...)
			sortRecommendations(items)
			if len(items) == 0 || items[0].ID != tc.expected {
				t.Fatalf("expected first id %q, got %q", tc.expected, items[0].ID)
			}
		})
	}
}

func TestDedupeMergesBlankFields(t *testing.T) {
	items := []Recommendation{
		{ID: "X", Title: "Keep me", Severity: "warning"},
		{ID: "X", Title: "Ignored", Action: "Filled in", Impact: "high"},
	}
	out := dedupe(items)
	if len(out) != 1 {
		t.Fatalf("got %d items after dedupe, want 1", len(out))
	}
	if out[0].Title != "Keep me" || out[0].Action != "Filled in" || out[0].Impact != "high" {
		t.Fatalf("merge result = %+v", out[0])
	}
}
