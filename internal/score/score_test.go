package score

import (
	"math"
	"reflect"
	"testing"

	"resume-analyzer/internal/parse"
)

func approx(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 0.001 {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
}

func findComponent(t *testing.T, b Breakdown, key string) Component {
	t.Helper()
	for _, c := range b.Components {
		if c.Key == key {
			return c
		}
	}
	t.Fatalf("component %q not found", key)
	return Component{}
}

func TestBasicPartialSections(t *testing.T) {
	in := Input{
		Sections: parse.Sections{
			Name:   "Jane Doe",
			Email:  "jane@x.com",
			Skills: []string{"python", "sql"},
		},
		Keywords: []string{"python", "java", "sql", "git"},
	}
	got := Basic(in)

	approx(t, got.CompletenessScore, 25, "CompletenessScore")
	approx(t, got.KeywordScore, 25, "KeywordScore")
	approx(t, got.TotalScore, 50, "TotalScore")
	if want := []string{"python", "sql"}; !reflect.DeepEqual(got.MatchedKeywords, want) {
		t.Fatalf("MatchedKeywords = %v, want %v", got.MatchedKeywords, want)
	}
	if got.KeywordsTotal != 4 {
		t.Fatalf("KeywordsTotal = %d, want 4", got.KeywordsTotal)
	}
}

func TestBasicAllEmpty(t *testing.T) {
	got := Basic(Input{Keywords: []string{"python", "java", "sql", "git"}})

	approx(t, got.CompletenessScore, 0, "CompletenessScore")
	approx(t, got.KeywordScore, 0, "KeywordScore")
	approx(t, got.TotalScore, 0, "TotalScore")
	if len(got.MatchedKeywords) != 0 {
		t.Fatalf("MatchedKeywords = %v, want none", got.MatchedKeywords)
	}
}

func TestBasicFullHouse(t *testing.T) {
	in := Input{
		Sections: parse.Sections{
			Name:       "Jane Doe",
			Email:      "j@x.co",
			Phone:      "555-123-4567",
			Skills:     []string{"go"},
			Education:  "BSc CS",
			Experience: "built services with go",
		},
		Keywords: []string{"go"},
	}
	got := Basic(in)

	approx(t, got.CompletenessScore, 50, "CompletenessScore")
	approx(t, got.KeywordScore, 50, "KeywordScore")
	approx(t, got.TotalScore, 100, "TotalScore")
}

func TestBasicNoKeywords(t *testing.T) {
	in := Input{
		Sections: parse.Sections{Name: "Jane Doe"},
	}
	got := Basic(in)

	approx(t, got.KeywordScore, 0, "KeywordScore")
	if got.KeywordsTotal != 0 {
		t.Fatalf("KeywordsTotal = %d, want 0", got.KeywordsTotal)
	}
	approx(t, got.TotalScore, got.CompletenessScore, "TotalScore")
}

func TestBasicMatchedKeywordOrder(t *testing.T) {
	in := Input{
		Sections: parse.Sections{Skills: []string{"python", "sql"}},
		Keywords: []string{"sql", "python"},
	}
	got := Basic(in)
	if want := []string{"sql", "python"}; !reflect.DeepEqual(got.MatchedKeywords, want) {
		t.Fatalf("MatchedKeywords = %v, want %v (configured order)", got.MatchedKeywords, want)
	}
}

func TestBasicCaseInsensitiveSubstring(t *testing.T) {
	in := Input{
		Sections: parse.Sections{Skills: []string{"PostgreSQL"}},
		Keywords: []string{"sql"},
	}
	got := Basic(in)
	approx(t, got.KeywordScore, 50, "KeywordScore")
}

func TestWeightedWeightsTotalHundred(t *testing.T) {
	b := Weighted(Input{})
	total := 0.0
	for _, c := range b.Components {
		total += c.Weight
	}
	approx(t, total, 100, "sum of weights")
}

func TestWeightedAllEmpty(t *testing.T) {
	b := Weighted(Input{Keywords: []string{"python"}})
	approx(t, b.FinalScore, 0, "FinalScore")
	for _, c := range b.Components {
		approx(t, c.Points, 0, c.Key+" points")
	}
}

func TestWeightedNoJobDescription(t *testing.T) {
	in := Input{
		Sections: parse.Sections{
			Name:       "A B",
			Email:      "a@b.co",
			Phone:      "555-123-4567",
			Skills:     []string{"python", "java", "sql", "git"},
			Education:  "BSc",
			Experience: "built python services for 5+ years",
		},
		Keywords: []string{"python", "java", "sql", "git"},
	}
	b := Weighted(in)

	approx(t, findComponent(t, b, "completeness").Points, 15, "completeness points")
	approx(t, findComponent(t, b, "skillMatch").Points, 35, "skillMatch points")
	approx(t, findComponent(t, b, "experienceRelevance").Points, 6.25, "experience points")
	approx(t, findComponent(t, b, "projectsCerts").Points, 0, "projects points")
	approx(t, findComponent(t, b, "seniority").Points, 10.6, "seniority points")
	approx(t, b.FinalScore, 66.85, "FinalScore")
}

func TestWeightedWithJobDescription(t *testing.T) {
	in := Input{
		Sections: parse.Sections{
			Skills:     []string{"python", "sql"},
			Experience: "python sql developer",
		},
		Keywords:       []string{"python", "sql"},
		JobDescription: "python sql developer",
	}
	b := Weighted(in)

	approx(t, findComponent(t, b, "completeness").Points, 5, "completeness points")
	approx(t, findComponent(t, b, "skillMatch").Points, 27.42, "skillMatch points")
	approx(t, findComponent(t, b, "experienceRelevance").Points, 25, "experience points")
	approx(t, findComponent(t, b, "seniority").Points, 0.8, "seniority points")
	approx(t, b.FinalScore, 58.22, "FinalScore")
}

func TestWeightedProjectAndCertMarkers(t *testing.T) {
	tests := []struct {
		name       string
		experience string
		education  string
		want       float64
	}{
		{"both", "led a project migrating billing", "AWS Certified Solutions Architect", 10},
		{"project only", "side project in go", "BSc", 5},
		{"cert only", "built services", "Certification in data engineering", 5},
		{"none", "built services", "BSc", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := Weighted(Input{Sections: parse.Sections{
				Experience: tc.experience,
				Education:  tc.education,
			}})
			approx(t, findComponent(t, b, "projectsCerts").Points, tc.want, "points")
		})
	}
}

func TestWeightedDeterministic(t *testing.T) {
	in := Input{
		Sections: parse.Sections{
			Name:       "Jane Doe",
			Email:      "jane@x.com",
			Phone:      "555-123-4567",
			Skills:     []string{"go", "postgres", "docker"},
			Education:  "MSc Computer Science, AWS Certified",
			Experience: "7+ years building project infrastructure",
		},
		RawText:        "Jane Doe 7+ years building project infrastructure",
		Keywords:       []string{"go", "docker", "kubernetes"},
		JobDescription: "senior go engineer with docker and kubernetes experience",
	}
	first := Weighted(in)
	for i := 0; i < 3; i++ {
		if got := Weighted(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
	if first.FinalScore < 0 || first.FinalScore > 100 {
		t.Fatalf("FinalScore = %v, want within [0,100]", first.FinalScore)
	}
}

func TestEstimateYears(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"5+ years of experience", 5},
		{"3 years here and 7+ years there", 7},
		{"worked for years", 0},
		{"12 Years in industry", 12},
	}
	for _, tc := range tests {
		if got := estimateYears(tc.text); got != tc.want {
			t.Errorf("estimateYears(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "x", 0},
		{"a b", "b a", 1},
		{"python sql", "python go", 1.0 / 3.0},
	}
	for _, tc := range tests {
		got := jaccard(tc.a, tc.b)
		if math.Abs(got-tc.want) > 0.0001 {
			t.Errorf("jaccard(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
