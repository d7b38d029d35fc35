package parse

import (
	"reflect"
	"testing"
)

func TestParseLabeledFields(t *testing.T) {
	raw := "Name: Jane Doe\nEmail: jane@x.com\nSkills: python, sql"
	got := Parse(raw)

	if got.Name != "Jane Doe" {
		t.Fatalf("expected name Jane Doe, got %q", got.Name)
	}
	if got.Email != "jane@x.com" {
		t.Fatalf("expected email jane@x.com, got %q", got.Email)
	}
	want := []string{"python", "sql"}
	if !reflect.DeepEqual(got.Skills, want) {
		t.Fatalf("expected skills %v, got %v", want, got.Skills)
	}
}

func TestParseEmptyText(t *testing.T) {
	got := Parse("")
	if got.Name != "" || got.Email != "" || got.Phone != "" {
		t.Fatalf("expected empty contact fields, got %+v", got)
	}
	if len(got.Skills) != 0 {
		t.Fatalf("expected no skills, got %v", got.Skills)
	}
	if got.Education != "" || got.Experience != "" {
		t.Fatalf("expected empty sections, got %+v", got)
	}
	if got.NonEmptyFields() != 0 {
		t.Fatalf("expected zero non-empty fields, got %d", got.NonEmptyFields())
	}
}

func TestParseIsIdempotent(t *testing.T) {
	raw := "Jane Doe\njane@x.com\n(555) 123-4567\nSkills: go, terraform\nExperience\nBuilt services"
	first := Parse(raw)
	second := Parse(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestParseNameFromFirstPlainLine(t *testing.T) {
	raw := "jane@x.com\n(555) 123-4567\nJane Doe\nSkills: go"
	got := Parse(raw)
	if got.Name != "Jane Doe" {
		t.Fatalf("expected name from first plain line, got %q", got.Name)
	}
}

func TestParseNameSkipsLongLines(t *testing.T) {
	raw := "An aspiring engineer with a passion for distributed systems\nJane Doe"
	got := Parse(raw)
	if got.Name != "Jane Doe" {
		t.Fatalf("expected long intro line skipped, got %q", got.Name)
	}
}

func TestParseFirstContactMatchWins(t *testing.T) {
	raw := "jane@x.com later bob@y.org\n555-111-2222 then 555-333-4444"
	got := Parse(raw)
	if got.Email != "jane@x.com" {
		t.Fatalf("expected first email, got %q", got.Email)
	}
	if got.Phone != "555-111-2222" {
		t.Fatalf("expected first phone, got %q", got.Phone)
	}
}

func TestParsePhoneFormats(t *testing.T) {
	for _, raw := range []string{"(555) 123-4567", "555.123.4567", "555 123 4567", "5551234567"} {
		got := Parse("Jane Doe\n" + raw)
		if got.Phone == "" {
			t.Fatalf("expected phone match for %q", raw)
		}
	}
}

func TestParseSectionBoundaries(t *testing.T) {
	raw := "Jane Doe\n" +
		"EDUCATION\n" +
		"BS Computer Science, State University\n" +
		"EXPERIENCE\n" +
		"Software Engineer at Initech\n" +
		"Shipped billing pipeline\n" +
		"SKILLS\n" +
		"go, sql\n" +
		"docker"
	got := Parse(raw)

	if got.Education != "BS Computer Science, State University" {
		t.Fatalf("unexpected education: %q", got.Education)
	}
	wantExp := "Software Engineer at Initech\nShipped billing pipeline"
	if got.Experience != wantExp {
		t.Fatalf("unexpected experience: %q", got.Experience)
	}
	wantSkills := []string{"go", "sql", "docker"}
	if !reflect.DeepEqual(got.Skills, wantSkills) {
		t.Fatalf("expected skills %v, got %v", wantSkills, got.Skills)
	}
}

func TestParseHeaderVariants(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		assert func(t *testing.T, s Sections)
	}{
		{
			"technical skills",
			"TECHNICAL SKILLS\npython; rust",
			func(t *testing.T, s Sections) {
				want := []string{"python", "rust"}
				if !reflect.DeepEqual(s.Skills, want) {
					t.Fatalf("expected %v, got %v", want, s.Skills)
				}
			},
		},
		{
			"work history",
			"Work History\nBackend engineer",
			func(t *testing.T, s Sections) {
				if s.Experience != "Backend engineer" {
					t.Fatalf("unexpected experience: %q", s.Experience)
				}
			},
		},
		{
			"employment",
			"EMPLOYMENT\nData analyst",
			func(t *testing.T, s Sections) {
				if s.Experience != "Data analyst" {
					t.Fatalf("unexpected experience: %q", s.Experience)
				}
			},
		},
		{
			"academic",
			"Academic Background\nPhD Physics",
			func(t *testing.T, s Sections) {
				if s.Education != "PhD Physics" {
					t.Fatalf("unexpected education: %q", s.Education)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.assert(t, Parse(tc.raw))
		})
	}
}

func TestParseSkillsSplittingAndDedupe(t *testing.T) {
	raw := "SKILLS\nLanguages: Go, Python; SQL\n• Docker • go"
	got := Parse(raw)
	want := []string{"Go", "Python", "SQL", "Docker"}
	if !reflect.DeepEqual(got.Skills, want) {
		t.Fatalf("expected %v, got %v", want, got.Skills)
	}
}

func TestParseMissingHeadersYieldEmptySections(t *testing.T) {
	raw := "Jane Doe\njane@x.com\nJust a paragraph about nothing in particular."
	got := Parse(raw)
	if got.Education != "" || got.Experience != "" || len(got.Skills) != 0 {
		t.Fatalf("expected empty sections, got %+v", got)
	}
}

func TestHeaderForLongLineIsContent(t *testing.T) {
	if _, _, ok := headerFor("Gained broad experience working across five product teams"); ok {
		t.Fatal("expected prose line not to register as header")
	}
	if section, rest, ok := headerFor("Skills: go, sql"); !ok || section != "skills" || rest != "go, sql" {
		t.Fatalf("expected inline skills header, got %q %q %v", section, rest, ok)
	}
}

func TestNonEmptyFields(t *testing.T) {
	s := Sections{Name: "Jane", Email: "j@x.com", Skills: []string{"go"}}
	if got := s.NonEmptyFields(); got != 3 {
		t.Fatalf("expected 3 non-empty fields, got %d", got)
	}
}
