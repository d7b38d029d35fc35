package recommendations

import (
	"fmt"
	"strings"

	"resume-analyzer/internal/parse"
	"resume-analyzer/internal/score"
)

// lowScoreCutoff marks a weighted component as worth flagging.
const lowScoreCutoff = 0.4

func fromMissingContact(s parse.Sections) []Recommendation {
	var out []Recommendation
	if strings.TrimSpace(s.Email) == "" {
		out = append(out, Recommendation{
			ID:       "CONTACT_MISSING_EMAIL",
			Category: "CONTACT",
			Severity: "critical",
			Title:    "Add an email address",
			Why:      "Recruiters cannot reach you without an email address.",
			Action:   "Add a professional email address near the top of the resume.",
			Impact:   "high",
		})
	}
	if strings.TrimSpace(s.Phone) == "" {
		out = append(out, Recommendation{
			ID:       "CONTACT_MISSING_PHONE",
			Category: "CONTACT",
			Severity: "warning",
			Title:    "Add a phone number",
			Why:      "A phone number gives recruiters a second way to reach you.",
			Action:   "Add a phone number alongside your email address.",
			Impact:   "medium",
		})
	}
	if strings.TrimSpace(s.Name) == "" {
		out = append(out, Recommendation{
			ID:       "CONTACT_MISSING_NAME",
			Category: "CONTACT",
			Severity: "warning",
			Title:    "Add your name",
			Why:      "The resume should open with the candidate name.",
			Action:   "Put your full name on the first line of the resume.",
			Impact:   "medium",
		})
	}
	return out
}

func fromMissingSections(s parse.Sections) []Recommendation {
	var out []Recommendation
	if len(s.Skills) == 0 {
		out = append(out, Recommendation{
			ID:       "SECTION_MISSING_SKILLS",
			Category: "SKILLS",
			Severity: "warning",
			Title:    "Add a skills section",
			Why:      "Keyword matching and skill scoring both read from the skills section.",
			Action:   "Add a Skills section listing the technologies you work with.",
			Impact:   "high",
		})
	}
	if strings.TrimSpace(s.Experience) == "" {
		out = append(out, Recommendation{
			ID:       "SECTION_MISSING_EXPERIENCE",
			Category: "EXPERIENCE",
			Severity: "warning",
			Title:    "Add an experience section",
			Why:      "Work history is the first thing most reviewers look for.",
			Action:   "Add an Experience section with roles, dates, and outcomes.",
			Impact:   "high",
		})
	}
	if strings.TrimSpace(s.Education) == "" {
		out = append(out, Recommendation{
			ID:       "SECTION_MISSING_EDUCATION",
			Category: "EDUCATION",
			Severity: "warning",
			Title:    "Add an education section",
			Why:      "Degrees and certifications are often screening criteria.",
			Action:   "Add an Education section with your degree or relevant training.",
			Impact:   "medium",
		})
	}
	return out
}

func fromMissingKeywords(missing []string) []Recommendation {
	keywords := uniqueSortedStrings(missing)
	if len(keywords) == 0 {
		return nil
	}
	return []Recommendation{
		{
			ID:       "KEYWORDS_MISSING",
			Category: "SKILLS",
			Severity: "warning",
			Title:    "Add missing keywords",
			Why:      "Keyword matches drive the score and recruiter searches.",
			Action:   "Work missing keywords naturally into skills and experience bullets. Focus on: " + strings.Join(keywords, ", "),
			Impact:   "high",
		},
	}
}

func fromLowComponents(components []score.Component) []Recommendation {
	var out []Recommendation
	for _, c := range components {
		if c.Score >= lowScoreCutoff {
			continue
		}
		impact := "medium"
		if c.Weight >= 25 {
			impact = "high"
		}
		label := c.Label
		if strings.TrimSpace(label) == "" {
			label = c.Key
		}
		out = append(out, Recommendation{
			ID:       "SCORE_LOW_" + strings.ToUpper(slugify(c.Key)),
			Category: componentCategory(c.Key),
			Severity: "warning",
			Title:    "Lift your " + label + " score",
			Why:      c.Explanation,
			Action:   componentAction(c.Key),
			Impact:   impact,
		})
	}
	return out
}

func componentCategory(key string) string {
	switch key {
	case "skillMatch":
		return "SKILLS"
	case "experienceRelevance", "projectsCerts", "seniority":
		return "EXPERIENCE"
	default:
		return "STRUCTURE"
	}
}

func componentAction(key string) string {
	switch key {
	case "completeness":
		return "Fill in the missing resume sections."
	case "skillMatch":
		return "List more of the technologies the role asks for."
	case "experienceRelevance":
		return "Describe your experience using the language of the target role."
	case "projectsCerts":
		return "Mention notable projects or certifications."
	case "seniority":
		return "State your years of experience explicitly."
	default:
		return "Improve this area of the resume."
	}
}

func fromShortSkills(s parse.Sections) []Recommendation {
	if len(s.Skills) == 0 || len(s.Skills) >= 5 {
		return nil
	}
	return []Recommendation{
		{
			ID:       "SKILLS_SHORT_LIST",
			Category: "SKILLS",
			Severity: "info",
			Title:    "Expand the skills section",
			Why:      "A fuller skills list matches more searches.",
			Action:   fmt.Sprintf("Only %d skills listed. Aim for 8 or more relevant skills.", len(s.Skills)),
			Impact:   "low",
		},
	}
}
