package parse

import (
	"regexp"
	"strings"
)

// TotalFields is the number of structured sections a parse produces.
const TotalFields = 6

// Sections holds the structured fields parsed from resume text. Absent
// sections stay empty; parsing never fails.
type Sections struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Education  string   `json:"education"`
	Experience string   `json:"experience"`
}

var (
	emailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\(?\b\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)

	nameLabelRE = regexp.MustCompile(`(?i)^name\s*[:\-]\s*(.+)$`)

	educationHeaderRE  = regexp.MustCompile(`(?i)\b(education|academic)\b`)
	experienceHeaderRE = regexp.MustCompile(`(?i)\b(experience|work history|employment)\b`)
	skillsHeaderRE     = regexp.MustCompile(`(?i)\bskills\b`)

	skillLabelRE = regexp.MustCompile(`^[A-Za-z ]+:\s*`)
	skillSplitRE = regexp.MustCompile(`[,\n\x{2022};]`)
)

// Parse extracts structured sections from raw resume text. Email and phone
// take the first match in the text; name prefers a labeled "Name:" field.
// Section content runs from a recognized header to the next header or end of
// text.
func Parse(raw string) Sections {
	sections := Sections{Skills: []string{}}
	lines := nonEmptyLines(raw)
	if len(lines) == 0 {
		return sections
	}

	sections.Email = firstMatch(emailRE, raw)
	sections.Phone = firstMatch(phoneRE, raw)
	sections.Name = extractName(lines)

	var education, experience []string
	current := ""
	for _, line := range lines {
		if section, rest, ok := headerFor(line); ok {
			current = section
			if rest == "" {
				continue
			}
			line = rest
		}
		switch current {
		case "skills":
			sections.Skills = append(sections.Skills, splitSkills(line)...)
		case "education":
			education = append(education, line)
		case "experience":
			experience = append(experience, line)
		}
	}
	sections.Skills = dedupeSkills(sections.Skills)
	sections.Education = strings.Join(education, "\n")
	sections.Experience = strings.Join(experience, "\n")
	return sections
}

// NonEmptyFields counts how many of the six sections carry content.
func (s Sections) NonEmptyFields() int {
	count := 0
	for _, field := range []string{s.Name, s.Email, s.Phone, s.Education, s.Experience} {
		if strings.TrimSpace(field) != "" {
			count++
		}
	}
	if len(s.Skills) > 0 {
		count++
	}
	return count
}

func nonEmptyLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func firstMatch(re *regexp.Regexp, text string) string {
	return re.FindString(text)
}

func extractName(lines []string) string {
	for _, line := range lines {
		if m := nameLabelRE.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	for _, line := range lines {
		if emailRE.MatchString(line) || phoneRE.MatchString(line) {
			continue
		}
		if _, _, ok := headerFor(line); ok {
			continue
		}
		if words := len(strings.Fields(line)); words >= 2 && words <= 5 {
			return line
		}
	}
	return ""
}

// headerFor classifies a line as a section header. Content after a colon on
// the header line is returned so inline values ("Skills: go, sql") survive.
// Long lines never count as headers, which keeps prose mentioning the
// keywords from swallowing the rest of the document.
func headerFor(line string) (section string, rest string, ok bool) {
	head := line
	if i := strings.Index(line, ":"); i >= 0 {
		head = line[:i]
		rest = strings.TrimSpace(line[i+1:])
	}
	if len(strings.Fields(head)) > 4 {
		return "", "", false
	}
	switch {
	case educationHeaderRE.MatchString(head):
		return "education", rest, true
	case experienceHeaderRE.MatchString(head):
		return "experience", rest, true
	case skillsHeaderRE.MatchString(head):
		return "skills", rest, true
	default:
		return "", "", false
	}
}

func splitSkills(line string) []string {
	cleaned := skillLabelRE.ReplaceAllString(line, "")
	parts := skillSplitRE.Split(cleaned, -1)
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func dedupeSkills(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
