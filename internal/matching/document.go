// internal/matching/document.go
package matching

import (
	"fmt"
	"strings"
)

// categoryEntry maps a display category to its trigger keywords.
type categoryEntry struct {
	name     string
	keywords []string
}

// categoryTable is ordered; the first category with a keyword hit wins.
var categoryTable = []categoryEntry{
	{"STEM", []string{
		"engineering", "science", "technology", "mathematics", "computer",
		"data", "physics", "chemistry", "biology",
	}},
	{"Business", []string{
		"business", "management", "finance", "accounting", "economics",
		"entrepreneurship", "marketing",
	}},
	{"Arts", []string{
		"arts", "design", "creative", "music", "theatre", "literature",
		"humanities",
	}},
	{"Healthcare", []string{
		"medical", "nursing", "health", "medicine", "pharmacy", "dentistry",
	}},
	{"Education", []string{"education", "teaching", "pedagogy", "training"}},
	{"Law", []string{"law", "legal", "justice", "paralegal"}},
	{"Social Sciences", []string{
		"psychology", "sociology", "anthropology", "political science",
		"social work",
	}},
}

// BuildDocument flattens a scholarship into one text blob for lexical
// similarity and categorization: title, description, category, both
// restriction lists, keywords and provider name, space-joined.
func BuildDocument(s *Scholarship) string {
	parts := []string{s.Title, s.Description, s.Category}
	parts = append(parts, s.EligibleCourses...)
	parts = append(parts, s.Keywords...)
	parts = append(parts, s.Requirements.Majors...)
	if s.Provider.Name != "" {
		parts = append(parts, s.Provider.Name)
	}
	return strings.Join(parts, " ")
}

// BuildProfileText flattens a student profile for lexical similarity. The
// free-text FullProfile takes precedence when present.
func BuildProfileText(p *StudentProfile) string {
	if p.FullProfile != "" {
		return p.FullProfile
	}
	return strings.TrimSpace(p.Program + " " + p.Major + " " + p.Name)
}

// Categorize assigns a display category from the scholarship's own text.
// Unrecognised scholarships fall into "General".
func Categorize(s *Scholarship) string {
	text := strings.ToLower(BuildDocument(s))
	for _, entry := range categoryTable {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.name
			}
		}
	}
	return "General"
}

// MatchingTerms returns up to five normalized tokens shared between the
// student profile and the scholarship document, in profile token order.
func (e *Engine) MatchingTerms(student *StudentProfile, s *Scholarship) []string {
	scholarshipTokens := make(map[string]bool)
	for _, tok := range e.norm.Tokens(BuildDocument(s)) {
		scholarshipTokens[tok] = true
	}

	seen := make(map[string]bool)
	var matching []string
	for _, tok := range e.norm.Tokens(BuildProfileText(student)) {
		if scholarshipTokens[tok] && !seen[tok] {
			seen[tok] = true
			matching = append(matching, tok)
			if len(matching) == 5 {
				break
			}
		}
	}
	return matching
}

// Enrich fills the derivable fields of a scholarship in place: a synthetic
// description when none was scraped, keywords extracted from its own text
// and a category when unset or still "General". It never overwrites data
// that is already present.
func (e *Engine) Enrich(s *Scholarship) {
	if strings.TrimSpace(s.Description) == "" {
		var b strings.Builder
		fmt.Fprintf(&b, "%s. Award amount: $%s. ", s.Title, formatGPA(s.Amount))
		if len(s.EligibleCourses) > 0 {
			fmt.Fprintf(&b, "Eligible for: %s. ", strings.Join(s.EligibleCourses, ", "))
		}
		if min, ok := s.Requirements.MinGPAValue(); ok && min > 0 {
			fmt.Fprintf(&b, "Minimum GPA: %s.", formatGPA(min))
		}
		s.Description = strings.TrimSpace(b.String())
	}

	if len(s.Keywords) == 0 {
		s.Keywords = e.norm.ExtractKeywords(BuildDocument(s), 10)
	}

	if s.Category == "" || s.Category == "General" {
		s.Category = Categorize(s)
	}
}
