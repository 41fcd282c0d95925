// internal/matching/content.go
package matching

import "strings"

// openPhrases are the literal substrings in a scholarship's title,
// description or category that mark it as open to every applicant.
var openPhrases = []string{
	"all programs", "any major", "open to all", "all fields", "any field",
	"open to all majors", "all majors", "no major restriction",
	"any discipline", "all disciplines", "any field of study",
	"all fields of study",
}

// allFieldsLiterals are the phrasings recognised inside restriction list
// entries themselves.
var allFieldsLiterals = []string{"all fields", "all programmes", "all programs"}

// contentAssessment holds the openness signals for one scholarship so the
// scorer and the reason generator agree on a single evaluation.
type contentAssessment struct {
	openPrograms bool
	openMajors   bool
	courses      []string
	majors       []string
}

// contentScore is the content-based half of the hybrid score.
type contentScore struct {
	total        int
	programScore int
	majorScore   int
}

// assessOpenness derives the program and major openness of a scholarship.
// Each side is open when its restriction list is empty, when the scholarship
// text carries an open-to-all phrase, or when either list contains an
// all-fields entry. The text and list signals are shared across both sides.
func assessOpenness(s *Scholarship) contentAssessment {
	courses := s.EligibleCourses
	majors := s.Requirements.Majors

	byKeywords := openByKeywords(s)
	allListed := hasAllFieldsEntry(courses) || hasAllFieldsEntry(majors)

	return contentAssessment{
		openPrograms: len(courses) == 0 || byKeywords || allListed,
		openMajors:   len(majors) == 0 || byKeywords || allListed,
		courses:      courses,
		majors:       majors,
	}
}

func openByKeywords(s *Scholarship) bool {
	text := strings.ToLower(s.Title + " " + s.Description + " " + s.Category)
	for _, phrase := range openPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func hasAllFieldsEntry(items []string) bool {
	for _, item := range items {
		text := strings.ToLower(strings.TrimSpace(item))
		for _, lit := range allFieldsLiterals {
			if strings.Contains(text, lit) {
				return true
			}
		}
	}
	return false
}

// majorOrProgram is the student value checked against major restrictions:
// the declared major, falling back to the program.
func majorOrProgram(student *StudentProfile) string {
	if student.Major != "" {
		return student.Major
	}
	return student.Program
}

// scoreContent applies the openness table. A fully open scholarship scores
// 100; one open side scores 50 with a chance to recover the other 50 via
// field compatibility; a doubly restricted one is all or nothing.
func (e *Engine) scoreContent(a contentAssessment, student *StudentProfile) contentScore {
	switch {
	case a.openPrograms && a.openMajors:
		return contentScore{total: 100, programScore: 50, majorScore: 50}

	case a.openPrograms:
		if e.tax.Compatible(majorOrProgram(student), a.courses, a.majors) {
			return contentScore{total: 100, programScore: 50, majorScore: 50}
		}
		return contentScore{total: 50, programScore: 50, majorScore: 0}

	case a.openMajors:
		if e.tax.Compatible(student.Program, a.courses, nil) {
			return contentScore{total: 100, programScore: 50, majorScore: 50}
		}
		return contentScore{total: 50, programScore: 0, majorScore: 50}

	default:
		if e.tax.Compatible(majorOrProgram(student), a.courses, a.majors) {
			return contentScore{total: 100, programScore: 50, majorScore: 50}
		}
		return contentScore{total: 0, programScore: 0, majorScore: 0}
	}
}
