// internal/matching/reasons.go
package matching

import (
	"fmt"
	"strings"
)

// buildReasons produces the ordered justification list for an eligible
// candidate: one GPA reason first, then the program and major reasons that
// mirror the openness branch taken by the scorer.
func (e *Engine) buildReasons(s *Scholarship, student *StudentProfile, a contentAssessment) []Reason {
	reasons := make([]Reason, 0, 3)

	if min, ok := s.Requirements.MinGPAValue(); !ok {
		reasons = append(reasons, Reason{
			Type: ReasonRule,
			Text: "No minimum GPA requirement",
			Icon: "✅",
		})
	} else if student.CGPA >= min {
		reasons = append(reasons, Reason{
			Type: ReasonRule,
			Text: fmt.Sprintf("Meets CGPA requirement (%s ≥ %s)",
				formatGPA(student.CGPA), formatGPA(min)),
			Icon: "📊",
		})
	} else {
		reasons = append(reasons, Reason{
			Type: ReasonRule,
			Text: fmt.Sprintf("Does not meet CGPA requirement (%s < %s)",
				formatGPA(student.CGPA), formatGPA(min)),
			Icon: "📉",
		})
	}

	major := majorOrProgram(student)
	program := student.Program
	otherMajor := strings.ToLower(strings.TrimSpace(major)) == "other"

	openProgramsReason := Reason{
		Type: ReasonContent,
		Text: "This scholarship is open to all programs",
		Icon: "🌐",
	}
	openMajorsReason := Reason{
		Type: ReasonContent,
		Text: "This scholarship is open to all majors",
		Icon: "📚",
	}

	switch {
	case a.openPrograms && a.openMajors:
		reasons = append(reasons, openProgramsReason, openMajorsReason)

	case a.openPrograms:
		reasons = append(reasons, openProgramsReason)
		reasons = append(reasons, e.majorReason(major, otherMajor,
			e.tax.Compatible(major, a.courses, a.majors)))

	case a.openMajors:
		reasons = append(reasons, e.programReason(program,
			e.tax.Compatible(program, a.courses, nil)))
		reasons = append(reasons, openMajorsReason)

	default:
		reasons = append(reasons, e.programReason(program,
			e.tax.Compatible(program, a.courses, nil)))
		reasons = append(reasons, e.majorReason(major, otherMajor,
			e.tax.Compatible(major, nil, a.majors)))
	}

	return reasons
}

func (e *Engine) programReason(program string, match bool) Reason {
	if match {
		return Reason{
			Type: ReasonContent,
			Text: "Your program matches the scholarship requirements",
			Icon: "✅",
		}
	}
	return Reason{
		Type: ReasonContent,
		Text: fmt.Sprintf("Not eligible: Your program (%s) does not match the required programs", program),
		Icon: "❌",
	}
}

func (e *Engine) majorReason(major string, otherMajor, match bool) Reason {
	if otherMajor {
		return Reason{
			Type: ReasonContent,
			Text: "Major set to Other; skipping major requirement check",
			Icon: "✅",
		}
	}
	if match {
		return Reason{
			Type: ReasonContent,
			Text: "Your major matches the scholarship requirements",
			Icon: "✅",
		}
	}
	return Reason{
		Type: ReasonContent,
		Text: fmt.Sprintf("Not eligible: Your major (%s) does not match the required majors", major),
		Icon: "❌",
	}
}
