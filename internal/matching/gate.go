// internal/matching/gate.go
package matching

import (
	"fmt"
	"strconv"
	"time"
)

// formatGPA renders a GPA without trailing zeros (3.5, not 3.50).
func formatGPA(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// gateResult is the outcome of the eligibility gate for one candidate.
// Only deadline and GPA can exclude a scholarship; program and major fit
// affect ranking, never eligibility.
type gateResult struct {
	eligible bool
	reasons  []Reason
}

// applyGate runs the hard eligibility checks in order. The deadline check
// fires first so an expired scholarship never reports a GPA reason.
func applyGate(s *Scholarship, student *StudentProfile, now time.Time) gateResult {
	if s.Deadline != nil && !s.Deadline.After(now) {
		return gateResult{
			eligible: false,
			reasons: []Reason{
				{Text: "Scholarship deadline has passed", Icon: "⏰"},
			},
		}
	}

	if min, ok := s.Requirements.MinGPAValue(); ok && student.CGPA < min {
		return gateResult{
			eligible: false,
			reasons: []Reason{
				{
					Text: fmt.Sprintf("GPA too low (%s < %s)",
						formatGPA(student.CGPA), formatGPA(min)),
					Icon: "📉",
				},
			},
		}
	}

	return gateResult{eligible: true}
}

// ruleScore is the binary GPA gate expressed as a score. Eligible candidates
// always see 100 here; 0 only appears when scoring is invoked outside the
// gated path.
func ruleScore(s *Scholarship, student *StudentProfile) int {
	min, ok := s.Requirements.MinGPAValue()
	if !ok {
		return 100
	}
	if student.CGPA >= min {
		return 100
	}
	return 0
}
