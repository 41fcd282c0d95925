// internal/workers/matching/match-scholarships/models.go
package matchscholarships

import "scholarship-workers/internal/matching"

type Input struct {
	StudentID string `json:"studentId"`
	// Student is used directly when provided; otherwise the profile is
	// fetched by StudentID.
	Student *matching.StudentProfile `json:"student,omitempty"`
	// Scholarships is an inline candidate pool; when empty the active
	// scholarships are loaded from the database.
	Scholarships       []matching.Scholarship `json:"scholarships,omitempty"`
	IncludeNonEligible bool                   `json:"includeNonEligible,omitempty"`
	WithLexical        bool                   `json:"withLexical,omitempty"`
}

type Output struct {
	Matches     []matching.MatchResult       `json:"matches"`
	NonEligible []matching.NonEligibleResult `json:"nonEligible,omitempty"`
	TotalCount  int                          `json:"totalCount"`
	TopScore    int                          `json:"topScore"`
}
