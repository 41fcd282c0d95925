// internal/matching/types.go
package matching

import (
	"math"
	"time"
)

// StudentProfile is the immutable input to a match run. Major carries the
// "Other" wildcard sentinel that bypasses major-restriction checks.
type StudentProfile struct {
	Name        string  `json:"name"`
	CGPA        float64 `json:"cgpa"`
	Program     string  `json:"program"`
	Major       string  `json:"major"`
	FullProfile string  `json:"fullProfile,omitempty"`
}

// Requirements holds the rule-based constraints of a scholarship. A nil or
// NaN MinGPA means no GPA constraint.
type Requirements struct {
	MinGPA *float64 `json:"minGPA,omitempty"`
	Majors []string `json:"majors,omitempty"`
}

// MinGPAValue returns the GPA floor and whether one is actually set.
func (r Requirements) MinGPAValue() (float64, bool) {
	if r.MinGPA == nil || math.IsNaN(*r.MinGPA) {
		return 0, false
	}
	return *r.MinGPA, true
}

// Provider identifies the organisation offering a scholarship.
type Provider struct {
	Name    string `json:"name,omitempty"`
	Website string `json:"website,omitempty"`
}

// Scholarship is one candidate record. An empty EligibleCourses list means
// open to all programs; a nil Deadline means always open.
type Scholarship struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Amount          float64      `json:"amount"`
	Deadline        *time.Time   `json:"deadline,omitempty"`
	EligibleCourses []string     `json:"eligibleCourses,omitempty"`
	Requirements    Requirements `json:"requirements"`
	Description     string       `json:"description,omitempty"`
	Keywords        []string     `json:"keywords,omitempty"`
	Category        string       `json:"category,omitempty"`
	Provider        Provider     `json:"provider,omitempty"`
	Status          string       `json:"status,omitempty"`
	SourceURL       string       `json:"sourceUrl,omitempty"`
}

// ReasonType distinguishes rule-based from content-based justifications.
const (
	ReasonRule    = "rule"
	ReasonContent = "content"
)

// Reason is one human-readable justification line. Ordered, descriptive
// only; nothing downstream branches on it beyond display.
type Reason struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// Breakdown holds the half-weighted score contributions. These are already
// multiplied by the 50% weights so the UI can render them side by side.
type Breakdown struct {
	RuleBasedScore int `json:"ruleBasedScore"`
	ContentScore   int `json:"contentScore"`
}

// Components exposes the raw, unweighted sub-scores for explanation.
type Components struct {
	RuleScore       int `json:"ruleScore"`
	ContentScore    int `json:"contentScore"`
	ProgramOpenness int `json:"programOpenness"`
	MajorOpenness   int `json:"majorOpenness"`
}

// MatchResult is one eligible scholarship with its hybrid score and
// justification. LexicalScore is diagnostic only and never feeds TotalScore.
type MatchResult struct {
	Scholarship  Scholarship `json:"scholarship"`
	TotalScore   int         `json:"matchScore"`
	Breakdown    Breakdown   `json:"scoreBreakdown"`
	Components   Components  `json:"components"`
	MatchReasons []Reason    `json:"matchReasons"`
	LexicalScore int         `json:"lexicalScore,omitempty"`
}

// NonEligibleResult pairs an excluded scholarship with its terminal reasons.
type NonEligibleResult struct {
	Scholarship Scholarship `json:"scholarship"`
	Reasons     []Reason    `json:"reasons"`
}

// Options tunes one match run.
type Options struct {
	// IncludeNonEligible collects excluded candidates (capped) for display.
	IncludeNonEligible bool
	// NonEligibleCap bounds the excluded bucket; 0 means the default of 5.
	NonEligibleCap int
	// Concurrency sizes the per-run scoring pool; 0 or 1 scores serially.
	Concurrency int
	// WithLexical computes the diagnostic TF-IDF similarity per result.
	WithLexical bool
}

// Outcome is the result of one match run.
type Outcome struct {
	Eligible    []MatchResult       `json:"eligible"`
	NonEligible []NonEligibleResult `json:"nonEligible,omitempty"`
}

// BonusScorer is a reserved extension point for future score sources
// (behavioral click data, diversity bonuses). None are registered by
// default; the documented scoring contract stays rule+content only.
type BonusScorer interface {
	Name() string
	Score(s *Scholarship, student *StudentProfile) int
}
