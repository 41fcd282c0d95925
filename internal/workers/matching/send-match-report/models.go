// internal/workers/matching/send-match-report/models.go
package sendmatchreport

import "scholarship-workers/internal/matching"

type Input struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName,omitempty"`
	// Email and Phone override the stored contact details when set.
	Email    string                 `json:"email,omitempty"`
	Phone    string                 `json:"phone,omitempty"`
	Matches  []matching.MatchResult `json:"matches"`
	Priority string                 `json:"priority,omitempty"`
}

type Output struct {
	ReportID string   `json:"reportId"`
	Status   string   `json:"status"` // "sent", "failed", "disabled"
	Channels []string `json:"channels,omitempty"`
	SentAt   string   `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
