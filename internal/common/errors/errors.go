// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeScholarshipFetchFailed ErrorCode = "SCHOLARSHIP_FETCH_FAILED"
	ErrCodeScholarshipNotFound    ErrorCode = "SCHOLARSHIP_NOT_FOUND"
	ErrCodeProfileFetchFailed     ErrorCode = "PROFILE_FETCH_FAILED"
	ErrCodeMatchRunFailed         ErrorCode = "MATCH_RUN_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeScholarshipValidationFailed ErrorCode = "SCHOLARSHIP_VALIDATION_FAILED"
	ErrCodeEnrichmentFailed            ErrorCode = "ENRICHMENT_FAILED"
	ErrCodeReportSendFailed            ErrorCode = "REPORT_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewScholarshipFetchFailedError creates a retryable database error for the
// scholarship pool query.
func NewScholarshipFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScholarshipFetchFailed,
		Message:   "Failed to fetch active scholarships",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileFetchFailedError creates a retryable error for student profile lookup.
func NewProfileFetchFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileFetchFailed,
		Message:   "Failed to fetch student profile",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMatchRunFailedError creates a non-retryable error for a failed match run.
func NewMatchRunFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchRunFailed,
		Message:   "Scholarship match run failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("queryType: %s", queryType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Scholarship search query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScholarshipValidationFailedError creates a non-retryable validation error.
func NewScholarshipValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScholarshipValidationFailed,
		Message:   "Scholarship record failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnrichmentFailedError creates a non-retryable enrichment error.
func NewEnrichmentFailedError(scholarshipID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnrichmentFailed,
		Message:   "Scholarship enrichment failed",
		Details:   fmt.Sprintf("scholarshipId: %s, error: %s", scholarshipID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportSendFailedError creates a retryable notification error.
func NewReportSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportSendFailed,
		Message:   "Failed to send match report",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
