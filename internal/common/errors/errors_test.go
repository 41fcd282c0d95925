package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBPMN_StandardError(t *testing.T) {
	std := NewScholarshipFetchFailedError(stderrors.New("connection reset"))

	bpmn := ToBPMN(fmt.Errorf("execute: %w", std))

	assert.Equal(t, "SCHOLARSHIP_FETCH_FAILED", bpmn.Code)
	assert.Equal(t, "Failed to fetch active scholarships", bpmn.Message)
	assert.Contains(t, bpmn.Details, "connection reset")
	assert.True(t, bpmn.Retryable)
}

func TestToBPMN_PlainError(t *testing.T) {
	bpmn := ToBPMN(stderrors.New("boom"))

	assert.Equal(t, "INTERNAL_ERROR", bpmn.Code)
	assert.Equal(t, "boom", bpmn.Message)
	assert.False(t, bpmn.Retryable)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewSearchQueryFailedError(stderrors.New("timeout"))))
	assert.False(t, IsRetryable(NewMatchRunFailedError("context canceled")))
	assert.False(t, IsRetryable(stderrors.New("plain")))
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmn := &BPMNError{
		Code:      "MATCH_RUN_FAILED",
		Message:   "Scholarship match run failed",
		Retryable: false,
		ErrorVariables: map[string]interface{}{
			"studentId": "student-1",
		},
	}

	vars := bpmn.ToErrorVariables()

	assert.Equal(t, "MATCH_RUN_FAILED", vars["errorCode"])
	assert.Equal(t, "student-1", vars["studentId"])
	assert.Equal(t, false, vars["retryable"])
}
