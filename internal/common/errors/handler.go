package errors

import (
	stderrors "errors"
)

// ToBPMN converts any error into a BPMNError suitable for throwing to the
// workflow engine. StandardErrors keep their code and retryability; everything
// else becomes a generic non-retryable failure.
func ToBPMN(err error) *BPMNError {
	var std *StandardError
	if stderrors.As(err, &std) {
		return &BPMNError{
			Code:      string(std.Code),
			Message:   std.Message,
			Details:   std.Details,
			Retryable: std.Retryable,
		}
	}

	return &BPMNError{
		Code:      "INTERNAL_ERROR",
		Message:   err.Error(),
		Retryable: false,
	}
}

// IsRetryable reports whether the error is marked retryable.
func IsRetryable(err error) bool {
	var std *StandardError
	if stderrors.As(err, &std) {
		return std.Retryable
	}
	var bpmn *BPMNError
	if stderrors.As(err, &bpmn) {
		return bpmn.Retryable
	}
	return false
}
