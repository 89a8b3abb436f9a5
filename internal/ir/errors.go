package ir

import (
	"errors"
	"fmt"
)

// Error is the single error type surfaced by synqs devices.
//
// Errors include:
//   - Unsupported operation: operation or observable name not in the catalog
//   - Submission failure: the job could not be posted or no job id came back
//   - Remote job failure: the service reported ERROR or returned no results
//   - Decode failure: a per-shot memory record is malformed
//   - Configuration failure: device options are invalid (raised at construction)
//
// Error includes structured fields for diagnostics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// JobID identifies the remote job, when one exists.
	JobID string

	// Detail carries server-supplied text (status detail or raw body).
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes errors.
type ErrorCode string

const (
	// ErrCodeUnsupported indicates an unknown operation or observable name.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_OPERATION"

	// ErrCodeSubmission indicates the job could not be submitted.
	ErrCodeSubmission ErrorCode = "SUBMISSION_FAILED"

	// ErrCodeRemoteJob indicates the remote job failed or has no results.
	ErrCodeRemoteJob ErrorCode = "REMOTE_JOB_FAILED"

	// ErrCodeDecode indicates a malformed per-shot record.
	ErrCodeDecode ErrorCode = "RESULT_DECODE_FAILED"

	// ErrCodeConfiguration indicates invalid device options.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_INVALID"

	// ErrCodeInvalidArgument indicates wrong wire or parameter counts or values.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeInvalidState indicates a device call outside its valid state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.JobID != "" {
		msg = fmt.Sprintf("%s (job=%s)", msg, e.JobID)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates an Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an underlying cause.
func Wrap(code ErrorCode, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// NewUnsupportedError creates an error for an unregistered name.
func NewUnsupportedError(kind, name string) *Error {
	return Errorf(ErrCodeUnsupported, "%s %q is not supported", kind, name)
}

// NewRemoteJobError creates an error carrying the server detail text.
func NewRemoteJobError(jobID, message, detail string) *Error {
	return &Error{
		Code:    ErrCodeRemoteJob,
		Message: message,
		JobID:   jobID,
		Detail:  detail,
	}
}

// CodeOf returns the code of the first Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err's chain contains an Error with the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsUnsupported returns true if the error is an unsupported operation error.
func IsUnsupported(err error) bool { return HasCode(err, ErrCodeUnsupported) }

// IsSubmission returns true if the error is a submission error.
func IsSubmission(err error) bool { return HasCode(err, ErrCodeSubmission) }

// IsRemoteJob returns true if the error is a remote job error.
func IsRemoteJob(err error) bool { return HasCode(err, ErrCodeRemoteJob) }

// IsDecode returns true if the error is a result decode error.
func IsDecode(err error) bool { return HasCode(err, ErrCodeDecode) }

// IsConfiguration returns true if the error is a configuration error.
func IsConfiguration(err error) bool { return HasCode(err, ErrCodeConfiguration) }
