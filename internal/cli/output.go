package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/synqs/internal/config"
	"github.com/roach88/synqs/internal/ir"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Remote or decode failure
	ExitCommandError = 2 // Bad input: flags, config, circuit file, options
)

// CLI error codes. E0xx and E2xx come from config loading.
const (
	ErrCodeGeneric         = "E001"
	ErrCodeCircuit         = "E101" // circuit file unreadable or malformed
	ErrCodeUnsupported     = "E301"
	ErrCodeSubmission      = "E302"
	ErrCodeRemoteJob       = "E303"
	ErrCodeDecode          = "E304"
	ErrCodeConfiguration   = "E305"
	ErrCodeInvalidArgument = "E306"
	ErrCodeInvalidState    = "E307"
	ErrCodeStore           = "E401" // journal unavailable or job unknown
)

var irCodes = map[ir.ErrorCode]string{
	ir.ErrCodeUnsupported:     ErrCodeUnsupported,
	ir.ErrCodeSubmission:      ErrCodeSubmission,
	ir.ErrCodeRemoteJob:       ErrCodeRemoteJob,
	ir.ErrCodeDecode:          ErrCodeDecode,
	ir.ErrCodeConfiguration:   ErrCodeConfiguration,
	ir.ErrCodeInvalidArgument: ErrCodeInvalidArgument,
	ir.ErrCodeInvalidState:    ErrCodeInvalidState,
}

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// codedError tags an error with a CLI error code.
type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func withCode(code string, err error) error {
	return &codedError{code: code, err: err}
}

// classify returns the CLI error code and exit code of err.
func classify(err error) (string, int) {
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code, ExitCommandError
	}
	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, ExitCommandError
	}
	switch code := ir.CodeOf(err); code {
	case "":
		return ErrCodeGeneric, ExitFailure
	case ir.ErrCodeSubmission, ir.ErrCodeRemoteJob, ir.ErrCodeDecode:
		return irCodes[code], ExitFailure
	default:
		return irCodes[code], ExitCommandError
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Success writes data as a JSON envelope, or calls text for text output.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Fail writes err in the configured format and returns the ExitError the
// command should return.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classify(err)
	cliErr := &CLIError{Code: code, Message: err.Error()}
	var irErr *ir.Error
	if errors.As(err, &irErr) {
		cliErr.JobID = irErr.JobID
		cliErr.Detail = irErr.Detail
	}

	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		_ = enc.Encode(CLIResponse{Status: "error", Error: cliErr})
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s: %s\n", code, message, err)
	}
	return WrapExitError(exit, fmt.Sprintf("%s: %s", code, message), err)
}
