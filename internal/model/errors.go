package model

import "fmt"

// ExitCode defines the process exit codes of the r2meson CLI.
// The contract is deliberately coarse: every fatal condition maps to
// exit code 1 so that wrapper scripts only need to distinguish
// success from failure.
type ExitCode int

const (
	// ExitSuccess indicates the run completed fully.
	ExitSuccess ExitCode = 0

	// ExitFailure indicates any fatal error: bad flag combination,
	// external tool failure, staging failure, or a malformed
	// generated file. Nothing is recovered; the first error ends
	// the run.
	ExitFailure ExitCode = 1
)

// ErrorKind classifies a fatal error. The kind selects the message
// prefix printed by the top-level handler; all kinds share the same
// exit code.
type ErrorKind string

const (
	// KindValidation is a bad flag combination, detected before any
	// work is done.
	KindValidation ErrorKind = "validation"

	// KindTool is an external tool (meson, ninja, msbuild) exiting
	// with a non-zero status. Never retried.
	KindTool ErrorKind = "tool"

	// KindStaging is a violated filesystem precondition during
	// distribution assembly: missing source, pre-existing
	// destination, or a failed copy/move/mkdir. A failed assembly
	// can leave the distribution directory partially populated;
	// there is no rollback.
	KindStaging ErrorKind = "staging"

	// KindParse is an expected marker or pattern missing from a
	// generated or versioned file.
	KindParse ErrorKind = "parse"
)

// CLIError is the error type every fatal condition is wrapped in.
// It carries the kind used for message formatting and the underlying
// error for errors.Is/errors.As inspection.
type CLIError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Message is the human-readable description naming the failing
	// step.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is and
// errors.As, following the Go 1.13 wrapping convention.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for this error. Currently
// every kind maps to ExitFailure.
func (e *CLIError) ExitCode() ExitCode {
	return ExitFailure
}

// NewValidationError reports a bad flag combination.
func NewValidationError(format string, args ...any) *CLIError {
	return &CLIError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewToolError reports an external tool failure, wrapping the exec
// error.
func NewToolError(message string, err error) *CLIError {
	return &CLIError{Kind: KindTool, Message: message, Err: err}
}

// NewStagingError reports a filesystem staging failure.
func NewStagingError(message string, err error) *CLIError {
	return &CLIError{Kind: KindStaging, Message: message, Err: err}
}

// NewParseError reports a missing marker in a generated file.
func NewParseError(message string, err error) *CLIError {
	return &CLIError{Kind: KindParse, Message: message, Err: err}
}
