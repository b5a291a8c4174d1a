package errors

import (
	"errors"
	"fmt"
)

// Exit codes for arcrun. Codes 2 and 3 are part of the CLI contract and
// scripted against by users; do not renumber them.
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitMissingScenario = 2
	ExitUnknownScenario = 3
	ExitConfigInvalid   = 4
	ExitProvisionFailed = 5
	ExitSubmitFailed    = 6
	ExitWorkdirLocked   = 7
	ExitNetworkError    = 8
)

// RunError is the base error type for arcrun.
type RunError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RunError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error.
func (e *RunError) ExitCode() int {
	return e.Code
}

// New creates a new RunError.
func New(code int, message string) *RunError {
	return &RunError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a RunError.
func Wrap(code int, message string, cause error) *RunError {
	return &RunError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// MissingScenario returns an error for a missing scenario argument.
func MissingScenario() *RunError {
	return New(ExitMissingScenario, "missing scenario argument")
}

// UnknownScenario returns an error for a scenario name not in the registry.
func UnknownScenario(name string, known []string) *RunError {
	return New(ExitUnknownScenario, fmt.Sprintf("unknown scenario %q (known: %v)", name, known))
}

// ConfigInvalid returns an error for configuration validation failures.
func ConfigInvalid(message string, cause error) *RunError {
	return Wrap(ExitConfigInvalid, message, cause)
}

// ProvisionFailed returns an error for environment builder failures.
func ProvisionFailed(op string, cause error) *RunError {
	return Wrap(ExitProvisionFailed, fmt.Sprintf("environment %s failed", op), cause)
}

// SubmitFailed returns an error for batch submission failures.
func SubmitFailed(cause error) *RunError {
	return Wrap(ExitSubmitFailed, "sbatch submission failed", cause)
}

// WorkdirLocked returns an error for a locked workflow directory.
func WorkdirLocked(dir string) *RunError {
	return New(ExitWorkdirLocked, fmt.Sprintf("working directory %s is locked by a previous run; run 'arcrun unlock' after confirming no job is active", dir))
}

// NetworkError returns an error for network table operations.
func NetworkError(op string, cause error) *RunError {
	return Wrap(ExitNetworkError, fmt.Sprintf("network %s failed", op), cause)
}

// ValidationError returns an error for input validation failures.
func ValidationError(message string) *RunError {
	return New(ExitGeneralError, message)
}

// ExternalExit carries an external tool's exit code through unmodified.
// The workflow engine's own failure output has already been streamed to the
// terminal; the message stays terse.
func ExternalExit(tool string, code int) *RunError {
	return New(code, fmt.Sprintf("%s exited with status %d", tool, code))
}

// GetExitCode extracts the exit code from an error.
func GetExitCode(err error) int {
	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
