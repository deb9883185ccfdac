package output

import "errors"

// Exit codes
const (
	ExitOK    = 0 // Success
	ExitError = 1 // Operation failed (not found, bad data, store failure)
	ExitUsage = 2 // Invalid usage / bad arguments
)

// CLIError represents a structured error with exit code and optional hint
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
	// Silent suppresses printing; the exit code still applies.
	Silent bool
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLIError
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{
		ExitCode: code,
		Message:  msg,
	}
}

// WithHint adds a user-facing hint to the error
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// Quiet marks the error as not to be printed when quiet is true
func (e *CLIError) Quiet(quiet bool) *CLIError {
	e.Silent = quiet
	return e
}

// Report prints err through the formatter and returns the process exit code
func Report(formatter Formatter, err error) int {
	if err == nil {
		return ExitOK
	}

	// kong joins command errors with hook errors, so unwrap before matching
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if !cliErr.Silent {
			formatter.PrintError(cliErr)
			if cliErr.Hint != "" {
				formatter.PrintHint(cliErr.Hint)
			}
		}
		return cliErr.ExitCode
	}

	// Unknown error - print as general error
	formatter.PrintError(err)
	return ExitError
}
