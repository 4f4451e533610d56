package output

import (
	"errors"
	"fmt"
)

// Exit codes. Every user-facing failure, a declined confirmation included, exits 1.
const (
	ExitOK      = 0
	ExitGeneral = 1
)

// CLIError represents a structured error with exit code and optional hint
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
	Err      error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{
		ExitCode: code,
		Message:  msg,
	}
}

// Errorf creates a general CLIError wrapping any %w operand.
func Errorf(format string, args ...any) *CLIError {
	err := fmt.Errorf(format, args...)
	return &CLIError{ExitCode: ExitGeneral, Message: err.Error(), Err: errors.Unwrap(err)}
}

// WithHint adds a user-facing hint to the error
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// Report prints err through the formatter and returns the exit code to use.
func Report(formatter Formatter, err error) int {
	if err == nil {
		return ExitOK
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		formatter.PrintError(cliErr)
		if cliErr.Hint != "" {
			formatter.PrintHint(cliErr.Hint)
		}
		return cliErr.ExitCode
	}

	formatter.PrintError(err)
	return ExitGeneral
}
