// Package command runs the external command-line tools opsync drives (op, fly, git, editors).
// Callers depend on the Executor interface so tests can substitute a recording fake.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Executor runs external commands.
type Executor interface {
	// Execute runs a command and captures its output.
	// A non-zero exit or a missing binary is reported as *ExitError.
	Execute(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

	// Attach runs a command wired to the terminal (used for editors).
	Attach(ctx context.Context, name string, args ...string) error
}

// ExitError is returned when an external tool is missing or exits with a non-zero status.
type ExitError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	NotFound bool
	Err      error
}

func (e *ExitError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("%s: executable not found in PATH", e.Command)
	}

	msg := fmt.Sprintf("command '%s' failed (exit code: %d)", e.commandLine(), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// commandLine renders the command with its first positional words, enough to identify
// the call without echoing assignment arguments that carry secret values.
func (e *ExitError) commandLine() string {
	parts := []string{e.Command}
	for _, arg := range e.Args {
		if strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
			break
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// RealExecutor executes commands with os/exec.
type RealExecutor struct{}

// DefaultExecutor returns the production executor.
func DefaultExecutor() Executor {
	return &RealExecutor{}
}

// Execute runs the command and converts failures into *ExitError.
func (r *RealExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), wrap(name, args, stderr.String(), err)
}

// Attach runs the command with the process' own stdin, stdout and stderr.
func (r *RealExecutor) Attach(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return wrap(name, args, "", cmd.Run())
}

func wrap(name string, args []string, stderr string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return &ExitError{Command: name, Args: args, NotFound: true, ExitCode: -1, Err: err}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: name, Args: args, ExitCode: exitErr.ExitCode(), Stderr: stderr, Err: err}
	}

	return fmt.Errorf("run %s: %w", name, err)
}

// IsNotFound reports whether err means the executable could not be found.
func IsNotFound(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.NotFound
}

// ExitCode returns the exit status carried by err, or -1 when there is none.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return -1
}
