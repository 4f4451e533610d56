// Package commandtest provides a recording command.Executor for tests.
package commandtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/semmy-space/opsync/internal/command"
)

// Response is the canned result for a command.
type Response struct {
	Stdout string
	Stderr string
	Err    error
}

// Call records one invocation.
type Call struct {
	Name     string
	Args     []string
	Attached bool
}

// Line returns the call as a space-separated command line.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Executor answers commands from a table keyed by command-line prefix.
// The longest matching prefix wins. Unknown commands fail.
type Executor struct {
	mu        sync.Mutex
	responses map[string]Response
	attach    func(name string, args ...string) error
	Calls     []Call
}

var _ command.Executor = (*Executor)(nil)

// New creates an empty fake executor.
func New() *Executor {
	return &Executor{responses: make(map[string]Response)}
}

// On registers a response for every command line starting with prefix.
func (e *Executor) On(prefix string, resp Response) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[prefix] = resp
	return e
}

// OnAttach sets the handler run for attached commands.
func (e *Executor) OnAttach(fn func(name string, args ...string) error) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attach = fn
	return e
}

// Execute returns the registered response.
func (e *Executor) Execute(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call := Call{Name: name, Args: append([]string(nil), args...)}
	e.Calls = append(e.Calls, call)

	resp, ok := e.lookup(call.Line())
	if !ok {
		return nil, nil, fmt.Errorf("commandtest: no response configured for %q", call.Line())
	}
	return []byte(resp.Stdout), []byte(resp.Stderr), resp.Err
}

// Attach records the call and runs the attach handler, if any.
func (e *Executor) Attach(_ context.Context, name string, args ...string) error {
	e.mu.Lock()
	e.Calls = append(e.Calls, Call{Name: name, Args: append([]string(nil), args...), Attached: true})
	fn := e.attach
	e.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(name, args...)
}

// Called reports whether any recorded command line starts with prefix.
func (e *Executor) Called(prefix string) bool {
	return e.Count(prefix) > 0
}

// Count returns how many recorded command lines start with prefix.
func (e *Executor) Count(prefix string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, c := range e.Calls {
		if strings.HasPrefix(c.Line(), prefix) {
			n++
		}
	}
	return n
}

func (e *Executor) lookup(line string) (Response, bool) {
	best := ""
	found := false
	for prefix := range e.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) >= len(best) {
			best = prefix
			found = true
		}
	}
	if !found {
		return Response{}, false
	}
	return e.responses[best], true
}

// Failure builds the error a tool exiting with code would produce.
func Failure(name string, code int, stderr string) error {
	return &command.ExitError{Command: name, ExitCode: code, Stderr: stderr}
}

// Missing builds the error for a tool that is not installed.
func Missing(name string) error {
	return &command.ExitError{Command: name, NotFound: true, ExitCode: -1}
}
