// Package editor lets the user edit text in their editor through a temporary file.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/semmy-space/opsync/internal/command"
)

// DefaultCommand is used when neither the config nor the environment names an editor.
const DefaultCommand = "code --wait"

// Editor opens text in an external editor.
type Editor struct {
	Exec    command.Executor
	Command []string
	TempDir string
}

// New creates an Editor running the first non-empty of configured, $VISUAL, $EDITOR
// and DefaultCommand.
func New(exec command.Executor, configured string, getenv func(string) string) *Editor {
	if getenv == nil {
		getenv = os.Getenv
	}
	cmd := DefaultCommand
	for _, c := range []string{configured, getenv("VISUAL"), getenv("EDITOR")} {
		if strings.TrimSpace(c) != "" {
			cmd = c
			break
		}
	}
	return &Editor{Exec: exec, Command: strings.Fields(cmd)}
}

// Edit writes content to a private temporary file, waits for the editor to exit and
// returns the file's new content. The file is removed on every path.
func (e *Editor) Edit(ctx context.Context, content string) (string, error) {
	if len(e.Command) == 0 {
		return "", errors.New("no editor configured")
	}

	f, err := os.CreateTemp(e.TempDir, "opsync-*.env")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	args := append(append([]string(nil), e.Command[1:]...), path)
	if err := e.Exec.Attach(ctx, e.Command[0], args...); err != nil {
		return "", fmt.Errorf("run editor: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return string(data), nil
}
