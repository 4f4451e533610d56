// Package label derives the identity label that names the current project in vault
// item titles: repo:<org>/<name> from a git remote, or local-dir:<dirname>.
package label

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/semmy-space/opsync/internal/command"
)

// Label is an identity label such as "repo:org/app" or "local-dir:app".
type Label string

const (
	RepoPrefix = "repo:"
	DirPrefix  = "local-dir:"
)

// DefaultRemote is the git remote read when none is given.
const DefaultRemote = "origin"

// remotePattern matches ssh and URL style remotes; the last two groups are the
// organisation (or user) and the repository path.
var remotePattern = regexp.MustCompile(`^(\w+)(://|@)([^/:]+)[/:]([^/:]+)/(.+)\.git$`)

// Deriver computes labels from the working directory.
type Deriver struct {
	Exec   command.Executor
	Binary string
	Getwd  func() (string, error)
}

// New creates a Deriver using git from PATH.
func New(exec command.Executor) *Deriver {
	return &Deriver{Exec: exec, Binary: "git", Getwd: os.Getwd}
}

// Derive returns the repository label for remote. When git cannot provide one it
// falls back to the directory label and returns the reason as a non-empty note.
// Errors are limited to a canceled ctx and an unreadable working directory.
func (d *Deriver) Derive(ctx context.Context, remote string) (Label, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if remote == "" {
		remote = DefaultRemote
	}

	repo, reason := d.fromGit(ctx, remote)
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if reason == "" {
		return Label(RepoPrefix + repo), "", nil
	}

	getwd := d.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	cwd, err := getwd()
	if err != nil {
		return "", "", fmt.Errorf("get working directory: %w", err)
	}

	l := Label(DirPrefix + filepath.Base(cwd))
	return l, fmt.Sprintf("%s, using the label based on the current directory: '%s'", reason, l), nil
}

func (d *Deriver) fromGit(ctx context.Context, remote string) (string, string) {
	binary := d.Binary
	if binary == "" {
		binary = "git"
	}

	out, _, err := d.Exec.Execute(ctx, binary, "config", "--get", "remote."+remote+".url")
	switch {
	case err == nil:
	case command.IsNotFound(err):
		return "", "git not in the PATH"
	case command.ExitCode(err) == 1:
		return "", fmt.Sprintf("Either not in a git repository or remote %q is not set", remote)
	default:
		return "", fmt.Sprintf("Failed to retrieve the git remote %q url", remote)
	}

	repo, ok := ParseRemote(strings.TrimSpace(string(out)))
	if !ok {
		return "", fmt.Sprintf("Failed to parse git remote %q", remote)
	}
	return repo, ""
}

// ParseRemote extracts "<org>/<name>" from a git remote URL ending in .git.
func ParseRemote(url string) (string, bool) {
	m := remotePattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[4] + "/" + m[5], true
}
