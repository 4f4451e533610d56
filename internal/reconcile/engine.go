// Package reconcile moves secret blocks between the vault, a Fly app and local env
// files. Every destructive step waits for an explicit confirmation.
package reconcile

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/semmy-space/opsync/internal/fly"
	"github.com/semmy-space/opsync/internal/label"
	"github.com/semmy-space/opsync/internal/onepassword"
	"github.com/semmy-space/opsync/internal/secretdiff"
)

// UI is the console the engine prompts and reports through.
type UI interface {
	Confirm(prompt string) (bool, error)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Spin(msg string) (stop func())
}

// LabelSource derives the identity label of the current project.
type LabelSource interface {
	Derive(ctx context.Context, remote string) (label.Label, string, error)
}

// TextEditor lets the user edit a block of text.
type TextEditor interface {
	Edit(ctx context.Context, content string) (string, error)
}

// Engine runs reconciliations. Remote, Labels and Editor are only needed by the
// flows that use them.
type Engine struct {
	Vault  onepassword.Service
	Remote fly.SecretsService
	Labels LabelSource
	Editor TextEditor
	UI     UI
	Log    *zap.Logger

	// VaultScope restricts item lookups and writes to one vault.
	VaultScope string
	// GitRemote is the remote whose URL names the project.
	GitRemote string
	// DefaultEnvFile is used when an item does not name its env file.
	DefaultEnvFile string
	// WorkDir resolves relative env file paths; empty means the process directory.
	WorkDir string
	// DryRun stops every operation once the diff is shown.
	DryRun bool

	Now func() time.Time
}

func (e *Engine) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) transition(out *Outcome, to State) {
	e.logger().Debug("reconcile state", zap.Stringer("from", out.State), zap.Stringer("to", to))
	out.State = to
}

func (e *Engine) fail(out *Outcome, err error) (*Outcome, error) {
	e.transition(out, StateFailed)
	return out, err
}

func (e *Engine) abort(out *Outcome) (*Outcome, error) {
	e.transition(out, StateAborted)
	return out, ErrAborted
}

// step runs fn behind a spinner.
func (e *Engine) step(msg string, fn func() error) error {
	stop := e.UI.Spin(msg)
	defer stop()
	return fn()
}

// locate resolves token to an item id and fetches the item.
func (e *Engine) locate(ctx context.Context, out *Outcome, token string) (*onepassword.Item, error) {
	var item *onepassword.Item
	err := e.step("Looking up 1Password item", func() error {
		id, err := onepassword.Locate(ctx, e.Vault, token, e.VaultScope)
		if err != nil {
			return err
		}
		out.ItemID = id
		e.transition(out, StateLocated)

		item, err = e.Vault.GetItem(ctx, id, e.VaultScope)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.transition(out, StateFetched)
	return item, nil
}

// confirmDiff asks before applying d. An empty diff still needs a yes.
func (e *Engine) confirmDiff(out *Outcome, d secretdiff.Diff) (bool, error) {
	e.transition(out, StateConfirmPending)
	prompt := "No changes detected, proceed?"
	if !d.IsEmpty() {
		prompt = d.Summary() + "\nProceed?"
	}
	return e.UI.Confirm(prompt)
}

func (e *Engine) showDryRun(d secretdiff.Diff) {
	if d.IsEmpty() {
		e.UI.Infof("No changes detected")
	} else {
		e.UI.Infof("%s", d.Summary())
	}
	e.UI.Infof("Dry run, nothing was changed")
}

// record writes a timestamp field on the item. A failure is only reported.
func (e *Engine) record(ctx context.Context, out *Outcome, field string) {
	_, err := e.Vault.EditItem(ctx, out.ItemID, e.VaultScope, onepassword.TimestampAssignment(field, e.now()))
	if err != nil {
		out.RecordErr = err
		e.UI.Warnf("failed to record %q on the 1Password item: %v", field, err)
	}
	if out.State == StateApplying {
		e.transition(out, StateRecorded)
	}
}

func (e *Engine) resolvePath(path string) string {
	if e.WorkDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.WorkDir, path)
}

func (e *Engine) envFile(item *onepassword.Item) string {
	if name := item.FileName(); name != "" {
		return name
	}
	if e.DefaultEnvFile != "" {
		return e.DefaultEnvFile
	}
	return ".env"
}

func (e *Engine) label(ctx context.Context) (label.Label, error) {
	l, note, err := e.Labels.Derive(ctx, e.GitRemote)
	if err != nil {
		return "", err
	}
	if note != "" {
		e.UI.Infof("%s", note)
	}
	e.logger().Debug("derived label", zap.String("label", string(l)))
	return l, nil
}
