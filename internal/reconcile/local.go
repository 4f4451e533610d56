package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/semmy-space/opsync/internal/envblock"
	"github.com/semmy-space/opsync/internal/onepassword"
	"github.com/semmy-space/opsync/internal/secretdiff"
)

// EnvFileNotFoundError is returned when a local env file is missing.
type EnvFileNotFoundError struct {
	Path string
}

func (e *EnvFileNotFoundError) Error() string {
	return fmt.Sprintf("env file '%s' not found", e.Path)
}

// ItemExistsError is returned by CreateLocal when the project already has an item.
type ItemExistsError struct {
	Label string
}

func (e *ItemExistsError) Error() string {
	return fmt.Sprintf("a 1Password item for %s already exists", e.Label)
}

// PullLocal writes the project's secrets from the vault to its env file. An existing
// non-empty file is only overwritten after the change summary is confirmed.
func (e *Engine) PullLocal(ctx context.Context) (*Outcome, error) {
	out := &Outcome{State: StateIdle}

	l, err := e.label(ctx)
	if err != nil {
		return e.fail(out, err)
	}
	item, err := e.locate(ctx, out, string(l))
	if err != nil {
		return e.fail(out, err)
	}

	notes := item.Notes()
	if strings.TrimSpace(notes) == "" {
		return e.fail(out, onepassword.ErrEmptySecrets)
	}
	next, err := envblock.Decode(notes)
	if err != nil {
		return e.fail(out, err)
	}

	out.File = e.envFile(item)
	path := e.resolvePath(out.File)
	previousText, err := readOptional(path)
	if err != nil {
		return e.fail(out, err)
	}

	previous := envblock.NewSecretSet()
	if strings.TrimSpace(previousText) != "" {
		if previous, err = envblock.Decode(previousText); err != nil {
			return e.fail(out, fmt.Errorf("%s: %w", out.File, err))
		}
	}
	out.Diff = secretdiff.Compute(previous, next)
	e.transition(out, StateDiffed)
	if e.DryRun {
		e.showDryRun(out.Diff)
		return out, nil
	}

	if strings.TrimSpace(previousText) != "" {
		ok, err := e.confirmDiff(out, out.Diff)
		if err != nil {
			return e.fail(out, err)
		}
		if !ok {
			return e.abort(out)
		}
	}

	e.transition(out, StateApplying)
	if err := os.WriteFile(path, []byte(notes), 0600); err != nil {
		return e.fail(out, fmt.Errorf("write %s: %w", out.File, err))
	}
	out.Applied = true
	e.transition(out, StateRecorded)

	e.UI.Infof("Successfully updated %s from 1Password", out.File)
	return out, nil
}

// PushLocal saves the project's env file to its vault item.
func (e *Engine) PushLocal(ctx context.Context) (*Outcome, error) {
	out := &Outcome{State: StateIdle}

	l, err := e.label(ctx)
	if err != nil {
		return e.fail(out, err)
	}
	item, err := e.locate(ctx, out, string(l))
	if err != nil {
		return e.fail(out, err)
	}

	out.File = e.envFile(item)
	text, err := readRequired(e.resolvePath(out.File), out.File)
	if err != nil {
		return e.fail(out, err)
	}

	out, err = e.pushToVault(ctx, out, text, item.Notes())
	if err != nil || e.DryRun {
		return out, err
	}

	e.UI.Infof("Successfully pushed secrets from %s to 1Password", out.File)
	return out, nil
}

// CreateLocal creates the project's vault item from an env file and prints its links.
func (e *Engine) CreateLocal(ctx context.Context, path string) (*Outcome, error) {
	out := &Outcome{State: StateIdle, File: path}

	l, err := e.label(ctx)
	if err != nil {
		return e.fail(out, err)
	}

	text, err := readRequired(e.resolvePath(path), path)
	if err != nil {
		return e.fail(out, err)
	}
	next, err := envblock.Decode(text)
	if err != nil {
		return e.fail(out, fmt.Errorf("%s: %w", path, err))
	}

	var notFound *onepassword.NotFoundError
	_, err = onepassword.Locate(ctx, e.Vault, string(l), e.VaultScope)
	switch {
	case err == nil:
		return e.fail(out, &ItemExistsError{Label: string(l)})
	case !errors.As(err, &notFound):
		return e.fail(out, err)
	}

	out.Diff = secretdiff.Compute(envblock.NewSecretSet(), next)
	e.transition(out, StateDiffed)
	title := fmt.Sprintf("%s local development %s", path, l)
	if e.DryRun {
		e.UI.Infof("Would create item '%s' with %d secrets", title, next.Len())
		return out, nil
	}

	e.transition(out, StateApplying)
	var item *onepassword.Item
	err = e.step("Creating 1Password item", func() error {
		var err error
		item, err = e.Vault.CreateItem(ctx, &onepassword.CreateItemRequest{
			Category: onepassword.CategorySecureNote,
			Title:    title,
			Vault:    e.VaultScope,
			Assignments: []string{
				onepassword.NotesAssignment(text),
				onepassword.FileNameAssignment(path),
				onepassword.TimestampAssignment(onepassword.LastEditedAt, e.now()),
			},
		})
		return err
	})
	if err != nil {
		return e.fail(out, err)
	}
	out.Applied = true
	out.ItemID = item.ID
	e.UI.Infof("Item '%s' created in 1Password!\n", title)

	link, err := e.Vault.ShareLink(ctx, item.ID, e.VaultScope)
	if err != nil {
		return e.fail(out, fmt.Errorf("get share link: %w", err))
	}
	out.ShareLink = link
	e.transition(out, StateRecorded)

	e.UI.Infof("%s", link)
	e.UI.Infof("%s", onepassword.AppLink(link))
	return out, nil
}

func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func readRequired(path, display string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &EnvFileNotFoundError{Path: display}
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", display, err)
	}
	return string(data), nil
}
