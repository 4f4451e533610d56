package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/semmy-space/opsync/internal/envblock"
	"github.com/semmy-space/opsync/internal/fly"
	"github.com/semmy-space/opsync/internal/onepassword"
	"github.com/semmy-space/opsync/internal/secretdiff"
)

// SyncToRemote makes app hold exactly the desired secrets. The full set is sent
// with replace-all first; keys only the app holds are unset afterwards, and only
// once the user agrees. Declining returns ErrAborted with the replace already applied.
func (e *Engine) SyncToRemote(ctx context.Context, app string, desired *envblock.SecretSet) (*Outcome, error) {
	out := &Outcome{State: StateFetched}
	return e.syncToRemote(ctx, out, app, desired)
}

func (e *Engine) syncToRemote(ctx context.Context, out *Outcome, app string, desired *envblock.SecretSet) (*Outcome, error) {
	var names []string
	err := e.step("Listing secrets of fly app "+app, func() error {
		var err error
		names, err = e.Remote.ListSecretNames(ctx, app)
		return err
	})
	if err != nil {
		return e.fail(out, err)
	}

	out.Diff = secretdiff.CompareKeys(names, desired)
	e.transition(out, StateDiffed)
	if e.DryRun {
		e.showDryRun(out.Diff)
		return out, nil
	}
	if !out.Diff.IsEmpty() {
		e.UI.Infof("%s", out.Diff.Summary())
	}

	e.transition(out, StateApplying)
	var release *fly.Release
	err = e.step("Updating secrets of fly app "+app, func() error {
		var err error
		release, err = e.Remote.SetSecrets(ctx, app, desired)
		return err
	})
	if err != nil {
		return e.fail(out, err)
	}
	out.Applied = true
	out.Release = release

	if len(out.Diff.Removed) > 0 {
		e.transition(out, StateConfirmPending)
		ok, err := e.UI.Confirm(fmt.Sprintf("The following secrets will be deleted from Fly: %s, Are you sure?",
			strings.Join(out.Diff.Removed, ", ")))
		if err != nil {
			return e.fail(out, err)
		}
		if !ok {
			e.reportRelease(app, out.Release)
			return e.abort(out)
		}

		e.transition(out, StateApplying)
		err = e.step("Removing secrets from fly app "+app, func() error {
			unsetRelease, err := e.Remote.UnsetSecrets(ctx, app, out.Diff.Removed)
			if unsetRelease != nil {
				out.Release = unsetRelease
			}
			return err
		})
		if err != nil {
			return e.fail(out, err)
		}
	}

	e.reportRelease(app, out.Release)
	return out, nil
}

func (e *Engine) reportRelease(app string, release *fly.Release) {
	if release == nil {
		e.UI.Infof("Fly secrets updated, no release created, make sure to trigger a re-deploy for the changes to apply.")
		return
	}
	e.UI.Infof("Releasing fly app %s version %d", app, release.Version)
}

// ImportRemote pushes the secrets of the item titled with fly:<app> to the app and
// records when that happened.
func (e *Engine) ImportRemote(ctx context.Context, app string) (*Outcome, error) {
	out := &Outcome{State: StateIdle}

	item, err := e.locate(ctx, out, onepassword.RemoteToken(app))
	if err != nil {
		return e.fail(out, err)
	}

	notes := item.Notes()
	if strings.TrimSpace(notes) == "" {
		return e.fail(out, onepassword.ErrEmptySecrets)
	}
	desired, err := envblock.Decode(notes)
	if err != nil {
		return e.fail(out, err)
	}

	out, err = e.syncToRemote(ctx, out, app, desired)
	if out.Applied {
		e.record(ctx, out, onepassword.LastImportedAt)
	}
	return out, err
}

// EditRemote opens the secrets of fly:<app> in the editor, saves the result to the
// vault after confirmation and offers to import it to the app.
func (e *Engine) EditRemote(ctx context.Context, app string) (*Outcome, error) {
	out := &Outcome{State: StateIdle}

	item, err := e.locate(ctx, out, onepassword.RemoteToken(app))
	if err != nil {
		return e.fail(out, err)
	}

	current := item.Notes()
	edited, err := e.Editor.Edit(ctx, current)
	if err != nil {
		return e.fail(out, err)
	}

	out, err = e.pushToVault(ctx, out, edited, current)
	if err != nil || e.DryRun {
		return out, err
	}

	ok, err := e.UI.Confirm(fmt.Sprintf("Secrets updated in 1Password, do you wish to import secrets to the fly app %s?", app))
	if err != nil || !ok {
		return out, err
	}
	return e.ImportRemote(ctx, app)
}
