package reconcile

import (
	"context"

	"github.com/semmy-space/opsync/internal/envblock"
	"github.com/semmy-space/opsync/internal/onepassword"
	"github.com/semmy-space/opsync/internal/secretdiff"
)

// PushToVault replaces the secret block of an item with newText once the user
// confirmed the change summary. Identical content still asks before writing.
func (e *Engine) PushToVault(ctx context.Context, itemID, newText, previousText string) (*Outcome, error) {
	out := &Outcome{State: StateFetched, ItemID: itemID}
	return e.pushToVault(ctx, out, newText, previousText)
}

func (e *Engine) pushToVault(ctx context.Context, out *Outcome, newText, previousText string) (*Outcome, error) {
	next, err := envblock.Decode(newText)
	if err != nil {
		return e.fail(out, err)
	}
	previous, err := envblock.Decode(previousText)
	if err != nil {
		return e.fail(out, err)
	}

	out.Diff = secretdiff.Compute(previous, next)
	e.transition(out, StateDiffed)
	if e.DryRun {
		e.showDryRun(out.Diff)
		return out, nil
	}

	ok, err := e.confirmDiff(out, out.Diff)
	if err != nil {
		return e.fail(out, err)
	}
	if !ok {
		return e.abort(out)
	}

	e.transition(out, StateApplying)
	err = e.step("Saving secrets to 1Password", func() error {
		_, err := e.Vault.EditItem(ctx, out.ItemID, e.VaultScope, onepassword.NotesAssignment(newText))
		return err
	})
	if err != nil {
		return e.fail(out, err)
	}
	out.Applied = true

	e.record(ctx, out, onepassword.LastEditedAt)
	return out, nil
}
