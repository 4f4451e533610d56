package cli

import (
	"github.com/semmy-space/opsync/internal/output"
	"github.com/semmy-space/opsync/internal/reconcile"
)

var diffColumns = []output.Column{
	{Name: "Key", Key: "Key"},
	{Name: "Change", Key: "Change"},
}

// outcomeView is the JSON shape of a finished operation.
type outcomeView struct {
	State     string   `json:"state"`
	Item      string   `json:"item,omitempty"`
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Modified  []string `json:"modified"`
	Release   *int     `json:"release,omitempty"`
	File      string   `json:"file,omitempty"`
	ShareLink string   `json:"share_link,omitempty"`
	DryRun    bool     `json:"dry_run,omitempty"`
}

// finish reports an operation. JSON mode prints the outcome on success; a dry run
// prints the affected keys as a table in the other modes. The error is mapped last.
func finish(fp *FormatterProvider, globals *Globals, out *reconcile.Outcome, err error) error {
	if err != nil || out == nil {
		return toCLIError(err)
	}

	if fp.Mode == output.ModeJSON {
		view := outcomeView{
			State:     out.State.String(),
			Item:      out.ItemID,
			Added:     out.Diff.Added,
			Removed:   out.Diff.Removed,
			Modified:  out.Diff.Modified,
			File:      out.File,
			ShareLink: out.ShareLink,
			DryRun:    globals.DryRun,
		}
		if out.Release != nil {
			view.Release = &out.Release.Version
		}
		return fp.Formatter.Print(view)
	}

	if globals.DryRun && !out.Diff.IsEmpty() {
		return fp.Formatter.PrintList(out.Diff.Rows(), diffColumns)
	}
	return nil
}
