package cli

import (
	"context"
	"fmt"

	"github.com/semmy-space/opsync/internal/output"
)

// LabelCmd prints the label the local commands look items up by
type LabelCmd struct{}

// Run executes the label command
func (cmd *LabelCmd) Run(ctx context.Context, sp *ServiceProvider, fp *FormatterProvider, globals *Globals, console *output.Console) error {
	l, note, err := sp.Labels().Derive(ctx, globals.Remote)
	if err != nil {
		return toCLIError(err)
	}

	if fp.Mode == output.ModeJSON {
		return fp.Formatter.Print(struct {
			Label string `json:"label"`
			Note  string `json:"note,omitempty"`
		}{Label: string(l), Note: note})
	}

	if note != "" {
		fmt.Fprintln(console.Err, note)
	}
	return fp.Formatter.Print(string(l))
}
