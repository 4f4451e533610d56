package cli

import (
	"context"

	"github.com/semmy-space/opsync/internal/fly"
)

// RemoteImportCmd pushes an item's secrets to its Fly app
type RemoteImportCmd struct {
	App string `arg:"" help:"Fly app name; the item title must contain fly:<app>"`
}

// Run executes the import command
func (cmd *RemoteImportCmd) Run(ctx context.Context, sp *ServiceProvider, fp *FormatterProvider, globals *Globals) error {
	if err := fly.ValidateAppName(cmd.App); err != nil {
		return toCLIError(err)
	}

	engine := sp.Engine()
	engine.Remote = sp.Remote()

	out, err := engine.ImportRemote(ctx, cmd.App)
	return finish(fp, globals, out, err)
}

// RemoteEditCmd edits an app's secrets in 1Password
type RemoteEditCmd struct {
	App string `arg:"" help:"Fly app name; the item title must contain fly:<app>"`
}

// Run executes the edit command
func (cmd *RemoteEditCmd) Run(ctx context.Context, sp *ServiceProvider, fp *FormatterProvider, globals *Globals) error {
	if err := fly.ValidateAppName(cmd.App); err != nil {
		return toCLIError(err)
	}

	engine := sp.Engine()
	engine.Remote = sp.Remote()

	out, err := engine.EditRemote(ctx, cmd.App)
	return finish(fp, globals, out, err)
}
