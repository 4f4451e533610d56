package cli

import (
	"context"

	"github.com/semmy-space/opsync/internal/onepassword"
	"github.com/semmy-space/opsync/pkg/browser"
)

// LocalPullCmd writes the env file from 1Password
type LocalPullCmd struct{}

// Run executes the pull command
func (cmd *LocalPullCmd) Run(ctx context.Context, sp *ServiceProvider, fp *FormatterProvider, globals *Globals) error {
	out, err := sp.Engine().PullLocal(ctx)
	return finish(fp, globals, out, err)
}

// LocalPushCmd saves the env file to 1Password
type LocalPushCmd struct{}

// Run executes the push command
func (cmd *LocalPushCmd) Run(ctx context.Context, sp *ServiceProvider, fp *FormatterProvider, globals *Globals) error {
	out, err := sp.Engine().PushLocal(ctx)
	return finish(fp, globals, out, err)
}

// LocalCreateCmd creates the project's item from an env file
type LocalCreateCmd struct {
	File string `arg:"" help:"Env file to store, e.g. .env" predictor:"file"`
	Open bool   `help:"Open the new item in the 1Password app"`
}

// Run executes the create command
func (cmd *LocalCreateCmd) Run(ctx context.Context, sp *ServiceProvider, fp *FormatterProvider, globals *Globals) error {
	out, err := sp.Engine().CreateLocal(ctx, cmd.File)
	if err == nil && cmd.Open && out.ShareLink != "" {
		if openErr := browser.Open(ctx, sp.exec, onepassword.AppLink(out.ShareLink)); openErr != nil {
			sp.console.Warnf("%v", openErr)
		}
	}
	return finish(fp, globals, out, err)
}
