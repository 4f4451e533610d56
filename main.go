package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/opsync/internal/cli"
)

var (
	version = "dev"
)

func main() {
	cliInstance := &cli.CLI{}
	parser := kong.Must(cliInstance,
		kong.Name("opsync"),
		kong.Description("Sync secrets between 1Password and Fly.io apps or local env files"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	// Answers shell completion requests and exits when COMP_LINE is set.
	kongplete.Complete(parser,
		kongplete.WithPredictor("file", complete.PredictFiles("*")),
	)

	kctx, err := parser.Parse(os.Args[1:])
	var parseErr *kong.ParseError
	if errors.As(err, &parseErr) {
		parser.FatalIfErrorf(err)
	}
	if err != nil {
		// Config and hook failures are reported like command errors.
		os.Exit(cliInstance.Report(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	kctx.BindTo(ctx, (*context.Context)(nil))

	err = kctx.Run()
	stop()
	os.Exit(cliInstance.Report(err))
}
