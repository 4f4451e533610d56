// Package cli defines the opsync command tree and wires it to the reconciliation engine.
package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete/cmd/install"
	"go.uber.org/zap"

	"github.com/semmy-space/opsync/internal/command"
	"github.com/semmy-space/opsync/internal/config"
	"github.com/semmy-space/opsync/internal/logging"
	"github.com/semmy-space/opsync/internal/output"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
	Mode      string
}

// CLI is the root command structure
type CLI struct {
	Globals

	RemoteApp  RemoteCmd     `cmd:"" name:"remote" help:"Sync a Fly app with its 1Password item"`
	Local      LocalCmd      `cmd:"" help:"Sync a local env file with its 1Password item"`
	Label      LabelCmd      `cmd:"" help:"Show the label identifying the current project"`
	Auth       AuthCmd       `cmd:"" help:"Manage the stored Fly API token"`
	Config     ConfigCmd     `cmd:"" help:"Configuration commands"`
	Setup      SetupCmd      `cmd:"" help:"Check prerequisites and write a config file"`
	Completion CompletionCmd `cmd:"" help:"Manage shell completions"`
	Version    VersionCmd    `cmd:"" help:"Show version information"`

	// Overridable in tests.
	console *output.Console
	exec    command.Executor
	getenv  func(string) string

	formatter output.Formatter
}

// AfterApply runs once flags are parsed, before the selected command.
// It loads config, resolves flag defaults, and binds dependencies.
func (c *CLI) AfterApply(ctx *kong.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	c.Globals.resolve(cfg)

	mode := c.ResolvedOutput()
	console := c.console
	if console == nil {
		console = output.NewConsole(c.NoInput)
	}
	console.NoInput = console.NoInput || c.NoInput
	fp := &FormatterProvider{
		Formatter: output.New(mode, console.Out, console.Err),
		Mode:      mode,
	}
	c.formatter = fp.Formatter
	// Keep stdout parseable when it carries JSON.
	if mode == output.ModeJSON {
		console.Out = console.Err
	}

	log := logging.New(console.Err, c.Debug)

	exec := c.exec
	if exec == nil {
		exec = command.DefaultExecutor()
	}
	getenv := c.getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	ctx.Bind(cfg)
	ctx.Bind(fp)
	ctx.Bind(console)
	ctx.Bind(log)
	ctx.Bind(&c.Globals)
	ctx.Bind(NewServiceProvider(cfg, &c.Globals, console, log, exec, getenv))
	return nil
}

func (c *CLI) loadConfig() (*config.Config, error) {
	if c.ConfigFile != "" {
		return config.LoadFrom(c.ConfigFile)
	}
	return config.Load()
}

// Report prints err and returns the process exit code.
func (c *CLI) Report(err error) int {
	formatter := c.formatter
	if formatter == nil {
		formatter = output.New(output.ModePlain, os.Stdout, os.Stderr)
	}
	return output.Report(formatter, err)
}

// RemoteCmd holds Fly app subcommands
type RemoteCmd struct {
	Import RemoteImportCmd `cmd:"" help:"Make a Fly app hold exactly the secrets of its 1Password item"`
	Edit   RemoteEditCmd   `cmd:"" help:"Edit the secrets of a Fly app in 1Password, then optionally import them"`
}

// LocalCmd holds env file subcommands
type LocalCmd struct {
	Pull   LocalPullCmd   `cmd:"" help:"Write the project's env file from 1Password"`
	Push   LocalPushCmd   `cmd:"" help:"Save the project's env file to 1Password"`
	Create LocalCreateCmd `cmd:"" help:"Create the project's 1Password item from an env file"`
}

// AuthCmd holds token subcommands
type AuthCmd struct {
	SetToken AuthSetTokenCmd `cmd:"" name:"set-token" help:"Store a Fly API token in the OS keyring"`
	Clear    AuthClearCmd    `cmd:"" help:"Remove the stored Fly API token"`
	Status   AuthStatusCmd   `cmd:"" help:"Show which Fly API token would be used"`
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// CompletionCmd holds shell completion subcommands
type CompletionCmd struct {
	Install   CompletionInstallCmd   `cmd:"" help:"Install completions for bash, zsh and fish"`
	Uninstall CompletionUninstallCmd `cmd:"" help:"Remove installed completions"`
}

// CompletionInstallCmd installs shell completions
type CompletionInstallCmd struct{}

func (cmd *CompletionInstallCmd) Run(ctx *kong.Context, console *output.Console) error {
	name := ctx.Model.Name
	if install.IsInstalled(name) {
		console.Infof("Completions for %s are already installed", name)
		return nil
	}
	if err := install.Install(name); err != nil {
		return output.Errorf("Failed to install completions: %w", err)
	}
	console.Infof("Completions installed, restart your shell to use them")
	return nil
}

// CompletionUninstallCmd removes shell completions
type CompletionUninstallCmd struct{}

func (cmd *CompletionUninstallCmd) Run(ctx *kong.Context, console *output.Console) error {
	if err := install.Uninstall(ctx.Model.Name); err != nil {
		return output.Errorf("Failed to uninstall completions: %w", err)
	}
	console.Infof("Completions removed")
	return nil
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context, console *output.Console, log *zap.Logger) error {
	version := ctx.Model.Vars()["version"]
	log.Debug("version", zap.String("version", version))
	fmt.Fprintf(console.Out, "opsync version %s\n", version)
	return nil
}
