package cli

import (
	"os"

	"golang.org/x/term"

	"github.com/semmy-space/opsync/internal/config"
	"github.com/semmy-space/opsync/internal/output"
)

// Globals holds global flags available to all commands
type Globals struct {
	Debug      bool   `help:"Log external commands and API calls to stderr" env:"OPSYNC_DEBUG"`
	ConfigFile string `name:"config" help:"Config file to use instead of the XDG default" type:"path" env:"OPSYNC_CONFIG" hidden:""`
	Vault      string `help:"Only look up and write items in this 1Password vault" env:"OPSYNC_VAULT"`
	Remote     string `help:"Git remote whose URL names the project (default: origin)" env:"OPSYNC_REMOTE"`
	Output     string `help:"Output format" default:"" enum:"json,plain,rich,auto," short:"o" env:"OPSYNC_OUTPUT"`
	NoInput    bool   `help:"Disable interactive prompts (fail instead)" env:"OPSYNC_NO_INPUT"`
	DryRun     bool   `help:"Show the changes without applying them" name:"dry-run" env:"OPSYNC_DRY_RUN"`
}

// resolve fills unset flags from the config file.
func (g *Globals) resolve(cfg *config.Config) {
	if g.Vault == "" {
		g.Vault = cfg.Vault
	}
	if g.Remote == "" {
		g.Remote = cfg.RemoteOrDefault()
	}
	if g.Output == "" {
		g.Output = cfg.DefaultOutput
	}
}

// ResolvedOutput returns the effective output mode
// "auto" detects TTY: if stdout is TTY -> rich, else -> plain
func (g *Globals) ResolvedOutput() string {
	return output.ResolveMode(g.Output, term.IsTerminal(int(os.Stdout.Fd())))
}
