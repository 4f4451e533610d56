package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/semmy-space/opsync/internal/config"
	"github.com/semmy-space/opsync/internal/fly"
	"github.com/semmy-space/opsync/internal/onepassword"
	"github.com/semmy-space/opsync/internal/output"
)

// SetupCmd implements the interactive setup wizard
type SetupCmd struct{}

type prerequisite struct {
	Name    string
	Binary  string
	Args    []string
	Missing string
}

// Run executes the setup wizard
func (cmd *SetupCmd) Run(ctx context.Context, cfg *config.Config, sp *ServiceProvider, console *output.Console) error {
	w := console.Err

	fmt.Fprintf(w, "\n  opsync setup\n")
	fmt.Fprintf(w, "  ============\n\n")

	// Step 1: Tools
	fmt.Fprintf(w, "  Step 1: Check the tools opsync drives\n\n")
	opBinary := cfg.OpPath
	if opBinary == "" {
		opBinary = onepassword.DefaultBinary
	}
	flyBinary := cfg.FlyPath
	if flyBinary == "" {
		flyBinary = fly.DefaultBinary
	}
	prereqs := []prerequisite{
		{Name: "1Password CLI", Binary: opBinary, Args: []string{"--version"}, Missing: "required, see https://developer.1password.com/docs/cli"},
		{Name: "git", Binary: "git", Args: []string{"--version"}, Missing: "optional, labels fall back to the directory name"},
		{Name: "flyctl", Binary: flyBinary, Args: []string{"version"}, Missing: "optional with FLY_API_TOKEN or opsync auth set-token"},
	}
	opFound := true
	for _, p := range prereqs {
		version, err := checkTool(ctx, sp, p)
		if err != nil {
			fmt.Fprintf(w, "    ✗ %-14s %s\n", p.Name, p.Missing)
			if p.Binary == opBinary {
				opFound = false
			}
			continue
		}
		fmt.Fprintf(w, "    ✓ %-14s %s\n", p.Name, version)
	}

	// Step 2: Defaults
	fmt.Fprintf(w, "\n  Step 2: Choose defaults (empty keeps the current value)\n\n")
	vault, err := console.Prompt("  1Password vault, empty for all vaults", cfg.Vault)
	if err != nil {
		return toCLIError(err)
	}
	remote, err := console.Prompt("  Git remote naming the project", cfg.RemoteOrDefault())
	if err != nil {
		return toCLIError(err)
	}
	envFile, err := console.Prompt("  Env file for new projects", cfg.EnvFileOrDefault())
	if err != nil {
		return toCLIError(err)
	}

	cfg.Vault = vault
	cfg.Remote = remote
	cfg.EnvFile = envFile
	if remote == config.DefaultRemote {
		cfg.Remote = ""
	}
	if envFile == config.DefaultEnvFile {
		cfg.EnvFile = ""
	}
	// Set validates the remote name and saves every field.
	if err := cfg.Set("remote", cfg.Remote); err != nil {
		return output.Errorf("Failed to save config: %w", err)
	}

	// Done
	fmt.Fprintf(w, "\n  Setup complete!\n\n")
	fmt.Fprintf(w, "    Vault:  %s\n", valueOr(cfg.Vault, "(all vaults)"))
	fmt.Fprintf(w, "    Remote: %s\n", cfg.RemoteOrDefault())
	fmt.Fprintf(w, "    Config: %s\n\n", cfg.Path())
	fmt.Fprintf(w, "  Try it out:\n\n")
	fmt.Fprintf(w, "    opsync label\n")
	fmt.Fprintf(w, "    opsync local create %s\n", cfg.EnvFileOrDefault())
	fmt.Fprintf(w, "    opsync remote import <app>\n\n")

	if !opFound {
		return output.NewCLIError(output.ExitGeneral, "The 1Password CLI was not found").
			WithHint("Install it, or run: opsync config set op_path /path/to/op")
	}
	return nil
}

func checkTool(ctx context.Context, sp *ServiceProvider, p prerequisite) (string, error) {
	stdout, _, err := sp.exec.Execute(ctx, p.Binary, p.Args...)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(stdout)), "\n")
	return line, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
