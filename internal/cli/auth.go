package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/semmy-space/opsync/internal/credstore"
	"github.com/semmy-space/opsync/internal/fly"
	"github.com/semmy-space/opsync/internal/output"
)

// AuthSetTokenCmd implements the auth set-token command
type AuthSetTokenCmd struct {
	Token string `arg:"" optional:"" help:"Fly API token (read from stdin when omitted)"`
}

// Run executes the set-token command
func (cmd *AuthSetTokenCmd) Run(sp *ServiceProvider, console *output.Console) error {
	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		var err error
		token, err = console.ReadSecret("Fly API token")
		if err != nil {
			return toCLIError(err)
		}
	}
	if token == "" {
		return output.NewCLIError(output.ExitGeneral, "Token is empty").
			WithHint("Create one with: fly tokens create deploy")
	}

	store, err := sp.Store()
	if err != nil {
		return err
	}
	if err := store.Set(credstore.FlyAPIToken, token); err != nil {
		return output.Errorf("Failed to save token: %w", err)
	}

	fmt.Fprintf(console.Err, "Fly API token stored (%s)\n", maskSecret(token))
	return nil
}

// AuthClearCmd implements the auth clear command
type AuthClearCmd struct{}

// Run executes the clear command
func (cmd *AuthClearCmd) Run(sp *ServiceProvider, console *output.Console) error {
	store, err := sp.Store()
	if err != nil {
		return err
	}

	err = store.Delete(credstore.FlyAPIToken)
	switch {
	case errors.Is(err, credstore.ErrNotFound):
		fmt.Fprintf(console.Err, "No stored token\n")
		return nil
	case err != nil:
		return output.Errorf("Failed to remove token: %w", err)
	}

	fmt.Fprintf(console.Err, "Fly API token removed\n")
	return nil
}

// AuthStatusCmd implements the auth status command
type AuthStatusCmd struct{}

type tokenStatus struct {
	Source string `json:"source"`
	Token  string `json:"token"`
	Scheme string `json:"scheme"`
}

// Run executes the status command
func (cmd *AuthStatusCmd) Run(sp *ServiceProvider, fp *FormatterProvider) error {
	ts := sp.TokenSource()
	raw, source, err := ts.Resolve()
	if err != nil {
		return output.Errorf("No Fly API token available: %w", err).
			WithHint("Run: fly auth login, or opsync auth set-token")
	}

	token, err := ts.Token()
	if err != nil {
		return toCLIError(err)
	}

	return fp.Formatter.Print(tokenStatus{
		Source: describeSource(source),
		Token:  maskSecret(raw),
		Scheme: token.Type(),
	})
}

func describeSource(source string) string {
	switch source {
	case "env":
		return fly.TokenEnv
	case "credstore":
		return "stored token"
	default:
		return "fly auth token"
	}
}

// maskSecret masks sensitive values, showing only last 4 characters
func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
