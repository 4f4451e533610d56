package cli

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/semmy-space/opsync/internal/command"
	"github.com/semmy-space/opsync/internal/envblock"
	"github.com/semmy-space/opsync/internal/fly"
	"github.com/semmy-space/opsync/internal/onepassword"
	"github.com/semmy-space/opsync/internal/output"
	"github.com/semmy-space/opsync/internal/reconcile"
)

// toCLIError turns a domain error into the user-facing error main reports.
func toCLIError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	e := &output.CLIError{ExitCode: output.ExitGeneral, Message: err.Error(), Err: err}

	var (
		ambiguous *onepassword.AmbiguousMatchError
		notFound  *onepassword.NotFoundError
		parseErr  *envblock.ParseError
		apiErr    *fly.APIError
		missing   *reconcile.EnvFileNotFoundError
		exists    *reconcile.ItemExistsError
	)

	switch {
	case errors.Is(err, reconcile.ErrAborted):
		e.Message = "Aborted by user"
	case errors.Is(err, output.ErrNoInput):
		e.Hint = "Run in a terminal, or drop --no-input and answer the prompt"
	case errors.Is(err, onepassword.ErrEmptySecrets):
		e.Hint = "Add KEY=value lines to the item's notes first"
	case errors.As(err, &ambiguous):
		e.Hint = ambiguous.Hint()
	case errors.As(err, &notFound):
		e.Hint = notFoundHint(notFound)
	case errors.As(err, &parseErr):
		e.Hint = "Give every listed key a value, or remove it"
	case errors.As(err, &missing):
		e.Hint = "Run: opsync local pull"
	case errors.As(err, &exists):
		e.Hint = "Run: opsync local push"
	case errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden):
		e.Hint = "Run: fly auth login, or opsync auth set-token"
	case command.IsNotFound(err):
		e.Hint = missingBinaryHint(err)
	}
	return e
}

func notFoundHint(err *onepassword.NotFoundError) string {
	if strings.HasPrefix(err.Token, onepassword.RemoteToken("")) {
		return fmt.Sprintf("Create a Secure Note whose title contains %s", err.Token)
	}
	return "Run: opsync local create .env"
}

func missingBinaryHint(err error) string {
	var exitErr *command.ExitError
	errors.As(err, &exitErr)

	switch name := filepath.Base(exitErr.Command); {
	case strings.HasPrefix(name, "fly"):
		return "Install flyctl, set FLY_API_TOKEN, or run: opsync config set fly_path /path/to/fly"
	case strings.HasPrefix(name, "op"):
		return "Install the 1Password CLI, or run: opsync config set op_path /path/to/op"
	default:
		return "Set the editor to use with: opsync config set editor \"vim\""
	}
}
