package fly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/semmy-space/opsync/internal/command"
	"github.com/semmy-space/opsync/internal/credstore"
)

// TokenEnv overrides every other token source.
const TokenEnv = "FLY_API_TOKEN"

// DefaultBinary is the fly executable looked up in PATH.
const DefaultBinary = "fly"

const macaroonScheme = "FlyV1"

// TokenSource implements oauth2.TokenSource. A token is resolved on every call, in
// order: the FLY_API_TOKEN variable, the token saved with `opsync auth set-token`,
// then `fly auth token --json`.
type TokenSource struct {
	Exec   command.Executor
	Binary string
	Store  credstore.Store
	Getenv func(string) string
	Log    *zap.Logger
}

// Compile-time interface compliance check
var _ oauth2.TokenSource = (*TokenSource)(nil)

// Token returns the API token as an oauth2 token.
func (s *TokenSource) Token() (*oauth2.Token, error) {
	raw, source, err := s.Resolve()
	if err != nil {
		return nil, err
	}
	if s.Log != nil {
		s.Log.Debug("resolved fly token", zap.String("source", source))
	}
	return newToken(raw), nil
}

// Resolve returns the raw token and its source: "env", "credstore" or "fly".
func (s *TokenSource) Resolve() (token, source string, err error) {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(TokenEnv)); v != "" {
		return v, "env", nil
	}

	if s.Store != nil {
		v, err := s.Store.Get(credstore.FlyAPIToken)
		switch {
		case err == nil && v != "":
			return v, "credstore", nil
		case err != nil && !errors.Is(err, credstore.ErrNotFound):
			return "", "", fmt.Errorf("read stored fly token: %w", err)
		}
	}

	v, err := s.fromCLI()
	if err != nil {
		return "", "", err
	}
	return v, "fly", nil
}

func (s *TokenSource) fromCLI() (string, error) {
	binary := s.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	stdout, _, err := s.Exec.Execute(context.Background(), binary, "auth", "token", "--json")
	if err != nil {
		return "", fmt.Errorf("get fly auth token: %w", err)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(stdout, &out); err != nil {
		return "", fmt.Errorf("decode fly auth token: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("fly auth token is empty, run: fly auth login")
	}
	return out.Token, nil
}

// newToken maps macaroon tokens ("FlyV1 fm2_...") to their own authorization scheme.
// Everything else is sent as a bearer token.
func newToken(raw string) *oauth2.Token {
	if rest, ok := strings.CutPrefix(raw, macaroonScheme+" "); ok {
		return &oauth2.Token{AccessToken: rest, TokenType: macaroonScheme}
	}
	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
}
