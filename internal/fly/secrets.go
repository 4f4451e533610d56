package fly

import (
	"context"
	"fmt"

	"github.com/semmy-space/opsync/internal/envblock"
	"github.com/semmy-space/opsync/internal/logging"
)

const setSecretsMutation = `mutation($appId: ID!, $secrets: [SecretInput!]!, $replaceAll: Boolean!) {
  setSecrets(input: {appId: $appId, replaceAll: $replaceAll, secrets: $secrets}) {
    app { name }
    release { id version }
  }
}`

const appSecretsQuery = `query($appName: String) {
  app(name: $appName) {
    secrets { name }
  }
}`

const unsetSecretsMutation = `mutation($appId: ID!, $keys: [String!]!) {
  unsetSecrets(input: {appId: $appId, keys: $keys}) {
    release { id version }
  }
}`

// SetSecrets sends the full set with replaceAll, so the app ends up holding exactly
// these values for the keys it tracks. Keys missing from secrets are left for
// UnsetSecrets.
func (c *Client) SetSecrets(ctx context.Context, app string, secrets *envblock.SecretSet) (*Release, error) {
	inputs := make([]SecretInput, 0, secrets.Len())
	masked := make([]SecretInput, 0, secrets.Len())
	for k, v := range secrets.All() {
		inputs = append(inputs, SecretInput{Key: k, Value: v})
		masked = append(masked, SecretInput{Key: k, Value: logging.Redacted})
	}

	var data setSecretsData
	err := c.do(ctx, setSecretsMutation, map[string]any{
		"appId":      app,
		"secrets":    inputs,
		"replaceAll": true,
	}, map[string]any{
		"appId":      app,
		"secrets":    masked,
		"replaceAll": true,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("set secrets on %s: %w", app, err)
	}
	return data.SetSecrets.Release, nil
}

// ListSecretNames returns the names of the secrets currently set on the app.
func (c *Client) ListSecretNames(ctx context.Context, app string) ([]string, error) {
	var data appSecretsData
	if err := c.do(ctx, appSecretsQuery, map[string]any{"appName": app}, nil, &data); err != nil {
		return nil, fmt.Errorf("list secrets of %s: %w", app, err)
	}
	if data.App == nil {
		return nil, &APIError{Message: fmt.Sprintf("app %q not found", app)}
	}

	names := make([]string, 0, len(data.App.Secrets))
	for _, s := range data.App.Secrets {
		names = append(names, s.Name)
	}
	return names, nil
}

// UnsetSecrets removes the named secrets from the app.
func (c *Client) UnsetSecrets(ctx context.Context, app string, keys []string) (*Release, error) {
	var data unsetSecretsData
	err := c.do(ctx, unsetSecretsMutation, map[string]any{
		"appId": app,
		"keys":  keys,
	}, nil, &data)
	if err != nil {
		return nil, fmt.Errorf("unset secrets on %s: %w", app, err)
	}
	return data.UnsetSecrets.Release, nil
}
