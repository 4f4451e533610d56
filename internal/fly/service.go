package fly

import (
	"context"

	"github.com/semmy-space/opsync/internal/envblock"
)

// SecretsService defines the secret operations on a Fly app.
type SecretsService interface {
	// SetSecrets replaces every secret of the app with secrets.
	SetSecrets(ctx context.Context, app string, secrets *envblock.SecretSet) (*Release, error)
	ListSecretNames(ctx context.Context, app string) ([]string, error)
	UnsetSecrets(ctx context.Context, app string, keys []string) (*Release, error)
}

// Compile-time interface compliance check
var _ SecretsService = (*Client)(nil)
