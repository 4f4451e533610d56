package cli

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/semmy-space/opsync/internal/command"
	"github.com/semmy-space/opsync/internal/config"
	"github.com/semmy-space/opsync/internal/credstore"
	"github.com/semmy-space/opsync/internal/editor"
	"github.com/semmy-space/opsync/internal/fly"
	"github.com/semmy-space/opsync/internal/label"
	"github.com/semmy-space/opsync/internal/onepassword"
	"github.com/semmy-space/opsync/internal/output"
	"github.com/semmy-space/opsync/internal/reconcile"
)

// ServiceProvider lazily creates and caches the collaborators commands talk to.
type ServiceProvider struct {
	cfg     *config.Config
	globals *Globals
	console *output.Console
	log     *zap.Logger
	exec    command.Executor
	getenv  func(string) string

	storeOnce sync.Once
	store     credstore.Store
	storeErr  error

	vaultOnce sync.Once
	vault     *onepassword.CLIClient

	remoteOnce sync.Once
	remote     *fly.Client
}

// NewServiceProvider creates a ServiceProvider for one invocation.
func NewServiceProvider(cfg *config.Config, globals *Globals, console *output.Console, log *zap.Logger, exec command.Executor, getenv func(string) string) *ServiceProvider {
	return &ServiceProvider{
		cfg:     cfg,
		globals: globals,
		console: console,
		log:     log,
		exec:    exec,
		getenv:  getenv,
	}
}

// Store returns the credential store, creating it on first call.
func (sp *ServiceProvider) Store() (credstore.Store, error) {
	sp.storeOnce.Do(func() {
		store, err := credstore.NewStore(config.DataDir(), sp.console.Err)
		if err != nil {
			sp.storeErr = &output.CLIError{
				ExitCode: output.ExitGeneral,
				Message:  fmt.Sprintf("Failed to initialize credential store: %v", err),
				Err:      err,
			}
			return
		}
		sp.store = store
	})
	return sp.store, sp.storeErr
}

// Vault returns the op client, creating it on first call.
func (sp *ServiceProvider) Vault() onepassword.Service {
	sp.vaultOnce.Do(func() {
		sp.vault = onepassword.NewCLIClient(sp.exec, sp.cfg.OpPath, sp.log)
	})
	return sp.vault
}

// TokenSource resolves the Fly API token. The credential store is only opened when
// FLY_API_TOKEN is unset; a broken store is skipped so the fly CLI still works.
func (sp *ServiceProvider) TokenSource() *fly.TokenSource {
	var store credstore.Store
	if sp.getenv(fly.TokenEnv) == "" {
		s, err := sp.Store()
		if err != nil {
			sp.log.Debug("credential store unavailable", zap.Error(err))
		} else {
			store = s
		}
	}
	return &fly.TokenSource{
		Exec:   sp.exec,
		Binary: sp.cfg.FlyPath,
		Store:  store,
		Getenv: sp.getenv,
		Log:    sp.log,
	}
}

// Remote returns the Fly GraphQL client, creating it on first call.
func (sp *ServiceProvider) Remote() fly.SecretsService {
	sp.remoteOnce.Do(func() {
		endpoint := sp.cfg.GraphQLEndpoint
		if endpoint == "" {
			endpoint = fly.DefaultEndpoint
		}
		sp.remote = fly.NewClient(endpoint, sp.TokenSource(), sp.log)
	})
	return sp.remote
}

// Labels returns the label deriver.
func (sp *ServiceProvider) Labels() *label.Deriver {
	return label.New(sp.exec)
}

// Engine assembles a reconciliation engine from the resolved flags and config.
// Remote is left for the Fly commands to set, so local flows never resolve a token.
func (sp *ServiceProvider) Engine() *reconcile.Engine {
	return &reconcile.Engine{
		Vault:          sp.Vault(),
		Labels:         sp.Labels(),
		Editor:         editor.New(sp.exec, sp.cfg.Editor, sp.getenv),
		UI:             sp.console,
		Log:            sp.log,
		VaultScope:     sp.globals.Vault,
		GitRemote:      sp.globals.Remote,
		DefaultEnvFile: sp.cfg.EnvFileOrDefault(),
		DryRun:         sp.globals.DryRun,
	}
}
