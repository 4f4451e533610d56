package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRemote, cfg.RemoteOrDefault())
	assert.Equal(t, DefaultEnvFile, cfg.EnvFileOrDefault())
	assert.Empty(t, cfg.Vault)
}

func TestLoadJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // shared team vault
  vault: "Engineering",
  remote: "upstream",
  env_file: ".env.local",
}`), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", cfg.Vault)
	assert.Equal(t, "upstream", cfg.RemoteOrDefault())
	assert.Equal(t, ".env.local", cfg.EnvFileOrDefault())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{default_output: "yaml"}`), 0600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_output")
}

func TestSetGetUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json5")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("vault", "Dev"))
	require.NoError(t, cfg.Set("default_output", "json"))

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	got, err := reloaded.Get("vault")
	require.NoError(t, err)
	assert.Equal(t, "Dev", got)
	assert.Equal(t, "json", reloaded.DefaultOutput)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, reloaded.Unset("vault"))
	got, err = reloaded.Get("vault")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSetRejectsInvalidValue(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)

	require.Error(t, cfg.Set("default_output", "yaml"))
	assert.Empty(t, cfg.DefaultOutput)

	require.Error(t, cfg.Set("remote", "origin/main"))
}

func TestUnknownKey(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.Get("region")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key: region")
	assert.Error(t, cfg.Set("path", "x"))
	assert.Error(t, cfg.Unset("nope"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{
		"vault", "remote", "env_file", "editor", "graphql_endpoint", "default_output", "op_path", "fly_path",
	}, Keys())
}
