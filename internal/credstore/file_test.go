package credstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "correct horse")
	require.NoError(t, err)
	assert.False(t, store.MachineKey)

	_, err = store.Get(FlyAPIToken)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, store.Set(FlyAPIToken, "fo1_secret"))
	require.NoError(t, store.Set("other", "x"))

	got, err := store.Get(FlyAPIToken)
	require.NoError(t, err)
	assert.Equal(t, "fo1_secret", got)

	keys, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{FlyAPIToken, "other"}, keys)

	require.NoError(t, store.Delete(FlyAPIToken))
	assert.True(t, errors.Is(store.Delete(FlyAPIToken), ErrNotFound))
}

func TestFileStoreIsEncrypted(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "pw")
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "plain-text-marker"))

	data, err := os.ReadFile(filepath.Join(dir, "credentials.enc"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "plain-text-marker")

	info, err := os.Stat(filepath.Join(dir, "credentials.enc"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreWrongPassword(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "one")
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	other, err := NewFileStore(dir, "two")
	require.NoError(t, err)
	_, err = other.Get("k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt credentials")
}

func TestFileStoreMachineKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)
	assert.True(t, store.MachineKey)
}

func TestFileFallbackWarnsOnce(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	_, err := fileFallback(dir, &buf, "no keyring here")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no keyring here")

	buf.Reset()
	_, err = fileFallback(dir, &buf, "no keyring here")
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
