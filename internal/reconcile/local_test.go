package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semmy-space/opsync/internal/onepassword"
)

func localEngine(t *testing.T, vault *fakeVault, ui *scriptedUI) *Engine {
	t.Helper()
	e := newEngine(vault, nil, ui)
	e.WorkDir = t.TempDir()
	return e
}

func TestPullLocalWritesMissingFileWithoutPrompt(t *testing.T) {
	vault := newFakeVault(newItem("i1", "dev repo:org/app", "A=1\nB=2\n", ".env.local"))
	ui := &scriptedUI{}
	e := localEngine(t, vault, ui)

	out, err := e.PullLocal(context.Background())
	require.NoError(t, err)

	path := filepath.Join(e.WorkDir, ".env.local")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=2\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	assert.Empty(t, ui.prompts)
	assert.Equal(t, StateRecorded, out.State)
	assert.Equal(t, ".env.local", out.File)
	assert.Equal(t, []string{"Successfully updated .env.local from 1Password"}, ui.infos)
}

func TestPullLocalDefaultsToDotEnv(t *testing.T) {
	vault := newFakeVault(newItem("i1", "repo:org/app", "A=1\n", ""))
	e := localEngine(t, vault, &scriptedUI{})

	out, err := e.PullLocal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ".env", out.File)
	assert.FileExists(t, filepath.Join(e.WorkDir, ".env"))
}

func TestPullLocalExistingFile(t *testing.T) {
	tests := []struct {
		name     string
		answer   bool
		wantErr  error
		wantFile string
	}{
		{name: "declined keeps file", answer: false, wantErr: ErrAborted, wantFile: "A=0\n"},
		{name: "accepted overwrites file", answer: true, wantFile: "A=1\nB=2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vault := newFakeVault(newItem("i1", "repo:org/app", "A=1\nB=2\n", ""))
			ui := &scriptedUI{answers: []bool{tt.answer}}
			e := localEngine(t, vault, ui)
			path := filepath.Join(e.WorkDir, ".env")
			require.NoError(t, os.WriteFile(path, []byte("A=0\n"), 0600))

			_, err := e.PullLocal(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, []string{"Change summary\n Added: B\n Modified: A\nProceed?"}, ui.prompts)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, string(data))
		})
	}
}

func TestPullLocalEmptyItem(t *testing.T) {
	vault := newFakeVault(newItem("i1", "repo:org/app", "", ""))
	e := localEngine(t, vault, &scriptedUI{})

	_, err := e.PullLocal(context.Background())
	require.ErrorIs(t, err, onepassword.ErrEmptySecrets)
	assert.NoFileExists(t, filepath.Join(e.WorkDir, ".env"))
}

func TestPullLocalReportsLabelNote(t *testing.T) {
	vault := newFakeVault(newItem("i1", "local-dir:app", "A=1\n", ""))
	ui := &scriptedUI{}
	e := localEngine(t, vault, ui)
	e.Labels = stubLabels{label: "local-dir:app", note: "git is not in the PATH, using the label based on the current directory: 'local-dir:app'"}

	_, err := e.PullLocal(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, ui.infos)
	assert.Contains(t, ui.infos[0], "local-dir:app")
}

func TestPushLocalMissingFile(t *testing.T) {
	vault := newFakeVault(newItem("i1", "repo:org/app", "A=1\n", ""))
	e := localEngine(t, vault, &scriptedUI{})

	out, err := e.PushLocal(context.Background())

	var notFound *EnvFileNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, ".env", notFound.Path)
	assert.EqualError(t, err, "env file '.env' not found")
	assert.Equal(t, StateFailed, out.State)
	assert.Empty(t, vault.edits)
}

func TestPushLocal(t *testing.T) {
	vault := newFakeVault(newItem("i1", "repo:org/app", "A=1\n", ""))
	ui := &scriptedUI{answers: []bool{true}}
	e := localEngine(t, vault, ui)
	require.NoError(t, os.WriteFile(filepath.Join(e.WorkDir, ".env"), []byte("A=1\nB=2\n"), 0600))

	out, err := e.PushLocal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateRecorded, out.State)
	assert.Equal(t, "A=1\nB=2\n", vault.items["i1"].Notes())
	assert.Equal(t, []string{"Change summary\n Added: B\nProceed?"}, ui.prompts)
	assert.Equal(t, []string{"Successfully pushed secrets from .env to 1Password"}, ui.infos)
	assert.Equal(t, 1, vault.editsWithPrefix(onepassword.MetadataSection))
}

func TestCreateLocal(t *testing.T) {
	vault := newFakeVault()
	vault.link = "https://start.1password.com/open/i?a=ACC&v=VLT&i=created-1"
	ui := &scriptedUI{}
	e := localEngine(t, vault, ui)
	e.VaultScope = "Dev"
	require.NoError(t, os.WriteFile(filepath.Join(e.WorkDir, ".env"), []byte("A=1\n"), 0600))

	out, err := e.CreateLocal(context.Background(), ".env")
	require.NoError(t, err)

	require.Len(t, vault.created, 1)
	req := vault.created[0]
	assert.Equal(t, ".env local development repo:org/app", req.Title)
	assert.Equal(t, onepassword.CategorySecureNote, req.Category)
	assert.Equal(t, "Dev", req.Vault)
	assert.Equal(t, []string{
		"notesPlain=A=1\n",
		"file_name[text]=.env",
		"Generated by opsync.last edited at[text]=2024/06/01 12:30:00",
	}, req.Assignments)

	assert.Equal(t, StateRecorded, out.State)
	assert.Equal(t, "created-1", out.ItemID)
	assert.Equal(t, []string{
		"Item '.env local development repo:org/app' created in 1Password!\n",
		"https://start.1password.com/open/i?a=ACC&v=VLT&i=created-1",
		"onepassword://open/i?a=ACC&v=VLT&i=created-1",
	}, ui.infos)
}

func TestCreateLocalRefusesExistingItem(t *testing.T) {
	vault := newFakeVault(newItem("i1", "repo:org/app", "A=1\n", ""))
	e := localEngine(t, vault, &scriptedUI{})
	require.NoError(t, os.WriteFile(filepath.Join(e.WorkDir, ".env"), []byte("A=2\n"), 0600))

	_, err := e.CreateLocal(context.Background(), ".env")

	var exists *ItemExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, "repo:org/app", exists.Label)
	assert.Empty(t, vault.created)
}

func TestCreateLocalDryRun(t *testing.T) {
	vault := newFakeVault()
	ui := &scriptedUI{}
	e := localEngine(t, vault, ui)
	e.DryRun = true
	require.NoError(t, os.WriteFile(filepath.Join(e.WorkDir, "prod.env"), []byte("A=1\nB=2\n"), 0600))

	out, err := e.CreateLocal(context.Background(), "prod.env")
	require.NoError(t, err)
	assert.Equal(t, StateDiffed, out.State)
	assert.Empty(t, vault.created)
	assert.Equal(t, []string{"Would create item 'prod.env local development repo:org/app' with 2 secrets"}, ui.infos)
}
