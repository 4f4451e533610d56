package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type change struct {
	Key    string
	Change string
}

func TestResolveMode(t *testing.T) {
	assert.Equal(t, ModeRich, ResolveMode(ModeAuto, true))
	assert.Equal(t, ModePlain, ResolveMode(ModeAuto, false))
	assert.Equal(t, ModePlain, ResolveMode("", false))
	assert.Equal(t, ModeJSON, ResolveMode(ModeJSON, true))
}

func TestPlainPrintList(t *testing.T) {
	var out bytes.Buffer
	f := New(ModePlain, &out, &bytes.Buffer{})

	err := f.PrintList([]change{{"A", "added"}, {"B", "deleted"}}, []Column{
		{Name: "KEY", Key: "Key"},
		{Name: "CHANGE", Key: "Change"},
	})
	require.NoError(t, err)
	assert.Equal(t, "KEY\tCHANGE\nA\tadded\nB\tdeleted\n", out.String())
}

func TestPlainPrintListRejectsNonSlice(t *testing.T) {
	f := New(ModePlain, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, f.PrintList(change{}, nil))
}

func TestPlainPrintStruct(t *testing.T) {
	var out bytes.Buffer
	f := New(ModePlain, &out, &bytes.Buffer{})
	require.NoError(t, f.Print(change{Key: "A", Change: "added"}))
	assert.Equal(t, "Key\tA\nChange\tadded\n", out.String())
}

func TestJSONPrintListEnvelope(t *testing.T) {
	var out bytes.Buffer
	f := New(ModeJSON, &out, &bytes.Buffer{})
	require.NoError(t, f.PrintList([]change{{"A", "added"}}, nil))

	var got struct {
		Data  []change `json:"data"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "A", got.Data[0].Key)
}

func TestJSONPrintError(t *testing.T) {
	var errOut bytes.Buffer
	f := New(ModeJSON, &bytes.Buffer{}, &errOut)
	f.PrintError(assert.AnError)
	f.PrintHint("ignored")

	var got map[string]string
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &got))
	assert.Equal(t, assert.AnError.Error(), got["error"])
}
