package envblock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *SecretSet
	}{
		{
			name:     "simple pairs",
			input:    "A=1\nB=2",
			expected: FromPairs("A", "1", "B", "2"),
		},
		{
			name:     "comments and blank lines",
			input:    "# header\n\nA=1\n   # indented comment\n\nB=2\n",
			expected: FromPairs("A", "1", "B", "2"),
		},
		{
			name:     "empty value is not null",
			input:    "EMPTY=\nSPACED=   \n",
			expected: FromPairs("EMPTY", "", "SPACED", ""),
		},
		{
			name:     "export prefix and spaces around equals",
			input:    "export A = one\nexport\tB=two\n",
			expected: FromPairs("A", "one", "B", "two"),
		},
		{
			name:     "inline comment on unquoted value",
			input:    "A=value # note\nB=value#kept\n",
			expected: FromPairs("A", "value", "B", "value#kept"),
		},
		{
			name:     "single quoted value is literal",
			input:    `A='hello \n world # not a comment'` + "\n",
			expected: FromPairs("A", `hello \n world # not a comment`),
		},
		{
			name:     "double quoted escapes",
			input:    `A="line1\nline2\t\"q\" \\ end"` + "\n",
			expected: FromPairs("A", "line1\nline2\t\"q\" \\ end"),
		},
		{
			name:     "multiline double quoted value",
			input:    "CERT=\"-----BEGIN-----\nabc\n-----END-----\"\nNEXT=1\n",
			expected: FromPairs("CERT", "-----BEGIN-----\nabc\n-----END-----", "NEXT", "1"),
		},
		{
			name:     "quoted value followed by comment",
			input:    `A="x" # trailing` + "\n",
			expected: FromPairs("A", "x"),
		},
		{
			name:     "quoted key",
			input:    "'my key'=v\n",
			expected: FromPairs("my key", "v"),
		},
		{
			name:     "windows line endings",
			input:    "A=1\r\nB=2\r\n",
			expected: FromPairs("A", "1", "B", "2"),
		},
		{
			name:     "duplicate key keeps first position and last value",
			input:    "A=1\nB=2\nA=3\n",
			expected: FromPairs("A", "3", "B", "2"),
		},
		{
			name:     "null key redeemed by later assignment",
			input:    "A\nA=1\n",
			expected: FromPairs("A", "1"),
		},
		{
			name:     "empty input",
			input:    "",
			expected: NewSecretSet(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.Keys(), got.Keys())
			assert.Equal(t, tt.expected.Map(), got.Map())
		})
	}
}

func TestDecodeReportsAllNullKeys(t *testing.T) {
	_, err := Decode("A=1\nMISSING_ONE\nB=2\nMISSING_TWO # comment\nC=3\n")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, []string{"MISSING_ONE", "MISSING_TWO"}, parseErr.NullKeys)
	assert.Empty(t, parseErr.Lines)
	assert.Equal(t, "failed to parse env block, values for the following keys are null: MISSING_ONE, MISSING_TWO", err.Error())
}

func TestDecodeReportsBadLines(t *testing.T) {
	_, err := Decode("A=1\n=orphan\nB=\"unterminated\nNULL\n")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, []int{2, 3}, parseErr.Lines)
	assert.Equal(t, []string{"NULL"}, parseErr.NullKeys)
	assert.Contains(t, err.Error(), "could not parse line(s) 2, 3")
}

func TestDecodeNullThenAssignedStillNullWhenLast(t *testing.T) {
	_, err := Decode("A=1\nA\n")

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, []string{"A"}, parseErr.NullKeys)
}

func TestEncodePreservesOrder(t *testing.T) {
	s := FromPairs("ZED", "1", "ALPHA", "2", "MID", "")
	assert.Equal(t, "ZED=1\nALPHA=2\nMID=\n", Encode(s))
}

func TestEncodeQuotesWhenNeeded(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "plain", value: "abc123", expected: "K=abc123\n"},
		{name: "newline", value: "a\nb", expected: "K=\"a\\nb\"\n"},
		{name: "hash", value: "a #b", expected: "K=\"a #b\"\n"},
		{name: "leading space", value: " a", expected: "K=\" a\"\n"},
		{name: "double quote", value: `say "hi"`, expected: "K=\"say \\\"hi\\\"\"\n"},
		{name: "backslash", value: `C:\path`, expected: "K=\"C:\\\\path\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Encode(FromPairs("K", tt.value)))
		})
	}
}

func TestEncodeQuotedKeys(t *testing.T) {
	assert.Equal(t, `'\'QUOTED'=v`+"\n", Encode(FromPairs("'QUOTED", "v")))
	assert.Equal(t, `'my key'=v`+"\n", Encode(FromPairs("my key", "v")))

	decoded, err := Decode(`'it\'s key'=x` + "\n")
	require.NoError(t, err)
	assert.Equal(t, FromPairs("it's key", "x"), decoded)
}

func TestRoundTrip(t *testing.T) {
	sets := []*SecretSet{
		NewSecretSet(),
		FromPairs("A", "1", "B", "2", "C", "3"),
		FromPairs("EMPTY", "", "SPACES", "  padded  ", "TAB", "a\tb"),
		FromPairs("PEM", "-----BEGIN KEY-----\nMIIB\n-----END KEY-----\n"),
		FromPairs("QUOTES", `it's "quoted"`, "HASH", "#not-a-comment", "BS", `\n literal`),
		FromPairs("URL", "postgres://user:p@ss@host:5432/db?sslmode=require"),
		FromPairs("UNICODE", "héllo wörld ✓", "CRLF", "a\r\nb"),
		FromPairs("my key", "v", "export", "x", "=", "weird"),
		FromPairs("'QUOTED", "v", "it's key", "x", `a\b c`, "y"),
		FromPairs("BINARY", "a\xffb#", "RAW", "\xfe\xff"),
	}

	for _, s := range sets {
		encoded := Encode(s)
		decoded, err := Decode(encoded)
		require.NoError(t, err, "encoded:\n%s", encoded)
		assert.True(t, s.Equal(decoded), "encoded:\n%s", encoded)
		assert.Equal(t, s.Keys(), decoded.Keys())
	}
}
