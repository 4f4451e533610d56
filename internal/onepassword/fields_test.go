package onepassword

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssignments(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "notesPlain=A=1\nB=2\n", NotesAssignment("A=1\nB=2\n"))
	assert.Equal(t, "file_name[text]=.env.local", FileNameAssignment(".env.local"))
	assert.Equal(t, "Generated by opsync.last imported at[text]=2024/01/02 03:04:05", TimestampAssignment(LastImportedAt, at))
	assert.Equal(t, "fly:my-app", RemoteToken("my-app"))
}

func TestAppLink(t *testing.T) {
	assert.Equal(t, "onepassword://open/i?a=A&v=V&i=I", AppLink("https://start.1password.com/open/i?a=A&v=V&i=I"))
	assert.Equal(t, "https://example.com/x", AppLink("https://example.com/x"))
}
