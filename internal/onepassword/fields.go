package onepassword

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Item layout shared by every item opsync manages.
const (
	CategorySecureNote = "Secure Note"
	NotesFieldID       = "notesPlain"
	FileNameLabel      = "file_name"

	// MetadataSection holds the timestamps opsync records on an item.
	MetadataSection = "Generated by opsync"
	LastImportedAt  = "last imported at"
	LastEditedAt    = "last edited at"

	TimestampLayout = "2006/01/02 15:04:05"
)

// ErrEmptySecrets is returned when an item's notes hold no secrets.
var ErrEmptySecrets = errors.New("empty secrets, aborting")

// NotesAssignment sets the secret block.
func NotesAssignment(text string) string {
	return NotesFieldID + "=" + text
}

// FileNameAssignment records the env file an item belongs to.
func FileNameAssignment(path string) string {
	return FileNameLabel + "[text]=" + path
}

// TimestampAssignment records t in a text field of the metadata section.
func TimestampAssignment(field string, t time.Time) string {
	return fmt.Sprintf("%s.%s[text]=%s", MetadataSection, field, t.Format(TimestampLayout))
}

// RemoteToken is the title token of the item backing a Fly app.
func RemoteToken(app string) string {
	return "fly:" + app
}

const (
	shareLinkPrefix = "https://start.1password.com/"
	appLinkPrefix   = "onepassword://"
)

// AppLink rewrites a share link so it opens the 1Password desktop app.
func AppLink(shareLink string) string {
	return strings.Replace(shareLink, shareLinkPrefix, appLinkPrefix, 1)
}
