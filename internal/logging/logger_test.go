package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewRespectsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Debug("hidden")
	logger.Error("shown")
	_ = logger.Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger = New(&buf, true)
	logger.Debug("running command", zap.String("cmd", "op item list"))
	_ = logger.Sync()

	assert.Contains(t, buf.String(), "running command")
	assert.Contains(t, buf.String(), "op item list")
}

func TestRedactArgs(t *testing.T) {
	args := []string{"item", "edit", "abc", "notesPlain=A=1", "--vault", "Dev", "--format=json"}
	assert.Equal(t,
		[]string{"item", "edit", "abc", "notesPlain=[REDACTED]", "--vault", "Dev", "--format=json"},
		RedactArgs(args),
	)
}
