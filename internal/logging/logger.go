// Package logging builds the zap logger used for --debug output and helpers that keep
// secret values out of it.
package logging

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Redacted replaces secret values in log output.
const Redacted = "[REDACTED]"

// New creates a console logger writing to w. Without debug only errors are emitted.
func New(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.ErrorLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// RedactArgs hides the value side of key=value command arguments.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if k, _, ok := strings.Cut(arg, "="); ok && !strings.HasPrefix(arg, "-") {
			out[i] = k + "=" + Redacted
			continue
		}
		out[i] = arg
	}
	return out
}
