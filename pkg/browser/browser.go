// Package browser hands URLs to the platform's default handler.
package browser

import (
	"context"
	"fmt"
	"runtime"

	"github.com/semmy-space/opsync/internal/command"
)

// Command returns the program and arguments that open url on goos.
func Command(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("opening links is not supported on %s", goos)
	}
}

// Open opens url, an https or onepassword:// link, with the default handler.
func Open(ctx context.Context, exec command.Executor, url string) error {
	name, args, err := Command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	if _, _, err := exec.Execute(ctx, name, args...); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
