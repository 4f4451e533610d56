package credstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const warningMarker = ".file-store-warning-shown"

// NewStore picks the OS keyring, or the encrypted file store under dataDir when the
// keyring is unusable (WSL, headless Linux, keyring errors). The fallback notice is
// written to warn once per data directory.
func NewStore(dataDir string, warn io.Writer) (Store, error) {
	if IsWSL() || IsHeadless() {
		return fileFallback(dataDir, warn, "Detected WSL/headless environment, using encrypted file storage")
	}

	store, err := NewKeyringStore(dataDir)
	if err != nil {
		return fileFallback(dataDir, warn, fmt.Sprintf("Keyring unavailable (%v), falling back to encrypted file", err))
	}
	return store, nil
}

func fileFallback(dataDir string, warn io.Writer, reason string) (Store, error) {
	store, err := NewFileStore(dataDir, os.Getenv(PasswordEnv))
	if err != nil {
		return nil, err
	}

	marker := filepath.Join(dataDir, warningMarker)
	if _, err := os.Stat(marker); err == nil {
		return store, nil
	}

	fmt.Fprintln(warn, reason)
	if store.MachineKey {
		fmt.Fprintf(warn, "Using a machine-specific encryption key. Set %s for a stronger one.\n", PasswordEnv)
	}
	_ = os.WriteFile(marker, []byte("1"), 0600)
	return store, nil
}

// IsWSL reports whether the process runs under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	v := strings.ToLower(string(data))
	return strings.Contains(v, "microsoft") || strings.Contains(v, "wsl")
}

// IsHeadless reports a Linux session without X11 or Wayland.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
