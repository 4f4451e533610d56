package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the per-application XDG directories.
const AppName = "opsync"

// ConfigDir returns the XDG config directory, typically ~/.config/opsync.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ConfigPath returns the full path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}

// DataDir returns the XDG data directory holding the encrypted credential store.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
