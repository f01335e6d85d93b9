package util

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	AppName     = "roster"
	ConfigFile  = "config.toml"
	SessionFile = "session.toml"
)

// ConfigDir returns the directory holding roster's files.
// Follows XDG Base Directory spec on Linux, platform conventions elsewhere.
// ROSTER_CONFIG_DIR overrides it (used by tests).
func ConfigDir() string {
	if dir := os.Getenv("ROSTER_CONFIG_DIR"); dir != "" {
		return dir
	}

	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", AppName)
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), AppName)
	default: // Linux and others - follow XDG
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", AppName)
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFile)
}

// SessionPath returns the path to the stored login session.
func SessionPath() string {
	return filepath.Join(ConfigDir(), SessionFile)
}
