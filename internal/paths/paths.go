// Package paths resolves configuration, data, and backup directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names used when no override is active.
const (
	DefaultConfigDirName = ".linkshelf"
	DefaultDataDirName   = ".linkshelf-db"
	DefaultBackupDirName = "backups"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "LINKSHELF_CONFIG_DIR"
	EnvDataDir   = "LINKSHELF_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/linkshelf (fallback ~/.config/linkshelf)
// macOS:   ~/Library/Application Support/linkshelf
// Windows: %APPDATA%/linkshelf
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "linkshelf"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "linkshelf"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "linkshelf"), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/linkshelf (fallback ~/.local/share/linkshelf)
// macOS:   ~/Library/Application Support/linkshelf
// Windows: %APPDATA%/linkshelf
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "linkshelf"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "linkshelf"), nil
	default:
		// macOS and Windows: same as config dir.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "linkshelf"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > LINKSHELF_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config file value > LINKSHELF_DATA_DIR env > $(CWD)/.linkshelf-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveBackupDir returns the backup directory, defaulting to a backups/
// subdirectory of the data directory.
func ResolveBackupDir(configValue, dataDir string) (string, error) {
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return filepath.Join(dataDir, DefaultBackupDirName), nil
}
