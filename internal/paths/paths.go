// Package paths resolves configuration and data directory locations for
// the taskvault CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative default directory names.
const (
	DefaultDataDirName = "data"
	DBFileName         = "tasks.db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TASKVAULT_CONFIG_DIR"
	EnvDataDir   = "TASKVAULT_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/taskvault (fallback ~/.config/taskvault)
// macOS:   ~/Library/Application Support/taskvault
// Windows: %APPDATA%/taskvault
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "taskvault"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "taskvault"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "taskvault"), nil
	}
}

// ResolveConfigDir returns the configuration directory, by precedence:
// the --config-dir flag, the TASKVAULT_CONFIG_DIR environment variable,
// then the platform default.
func ResolveConfigDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return env, nil
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory, by precedence: the
// --data-dir flag, the config file's data_dir, the TASKVAULT_DATA_DIR
// environment variable, then ./data.
func ResolveDataDir(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" {
		return configValue
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return env
	}
	return DefaultDataDirName
}

// DBPath returns the store file location inside the resolved data
// directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFileName)
}
