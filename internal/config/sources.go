package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/propath/internal/statedir"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{statedir.DefaultConfigFile, "." + statedir.DefaultConfigFile} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.propath/propath.toml first, then the OS-specific config
// directory.
func findUserConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		p := statedir.ConfigPath(home)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		p := filepath.Join(cfgDir, "propath", statedir.DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return os.Getenv("APPDATA")
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.StateFile = DefaultStateFile
	cfg.SeedFile = ""
	cfg.LogDir = DefaultLogDir
	cfg.Journal = true
	cfg.ConfirmDeletes = true
	cfg.Watch = true
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
	cfg.UI = UIConfig{AccentColor: DefaultAccentColor, ShowHelp: true}
}
