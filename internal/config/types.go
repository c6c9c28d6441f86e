package config

import (
	"sort"

	"github.com/nibzard/propath/internal/statedir"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
	// Unknown lists keys found in config files that propath ignores.
	Unknown []string
}

// Keys returns the tracked keys in sorted order.
func (cws *ConfigWithSources) Keys() []string {
	keys := make([]string, 0, len(cws.Sources))
	for k := range cws.Sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default values.
var (
	DefaultStateFile = statedir.StatePath("~")
	DefaultLogDir    = statedir.LogsPath("~")
)

const (
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultAccentColor = "#7D56F4"
)

// Config holds the full configuration for propath.
type Config struct {
	// Paths
	StateFile string `toml:"state_file"`
	SeedFile  string `toml:"seed_file"`
	LogDir    string `toml:"log_dir"`

	// Behaviour
	Journal        bool `toml:"journal"`
	ConfirmDeletes bool `toml:"confirm_deletes"`
	Watch          bool `toml:"watch"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	UI UIConfig `toml:"ui"`

	// Derived
	ProjectRoot string `toml:"-"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	AccentColor string `toml:"accent_color"`
	ShowHelp    bool   `toml:"show_help"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"state_file",
		"seed_file",
		"log_dir",
		"journal",
		"confirm_deletes",
		"watch",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"ui.accent_color",
		"ui.show_help",
	}
}

// Value returns the printable value of a tracked key.
func (c *Config) Value(key string) string {
	switch key {
	case "state_file":
		return c.StateFile
	case "seed_file":
		return c.SeedFile
	case "log_dir":
		return c.LogDir
	case "journal":
		return formatBool(c.Journal)
	case "confirm_deletes":
		return formatBool(c.ConfirmDeletes)
	case "watch":
		return formatBool(c.Watch)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return formatBool(c.LogTimestamps)
	case "log_caller":
		return formatBool(c.LogCaller)
	case "ui.accent_color":
		return c.UI.AccentColor
	case "ui.show_help":
		return formatBool(c.UI.ShowHelp)
	}
	return ""
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
