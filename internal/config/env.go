package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from PROPATH_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			set(field)
		}
	}
	boolean := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = boolFromString(v)
			set(field)
		}
	}

	str("PROPATH_STATE", "state_file", &cfg.StateFile)
	str("PROPATH_SEED", "seed_file", &cfg.SeedFile)
	str("PROPATH_LOG_DIR", "log_dir", &cfg.LogDir)
	boolean("PROPATH_JOURNAL", "journal", &cfg.Journal)
	boolean("PROPATH_CONFIRM_DELETES", "confirm_deletes", &cfg.ConfirmDeletes)
	boolean("PROPATH_WATCH", "watch", &cfg.Watch)

	// Logging configuration
	str("PROPATH_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("PROPATH_LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("PROPATH_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("PROPATH_LOG_CALLER", "log_caller", &cfg.LogCaller)

	str("PROPATH_ACCENT_COLOR", "ui.accent_color", &cfg.UI.AccentColor)
	boolean("PROPATH_SHOW_HELP", "ui.show_help", &cfg.UI.ShowHelp)
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
