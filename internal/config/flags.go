package config

import "flag"

// parseFlags defines the global flags on fs and parses args. Only flags
// given explicitly override earlier layers. If sources is non-nil, it
// tracks the source of each value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("propath", flag.ContinueOnError)
	}

	type binding struct {
		field string
		apply func()
	}
	bindings := map[string]binding{}

	str := func(name, field, usage string, target *string) {
		v := fs.String(name, *target, usage)
		bindings[name] = binding{field, func() { *target = *v }}
	}
	boolean := func(name, field, usage string, target *bool) {
		v := fs.Bool(name, *target, usage)
		bindings[name] = binding{field, func() { *target = *v }}
	}

	// Paths
	str("state", "state_file", "Path to the course snapshot (.json, .jsonc, .yaml, .yml, .cbor)", &cfg.StateFile)
	str("seed", "seed_file", "JSONC template for the first course", &cfg.SeedFile)
	str("log-dir", "log_dir", "Journal directory", &cfg.LogDir)

	// Behaviour
	boolean("journal", "journal", "Write a per-session journal", &cfg.Journal)
	boolean("confirm", "confirm_deletes", "Ask before deleting", &cfg.ConfirmDeletes)
	boolean("watch", "watch", "Reload the UI when the snapshot changes on disk", &cfg.Watch)

	// Logging
	str("log-level", "log_level", "Log level (debug, info, warn, error)", &cfg.LogLevel)
	str("log-format", "log_format", "Log format (text, json, logfmt)", &cfg.LogFormat)
	boolean("log-timestamps", "log_timestamps", "Show timestamps in logs", &cfg.LogTimestamps)
	boolean("log-caller", "log_caller", "Show caller location in logs", &cfg.LogCaller)

	// UI
	str("accent", "ui.accent_color", "Accent color for the terminal UI", &cfg.UI.AccentColor)

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		b, ok := bindings[f.Name]
		if !ok {
			return
		}
		b.apply()
		if sources != nil {
			sources[b.field] = SourceFlag
		}
	})
	return nil
}
