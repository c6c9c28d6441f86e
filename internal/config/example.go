package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# propath configuration file
# Values can be overridden by PROPATH_* environment variables or CLI flags

# Course snapshot. The extension picks the format:
# .json/.jsonc, .yaml/.yml or .cbor
state_file = "~/.propath/courses.json"

# JSONC template used when no snapshot exists yet (built-in when empty)
# seed_file = "~/.propath/seed.jsonc"

# Journal directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.propath/logs"

# Write a per-session journal for the terminal UI
journal = true

# Ask before deleting courses, phases and tasks
confirm_deletes = true

# Reload the terminal UI when the snapshot changes on disk
watch = true

# Logging: debug, info, warn, error / text, json, logfmt
log_level = "warn"
log_format = "text"
log_timestamps = false
log_caller = false

[ui]
accent_color = "#7D56F4"
show_help = true
`
}
