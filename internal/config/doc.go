// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.propath/propath.toml or OS-specific config directory)
// 3. Project config file (propath.toml or .propath.toml in the working directory)
// 4. Environment variables (PROPATH_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.propath/propath.toml (preferred)
// - Windows: %APPDATA%\propath\propath.toml
// - macOS: ~/Library/Application Support/propath/propath.toml
// - Linux/BSD: $XDG_CONFIG_HOME/propath/propath.toml or ~/.config/propath/propath.toml
package config
