package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.propath/propath.toml or OS-specific config dir)
// 3. Project config file (propath.toml or .propath.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, nil)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	return load(fs, args, sources)
}

func load(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{Config: &Config{}, Sources: sources}
	cfg := cws.Config

	// 1. Set defaults
	setDefaults(cfg)

	// 2. User config file
	if path := findUserConfigFile(); path != "" {
		unknown, err := loadConfigFile(cfg, path, sources, SourceUserFile)
		if err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
		cws.Unknown = append(cws.Unknown, unknown...)
	}

	// 3. Project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		unknown, err := loadConfigFile(cfg, path, sources, SourceProjFile)
		if err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
		cws.Unknown = append(cws.Unknown, unknown...)
	}

	// 4. Environment
	loadFromEnv(cfg, sources)

	// 5. CLI flags override everything
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cws, nil
}

// loadConfigFile decodes a TOML file over cfg. Keys absent from the file
// keep their current value. It returns the keys the file sets that
// propath does not know.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) ([]string, error) {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if sources != nil {
		for _, field := range configFields() {
			if md.IsDefined(strings.Split(field, ".")...) {
				sources[field] = source
			}
		}
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, fmt.Sprintf("%s: %s", path, key.String()))
	}
	return unknown, nil
}

// finalizeConfig computes derived values and validates paths.
func finalizeConfig(cfg *Config) error {
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.StateFile = resolvePath(cfg.ProjectRoot, cfg.StateFile)
	cfg.SeedFile = resolvePath(cfg.ProjectRoot, cfg.SeedFile)
	cfg.LogDir = resolvePath(cfg.ProjectRoot, cfg.LogDir)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if cfg.StateFile == "" {
		return fmt.Errorf("state_file is empty")
	}
	return nil
}
