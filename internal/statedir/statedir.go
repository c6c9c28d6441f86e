// Package statedir names the files kept under the .propath directory.
package statedir

import "path/filepath"

const (
	// Dir is the name of the propath state directory.
	Dir = ".propath"

	// DefaultStateFile is the snapshot file name (inside .propath).
	DefaultStateFile = "courses.json"

	// DefaultConfigFile is the config file name (inside .propath or the
	// project root).
	DefaultConfigFile = "propath.toml"

	// DefaultSeedFile is the seed template name `propath doctor` looks for
	// (inside .propath).
	DefaultSeedFile = "seed.jsonc"

	// LogsDir is the journal directory name (inside .propath).
	LogsDir = "logs"
)

// DirPath returns the .propath directory under base.
func DirPath(base string) string {
	if base == "" || base == "." {
		return Dir
	}
	return filepath.Join(base, Dir)
}

// StatePath returns the default snapshot path under base.
func StatePath(base string) string {
	return filepath.Join(DirPath(base), DefaultStateFile)
}

// ConfigPath returns the config file path under base.
func ConfigPath(base string) string {
	return filepath.Join(DirPath(base), DefaultConfigFile)
}

// SeedPath returns the seed template path under base.
func SeedPath(base string) string {
	return filepath.Join(DirPath(base), DefaultSeedFile)
}

// LogsPath returns the journal directory under base.
func LogsPath(base string) string {
	return filepath.Join(DirPath(base), LogsDir)
}
