package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// resolvePath turns a configured path into an absolute one. Environment
// variables and a leading ~ are expanded first; a path that is still
// relative is taken from root. Blank paths resolve to "".
func resolvePath(root, p string) string {
	p = expandHome(expandEnv(strings.TrimSpace(p)))
	switch {
	case p == "":
		return ""
	case filepath.IsAbs(p):
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// expandHome replaces a leading ~ path element with the home directory.
// ~user forms are left alone.
func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~")
	if !ok || (rest != "" && !os.IsPathSeparator(rest[0])) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

// expandEnv expands $VAR and ${VAR}, plus %VAR% on Windows.
func expandEnv(p string) string {
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandWindowsEnv(p)
	}
	return p
}

// expandWindowsEnv replaces %VAR% references. Unknown variables are left
// as written.
func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] == '%' {
			if end := strings.IndexByte(p[i+1:], '%'); end > 0 {
				key := p[i+1 : i+1+end]
				if val, ok := os.LookupEnv(key); ok {
					b.WriteString(val)
				} else {
					b.WriteString(p[i : i+end+2])
				}
				i += end + 2
				continue
			}
		}
		b.WriteByte(p[i])
		i++
	}
	return b.String()
}
