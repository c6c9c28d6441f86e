package statedir

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dir empty", DirPath(""), ".propath"},
		{"dir dot", DirPath("."), ".propath"},
		{"dir base", DirPath("/home/me"), filepath.Join("/home/me", ".propath")},
		{"state", StatePath("/home/me"), filepath.Join("/home/me", ".propath", "courses.json")},
		{"config", ConfigPath(""), filepath.Join(".propath", "propath.toml")},
		{"seed", SeedPath("/x"), filepath.Join("/x", ".propath", "seed.jsonc")},
		{"logs", LogsPath("/x"), filepath.Join("/x", ".propath", "logs")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
