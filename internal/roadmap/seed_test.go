package roadmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeedHasFreshIDs(t *testing.T) {
	a := DefaultSeed()
	b := DefaultSeed()
	require.Len(t, a.Phases, 5)
	assert.NotEqual(t, a.Phases[0].Tasks[0].ID, b.Phases[0].Tasks[0].ID)
	assert.Equal(t, "Kadane's Algorithm", a.Phases[1].Tasks[2].Text)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.jsonc")
	data := `{
  // a comment
  "name": "Go Path",
  "phases": [
    {"title": " Basics ", "pinned": true, "tasks": ["Syntax", "  ", "Types"]},
  ],
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, "Go Path", c.Name)
	require.Len(t, c.Phases, 1)
	assert.Equal(t, "Basics", c.Phases[0].Title)
	assert.True(t, c.Phases[0].Pinned)
	assert.Equal(t, []string{"Syntax", "Types"}, texts(c.Phases[0].Tasks))
}

func TestLoadSeedErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSeed(filepath.Join(dir, "missing.jsonc"))
	assert.Error(t, err)

	noName := filepath.Join(dir, "noname.jsonc")
	require.NoError(t, os.WriteFile(noName, []byte(`{"phases": []}`), 0644))
	_, err = LoadSeed(noName)
	assert.ErrorIs(t, err, ErrEmptyInput)

	broken := filepath.Join(dir, "broken.jsonc")
	require.NoError(t, os.WriteFile(broken, []byte(`{"name": `), 0644))
	_, err = LoadSeed(broken)
	assert.Error(t, err)
}
