package roadmap

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

//go:embed seed.jsonc
var defaultSeed []byte

// seedTemplate is the on-disk shape of a seed course. Tasks are plain
// strings; IDs are assigned when the template is instantiated.
type seedTemplate struct {
	Name   string `json:"name"`
	Phases []struct {
		Title  string   `json:"title"`
		Pinned bool     `json:"pinned"`
		Tasks  []string `json:"tasks"`
	} `json:"phases"`
}

// DefaultSeed returns a fresh copy of the built-in example course.
func DefaultSeed() Course {
	c, err := ParseSeed(defaultSeed)
	if err != nil {
		panic("roadmap: built-in seed is invalid: " + err.Error())
	}
	return c
}

// LoadSeed reads a JSONC seed template from path.
func LoadSeed(path string) (Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Course{}, fmt.Errorf("read seed file: %w", err)
	}
	c, err := ParseSeed(data)
	if err != nil {
		return Course{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return c, nil
}

// ParseSeed decodes a JSONC seed template. Comments and trailing commas
// are allowed.
func ParseSeed(data []byte) (Course, error) {
	var tmpl seedTemplate
	if err := json.Unmarshal(jsonc.ToJSON(data), &tmpl); err != nil {
		return Course{}, err
	}
	name := strings.TrimSpace(tmpl.Name)
	if name == "" {
		return Course{}, fmt.Errorf("name: %w", ErrEmptyInput)
	}
	c := Course{Name: name, Phases: make([]Phase, 0, len(tmpl.Phases))}
	for _, tp := range tmpl.Phases {
		p := Phase{
			Title:     strings.TrimSpace(tp.Title),
			Pinned:    tp.Pinned,
			Tasks:     make([]Task, 0, len(tp.Tasks)),
			Completed: map[string]bool{},
		}
		for _, text := range tp.Tasks {
			if text = strings.TrimSpace(text); text != "" {
				p.Tasks = append(p.Tasks, NewTask(text))
			}
		}
		c.Phases = append(c.Phases, p)
	}
	return c, nil
}
