package roadmap

import "strings"

// ParseCourseText parses the line-based course format into phases.
func ParseCourseText(raw string) []Phase {
	phases := []Phase{}
	var current *Phase
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			phases = append(phases, Phase{
				Title:     strings.TrimSpace(strings.Replace(line, "#", "", 1)),
				Tasks:     []Task{},
				Completed: map[string]bool{},
			})
			current = &phases[len(phases)-1]
			continue
		}
		if current == nil {
			continue
		}
		current.Tasks = append(current.Tasks, NewTask(line))
	}
	return phases
}
