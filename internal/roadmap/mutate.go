package roadmap

import (
	"fmt"
	"slices"
	"strings"
)

// CreateCourse parses raw into phases, appends a new course, and makes it
// the active course. It returns the new course's index.
func (s *State) CreateCourse(name, raw string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("course name: %w", ErrEmptyInput)
	}
	if strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("course text: %w", ErrEmptyInput)
	}
	s.Courses = append(s.Courses, Course{Name: name, Phases: ParseCourseText(raw)})
	s.active = len(s.Courses) - 1
	return s.active, nil
}

// DeleteCourse removes course i. When the removed course sat at or before
// the active one, the cursor moves back by one (not below zero).
func (s *State) DeleteCourse(i int) {
	s.Courses = slices.Delete(s.Courses, i, i+1)
	if i <= s.active {
		s.active = max(0, s.active-1)
	}
	if len(s.Courses) == 0 {
		s.active = 0
	}
}

// SwitchCourse selects course i.
func (s *State) SwitchCourse(i int) {
	_ = s.Courses[i]
	s.active = i
}

// AddTask appends a task to phase p of the active course.
func (s *State) AddTask(p int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("task text: %w", ErrEmptyInput)
	}
	phase := s.phase(p)
	phase.Tasks = append(phase.Tasks, NewTask(text))
	return nil
}

// EditTask replaces the text of task t in phase p. The task keeps its ID
// and completion flag.
func (s *State) EditTask(p, t int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("task text: %w", ErrEmptyInput)
	}
	s.phase(p).Tasks[t].Text = text
	return nil
}

// DeleteTask removes task t from phase p along with its completion entry.
func (s *State) DeleteTask(p, t int) {
	phase := s.phase(p)
	delete(phase.Completed, phase.Tasks[t].ID)
	phase.Tasks = slices.Delete(phase.Tasks, t, t+1)
}

// ToggleTask flips the done flag of task t in phase p and returns the new
// value.
func (s *State) ToggleTask(p, t int) bool {
	phase := s.phase(p)
	if phase.Completed == nil {
		phase.Completed = map[string]bool{}
	}
	id := phase.Tasks[t].ID
	phase.Completed[id] = !phase.Completed[id]
	return phase.Completed[id]
}

// EditPhaseTitle replaces the title of phase p.
func (s *State) EditPhaseTitle(p int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("phase title: %w", ErrEmptyInput)
	}
	s.phase(p).Title = title
	return nil
}

// DeletePhase removes phase p from the active course.
func (s *State) DeletePhase(p int) {
	c := s.mustActive()
	c.Phases = slices.Delete(c.Phases, p, p+1)
}

// TogglePin flips the pinned flag of phase p and returns the new value.
func (s *State) TogglePin(p int) bool {
	phase := s.phase(p)
	phase.Pinned = !phase.Pinned
	return phase.Pinned
}

func (s *State) mustActive() *Course {
	c := s.ActiveCourse()
	if c == nil {
		panic("roadmap: no active course")
	}
	return c
}

func (s *State) phase(p int) *Phase {
	return &s.mustActive().Phases[p]
}
