package roadmap

import (
	"errors"

	"github.com/google/uuid"
)

// NoSelection is the active index when there are no courses.
const NoSelection = -1

// ErrEmptyInput is returned when a name, title, or task text is empty
// after trimming. The state is left unchanged.
var ErrEmptyInput = errors.New("input is empty")

// Task is a single checklist item.
type Task struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewTask returns a task with a fresh ID.
func NewTask(text string) Task {
	return Task{ID: uuid.NewString(), Text: text}
}

// Phase is an ordered group of tasks inside a course.
type Phase struct {
	Title     string          `json:"title"`
	Pinned    bool            `json:"pinned"`
	Tasks     []Task          `json:"tasks"`
	Completed map[string]bool `json:"completed"`
}

// IsDone reports whether task i is marked done.
func (p *Phase) IsDone(i int) bool {
	return p.Completed[p.Tasks[i].ID]
}

// DoneCount returns the number of tasks marked done. Completion entries
// that name no task are not counted.
func (p *Phase) DoneCount() int {
	n := 0
	for _, t := range p.Tasks {
		if p.Completed[t.ID] {
			n++
		}
	}
	return n
}

// Course is a named roadmap.
type Course struct {
	Name   string  `json:"name"`
	Phases []Phase `json:"phases"`
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	out := Course{Name: c.Name, Phases: make([]Phase, len(c.Phases))}
	for i, p := range c.Phases {
		np := Phase{
			Title:     p.Title,
			Pinned:    p.Pinned,
			Tasks:     make([]Task, len(p.Tasks)),
			Completed: make(map[string]bool, len(p.Completed)),
		}
		copy(np.Tasks, p.Tasks)
		for k, v := range p.Completed {
			np.Completed[k] = v
		}
		out.Phases[i] = np
	}
	return out
}

// State is the root of the model: every course plus the active cursor.
// It is not safe for concurrent use; one shell owns one State.
type State struct {
	Courses []Course
	active  int
}

// Initialize builds the working state from persisted courses. When there
// are none, the state is seeded with a copy of seed. The active course
// is always the first one.
func Initialize(persisted []Course, seed Course) *State {
	s := &State{}
	if len(persisted) == 0 {
		s.Courses = []Course{seed.Clone()}
	} else {
		s.Courses = persisted
	}
	for i := range s.Courses {
		normalizeCourse(&s.Courses[i])
	}
	s.active = 0
	return s
}

// Active returns the active course index, or NoSelection.
func (s *State) Active() int {
	if len(s.Courses) == 0 {
		return NoSelection
	}
	return s.active
}

// ActiveCourse returns the active course, or nil when there is none.
func (s *State) ActiveCourse() *Course {
	i := s.Active()
	if i == NoSelection {
		return nil
	}
	return &s.Courses[i]
}

// HasCourse reports whether i is a valid course index.
func (s *State) HasCourse(i int) bool {
	return i >= 0 && i < len(s.Courses)
}

// HasPhase reports whether p is a valid phase index of the active course.
func (s *State) HasPhase(p int) bool {
	c := s.ActiveCourse()
	return c != nil && p >= 0 && p < len(c.Phases)
}

// HasTask reports whether t is a valid task index of phase p in the
// active course.
func (s *State) HasTask(p, t int) bool {
	if !s.HasPhase(p) {
		return false
	}
	return t >= 0 && t < len(s.ActiveCourse().Phases[p].Tasks)
}

func normalizeCourse(c *Course) {
	if c.Phases == nil {
		c.Phases = []Phase{}
	}
	for i := range c.Phases {
		p := &c.Phases[i]
		if p.Tasks == nil {
			p.Tasks = []Task{}
		}
		if p.Completed == nil {
			p.Completed = map[string]bool{}
		}
	}
}
