package roadmap

import (
	"math"
	"sort"
)

// ViewStatus tells the shell which screen to draw.
type ViewStatus int

const (
	// StatusReady means the active course has at least one phase.
	StatusReady ViewStatus = iota
	// StatusEmpty means the active course has no phases.
	StatusEmpty
	// StatusNoSelection means there are no courses at all.
	StatusNoSelection
)

func (s ViewStatus) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusEmpty:
		return "empty"
	case StatusNoSelection:
		return "no-selection"
	default:
		return "unknown"
	}
}

// TaskView is one task as displayed.
type TaskView struct {
	Index int
	ID    string
	Text  string
	Done  bool
}

// PhaseView is one phase as displayed. Index is the phase's position in
// storage and is what mutation calls expect.
type PhaseView struct {
	Index  int
	Title  string
	Pinned bool
	Tasks  []TaskView
	Done   int
	Total  int
}

// CourseEntry is a line in the course list.
type CourseEntry struct {
	Index  int
	Name   string
	Active bool
}

// View is the render model derived from the state.
type View struct {
	Status     ViewStatus
	CourseName string
	Phases     []PhaseView
	Percent    int
	Done       int
	Total      int
	Courses    []CourseEntry
}

// Project derives the view of a single course. Pinned phases come first;
// the sort is stable so relative storage order is kept within each group.
func Project(c *Course) View {
	v := View{Status: StatusReady, CourseName: c.Name, Phases: make([]PhaseView, 0, len(c.Phases))}
	if len(c.Phases) == 0 {
		v.Status = StatusEmpty
	}

	for i := range c.Phases {
		p := &c.Phases[i]
		pv := PhaseView{
			Index:  i,
			Title:  p.Title,
			Pinned: p.Pinned,
			Tasks:  make([]TaskView, len(p.Tasks)),
			Done:   p.DoneCount(),
			Total:  len(p.Tasks),
		}
		for t, task := range p.Tasks {
			pv.Tasks[t] = TaskView{Index: t, ID: task.ID, Text: task.Text, Done: p.Completed[task.ID]}
		}
		v.Done += pv.Done
		v.Total += pv.Total
		v.Phases = append(v.Phases, pv)
	}

	sort.SliceStable(v.Phases, func(i, j int) bool {
		return v.Phases[i].Pinned && !v.Phases[j].Pinned
	})

	v.Percent = Percent(v.Done, v.Total)
	return v
}

// View projects the active course and attaches the course list.
func (s *State) View() View {
	var v View
	if c := s.ActiveCourse(); c != nil {
		v = Project(c)
	} else {
		v = View{Status: StatusNoSelection}
	}
	active := s.Active()
	v.Courses = make([]CourseEntry, len(s.Courses))
	for i, c := range s.Courses {
		v.Courses[i] = CourseEntry{Index: i, Name: c.Name, Active: i == active}
	}
	return v
}

// Percent returns round(100*done/total), or 0 when total is 0.
func Percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
