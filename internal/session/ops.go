package session

import "github.com/nibzard/propath/internal/roadmap"

// CreateCourse adds a course parsed from raw and selects it.
func (s *Session) CreateCourse(name, raw string) (int, error) {
	i, err := s.state.CreateCourse(name, raw)
	if err != nil {
		return 0, err
	}
	s.logger.Info("course created", "course", i, "name", s.state.Courses[i].Name, "phases", len(s.state.Courses[i].Phases))
	return i, s.Save()
}

// DeleteCourse removes course i.
func (s *Session) DeleteCourse(i int) error {
	if err := s.checkCourse(i); err != nil {
		return err
	}
	name := s.state.Courses[i].Name
	s.state.DeleteCourse(i)
	s.logger.Info("course deleted", "course", i, "name", name)
	return s.Save()
}

// SwitchCourse selects course i. The selection is not persisted.
func (s *Session) SwitchCourse(i int) error {
	if err := s.checkCourse(i); err != nil {
		return err
	}
	s.state.SwitchCourse(i)
	return nil
}

// AddTask appends a task to phase p of the active course.
func (s *Session) AddTask(p int, text string) error {
	if err := s.checkPhase(p); err != nil {
		return err
	}
	if err := s.state.AddTask(p, text); err != nil {
		return err
	}
	s.logger.Info("task added", s.at(p, -1)...)
	return s.Save()
}

// EditTask relabels task t of phase p.
func (s *Session) EditTask(p, t int, text string) error {
	if err := s.checkTask(p, t); err != nil {
		return err
	}
	if err := s.state.EditTask(p, t, text); err != nil {
		return err
	}
	s.logger.Info("task edited", s.at(p, t)...)
	return s.Save()
}

// DeleteTask removes task t of phase p.
func (s *Session) DeleteTask(p, t int) error {
	if err := s.checkTask(p, t); err != nil {
		return err
	}
	fields := s.at(p, t)
	s.state.DeleteTask(p, t)
	s.logger.Info("task deleted", fields...)
	return s.Save()
}

// ToggleTask flips task t of phase p and returns its new completion.
func (s *Session) ToggleTask(p, t int) (bool, error) {
	if err := s.checkTask(p, t); err != nil {
		return false, err
	}
	done := s.state.ToggleTask(p, t)
	s.logger.Info("task toggled", append(s.at(p, t), "done", done)...)
	return done, s.Save()
}

// EditPhaseTitle renames phase p.
func (s *Session) EditPhaseTitle(p int, title string) error {
	if err := s.checkPhase(p); err != nil {
		return err
	}
	if err := s.state.EditPhaseTitle(p, title); err != nil {
		return err
	}
	s.logger.Info("phase renamed", s.at(p, -1)...)
	return s.Save()
}

// DeletePhase removes phase p.
func (s *Session) DeletePhase(p int) error {
	if err := s.checkPhase(p); err != nil {
		return err
	}
	fields := s.at(p, -1)
	s.state.DeletePhase(p)
	s.logger.Info("phase deleted", fields...)
	return s.Save()
}

// TogglePin flips the pinned flag of phase p and returns the new value.
func (s *Session) TogglePin(p int) (bool, error) {
	if err := s.checkPhase(p); err != nil {
		return false, err
	}
	pinned := s.state.TogglePin(p)
	s.logger.Info("phase pin toggled", append(s.at(p, -1), "pinned", pinned)...)
	return pinned, s.Save()
}

func (s *Session) checkCourse(i int) error {
	if !s.state.HasCourse(i) {
		return &IndexError{What: "course", Index: i, Len: len(s.state.Courses)}
	}
	return nil
}

func (s *Session) checkPhase(p int) error {
	c := s.state.ActiveCourse()
	if c == nil {
		return &IndexError{What: "course", Index: roadmap.NoSelection, Len: 0}
	}
	if !s.state.HasPhase(p) {
		return &IndexError{What: "phase", Index: p, Len: len(c.Phases)}
	}
	return nil
}

func (s *Session) checkTask(p, t int) error {
	if err := s.checkPhase(p); err != nil {
		return err
	}
	if !s.state.HasTask(p, t) {
		return &IndexError{What: "task", Index: t, Len: len(s.state.ActiveCourse().Phases[p].Tasks)}
	}
	return nil
}

// at returns journal fields naming a phase and, when t >= 0, a task.
func (s *Session) at(p, t int) []any {
	c := s.state.ActiveCourse()
	fields := []any{"course", s.state.Active(), "phase", p, "title", c.Phases[p].Title}
	if t >= 0 {
		fields = append(fields, "task", t, "id", c.Phases[p].Tasks[t].ID)
	}
	return fields
}
