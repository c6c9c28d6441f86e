// Package session owns the working roadmap state for one process and
// persists it after every change.
package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/propath/internal/logging"
	"github.com/nibzard/propath/internal/roadmap"
	"github.com/nibzard/propath/internal/store"
)

// ErrOutOfRange is wrapped by every IndexError.
var ErrOutOfRange = errors.New("index out of range")

// IndexError reports a course, phase or task index that does not exist.
type IndexError struct {
	What  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("no %s %d (have %d)", e.What, e.Index, e.Len)
}

// Unwrap returns ErrOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrOutOfRange
}

// PersistError reports a failed save. The change it followed is kept in
// memory.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("changes not saved to %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistError) Unwrap() error {
	return e.Err
}

// Session applies operations to a roadmap.State and saves the snapshot
// after each one. It is not safe for concurrent use.
type Session struct {
	state  *roadmap.State
	store  *store.Store
	logger *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for operation records and save warnings.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the snapshot from st and builds the working state. When no
// usable snapshot exists the state holds a copy of seed; nothing is
// written until the first change.
func Open(st *store.Store, seed roadmap.Course, opts ...Option) (*Session, error) {
	s := &Session{store: st, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", st.Path(), err)
	}
	var courses []roadmap.Course
	if snap != nil {
		courses = snap.Courses
	}
	if len(courses) == 0 {
		s.logger.Info("seeding state", "path", st.Path(), "course", seed.Name)
	}
	s.state = roadmap.Initialize(courses, seed)
	return s, nil
}

// ResolveSeed returns the seed course from path, or the built-in one when
// path is empty or cannot be used.
func ResolveSeed(path string, logger *log.Logger) roadmap.Course {
	if path == "" {
		return roadmap.DefaultSeed()
	}
	seed, err := roadmap.LoadSeed(path)
	if err != nil {
		if logger != nil {
			logger.Warn("using built-in seed", "path", path, "err", err)
		}
		return roadmap.DefaultSeed()
	}
	return seed
}

// State returns the working state. Callers must not mutate it directly.
func (s *Session) State() *roadmap.State {
	return s.state
}

// Store returns the backing store.
func (s *Session) Store() *store.Store {
	return s.store
}

// View projects the working state.
func (s *Session) View() roadmap.View {
	return s.state.View()
}

// Save writes the whole state.
func (s *Session) Save() error {
	if err := s.store.Save(store.NewSnapshot(s.state)); err != nil {
		s.logger.Warn("save failed", "path", s.store.Path(), "err", err)
		return &PersistError{Path: s.store.Path(), Err: err}
	}
	return nil
}

// Reload re-reads the snapshot if the file changed since the last read or
// write. It reports whether the state was replaced. A file that no longer
// holds a usable snapshot leaves the state alone.
func (s *Session) Reload() (bool, error) {
	changed, err := s.store.Changed()
	if err != nil || !changed {
		return false, err
	}
	snap, err := s.store.Load()
	if err != nil {
		return false, err
	}
	if snap == nil {
		s.logger.Warn("snapshot changed on disk but is not usable; keeping current state", "path", s.store.Path())
		return false, nil
	}

	active := s.state.Active()
	if len(snap.Courses) == 0 {
		s.state = &roadmap.State{Courses: []roadmap.Course{}}
	} else {
		s.state = roadmap.Initialize(snap.Courses, roadmap.Course{})
	}
	if s.state.HasCourse(active) {
		s.state.SwitchCourse(active)
	}
	s.logger.Info("reloaded snapshot", "path", s.store.Path(), "courses", len(s.state.Courses))
	return true, nil
}
