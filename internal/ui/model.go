package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/propath/internal/config"
	"github.com/nibzard/propath/internal/prompt"
	"github.com/nibzard/propath/internal/roadmap"
	"github.com/nibzard/propath/internal/session"
)

// row is one selectable line of the roadmap: a phase header (task < 0)
// or a task. Indices are storage indices.
type row struct {
	phase int
	task  int
}

type model struct {
	cfg    *config.Config
	sess   *session.Session
	logger *log.Logger
	keys   KeyMap
	mkeys  modalKeys
	styles styles
	help   help.Model

	view   roadmap.View
	rows   []row
	cursor int

	prompts  *prompt.Tracker
	modalID  string
	input    textinput.Model
	area     textarea.Model
	showHelp bool

	status    string
	statusErr bool

	watch  *watcher
	width  int
	height int
}

func newModel(cfg *config.Config, sess *session.Session, logger *log.Logger) *model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 48

	ta := textarea.New()
	ta.Placeholder = "# Phase title\nFirst task\nSecond task"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(12)

	m := &model{
		cfg:     cfg,
		sess:    sess,
		logger:  logger,
		keys:    DefaultKeyMap,
		mkeys:   defaultModalKeys,
		styles:  newStyles(cfg.UI.AccentColor),
		help:    help.New(),
		prompts: prompt.NewTracker(),
		input:   ti,
		area:    ta,
	}
	m.refresh()
	return m
}

func (m *model) Init() tea.Cmd {
	if m.watch != nil {
		return m.watch.wait()
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if w := msg.Width - 12; w > 20 {
			m.input.Width = min(w, 72)
			m.area.SetWidth(min(w, 80))
		}
		return m, nil
	case fileChangedMsg:
		m.reload(false)
		if m.watch == nil {
			return m, nil
		}
		return m, m.watch.wait()
	case watchErrMsg:
		if msg.err != nil {
			m.logger.Warn("watch stopped", "err", msg.err)
			m.setStatus("Watching stopped: "+msg.err.Error(), true)
		}
		return m, nil
	case tea.KeyMsg:
		if req, ok := m.prompts.Current(); ok {
			return m, m.updateModal(req, msg)
		}
		return m, m.updateList(msg)
	}
	return m, nil
}

func (m *model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(0, len(m.rows)-1)
	case key.Matches(msg, m.keys.NextCourse):
		m.switchCourse(1)
	case key.Matches(msg, m.keys.PrevCourse):
		m.switchCourse(-1)
	case key.Matches(msg, m.keys.Reload):
		m.reload(true)
	case key.Matches(msg, m.keys.NewCourse):
		return m.openNewCourse()
	case key.Matches(msg, m.keys.DelCourse):
		return m.openDeleteCourse()
	default:
		return m.updateRow(msg)
	}
	return nil
}

// updateRow handles the keys that act on the row under the cursor.
func (m *model) updateRow(msg tea.KeyMsg) tea.Cmd {
	r, ok := m.current()
	if !ok {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if r.task >= 0 {
			done, err := m.sess.ToggleTask(r.phase, r.task)
			m.after(err, map[bool]string{true: "Marked done", false: "Marked not done"}[done])
		}
	case key.Matches(msg, m.keys.Pin):
		pinned, err := m.sess.TogglePin(r.phase)
		m.after(err, map[bool]string{true: "Pinned phase", false: "Unpinned phase"}[pinned])
		m.follow(row{phase: r.phase, task: -1})
	case key.Matches(msg, m.keys.Add):
		a := m.anchorFor(row{phase: r.phase, task: -1})
		return m.open(prompt.KindText, "New task", "", func(resp prompt.Response) error {
			r, ok := m.resolve(a)
			if !ok {
				return nil
			}
			m.after(m.sess.AddTask(r.phase, resp.Value), "Added task")
			return nil
		})
	case key.Matches(msg, m.keys.Edit):
		return m.openEdit(r)
	case key.Matches(msg, m.keys.Delete):
		return m.openDelete(r)
	}
	return nil
}

func (m *model) openEdit(r row) tea.Cmd {
	c := m.sess.State().ActiveCourse()
	phase := c.Phases[r.phase]
	a := m.anchorFor(r)
	if r.task < 0 {
		return m.open(prompt.KindText, "Rename phase", phase.Title, func(resp prompt.Response) error {
			if r, ok := m.resolve(a); ok {
				m.after(m.sess.EditPhaseTitle(r.phase, resp.Value), "Renamed phase")
			}
			return nil
		})
	}
	return m.open(prompt.KindText, "Edit task", phase.Tasks[r.task].Text, func(resp prompt.Response) error {
		if r, ok := m.resolve(a); ok {
			m.after(m.sess.EditTask(r.phase, r.task, resp.Value), "Updated task")
		}
		return nil
	})
}

func (m *model) openDelete(r row) tea.Cmd {
	c := m.sess.State().ActiveCourse()
	a := m.anchorFor(r)
	do := func() {
		r, ok := m.resolve(a)
		if !ok {
			return
		}
		if r.task < 0 {
			m.after(m.sess.DeletePhase(r.phase), "Deleted phase")
			return
		}
		m.after(m.sess.DeleteTask(r.phase, r.task), "Deleted task")
	}
	if !m.cfg.ConfirmDeletes {
		do()
		return nil
	}
	var question string
	if r.task < 0 {
		question = fmt.Sprintf("Delete this entire phase?\n\n  %s", c.Phases[r.phase].Title)
	} else {
		question = fmt.Sprintf("Delete this task?\n\n  %s", c.Phases[r.phase].Tasks[r.task].Text)
	}
	return m.open(prompt.KindConfirm, question, "", func(resp prompt.Response) error {
		if resp.Confirmed {
			do()
		}
		return nil
	})
}

func (m *model) openNewCourse() tea.Cmd {
	return m.open(prompt.KindText, "New course name", "", func(name prompt.Response) error {
		if strings.TrimSpace(name.Value) == "" {
			m.setStatus("Course name is empty", true)
			return nil
		}
		m.open(prompt.KindMultiline, "Course outline for "+strings.TrimSpace(name.Value), "", func(text prompt.Response) error {
			_, err := m.sess.CreateCourse(name.Value, text.Value)
			m.after(err, "Created course")
			if err == nil || isPersist(err) {
				m.cursor = 0
			}
			return nil
		})
		return nil
	})
}

func (m *model) openDeleteCourse() tea.Cmd {
	i := m.sess.State().Active()
	if i == roadmap.NoSelection {
		return nil
	}
	name := m.sess.State().Courses[i].Name
	if !m.cfg.ConfirmDeletes {
		m.after(m.sess.DeleteCourse(i), "Deleted course")
		m.cursor = 0
		return nil
	}
	return m.open(prompt.KindConfirm, fmt.Sprintf("Delete %q?", name), "", func(resp prompt.Response) error {
		if !resp.Confirmed {
			return nil
		}
		at, ok := m.resolveCourse(i, name)
		if !ok {
			return nil
		}
		m.after(m.sess.DeleteCourse(at), "Deleted course")
		m.cursor = 0
		return nil
	})
}

// anchor names a row by identity rather than position, so a prompt
// answered after the file was reloaded acts on the same phase or task.
type anchor struct {
	course string
	phase  int
	title  string
	task   string
}

func (m *model) anchorFor(r row) anchor {
	c := m.sess.State().ActiveCourse()
	a := anchor{course: c.Name, phase: r.phase, title: c.Phases[r.phase].Title}
	if r.task >= 0 {
		a.task = c.Phases[r.phase].Tasks[r.task].ID
	}
	return a
}

// resolve finds the anchored row in the current state. A task is found by
// ID in any phase; a phase by title, preferring its old position. When
// the row is gone the status says so and ok is false.
func (m *model) resolve(a anchor) (row, bool) {
	c := m.sess.State().ActiveCourse()
	if c != nil && c.Name == a.course {
		if a.task != "" {
			for p := range c.Phases {
				for t, task := range c.Phases[p].Tasks {
					if task.ID == a.task {
						return row{phase: p, task: t}, true
					}
				}
			}
		} else if p, ok := findPhase(c, a.phase, a.title); ok {
			return row{phase: p, task: -1}, true
		}
	}
	m.refresh()
	m.setStatus("Changed on disk; no change made", true)
	return row{}, false
}

func findPhase(c *roadmap.Course, at int, title string) (int, bool) {
	if at >= 0 && at < len(c.Phases) && c.Phases[at].Title == title {
		return at, true
	}
	found := -1
	for p := range c.Phases {
		if c.Phases[p].Title != title {
			continue
		}
		if found >= 0 {
			return 0, false
		}
		found = p
	}
	return found, found >= 0
}

// resolveCourse finds the course named name, preferring index at.
func (m *model) resolveCourse(at int, name string) (int, bool) {
	courses := m.sess.State().Courses
	if at >= 0 && at < len(courses) && courses[at].Name == name {
		return at, true
	}
	for i := range courses {
		if courses[i].Name == name {
			return i, true
		}
	}
	m.refresh()
	m.setStatus("Changed on disk; no change made", true)
	return 0, false
}

// open registers a prompt and focuses its input when it is the one shown.
func (m *model) open(kind prompt.Kind, title, def string, cont prompt.Continuation) tea.Cmd {
	m.prompts.Open(kind, title, def, cont)
	return m.syncModal()
}

// syncModal prepares the input widgets for the prompt now on screen.
func (m *model) syncModal() tea.Cmd {
	req, ok := m.prompts.Current()
	if !ok {
		m.modalID = ""
		m.input.Blur()
		m.area.Blur()
		return nil
	}
	if req.ID == m.modalID {
		return nil
	}
	m.modalID = req.ID
	switch req.Kind {
	case prompt.KindText:
		m.area.Blur()
		m.input.SetValue(req.Default)
		m.input.CursorEnd()
		return m.input.Focus()
	case prompt.KindMultiline:
		m.input.Blur()
		m.area.SetValue(req.Default)
		return m.area.Focus()
	}
	m.input.Blur()
	m.area.Blur()
	return nil
}

func (m *model) updateModal(req prompt.Request, msg tea.KeyMsg) tea.Cmd {
	resp := prompt.Response{ID: req.ID}
	answered := false

	switch req.Kind {
	case prompt.KindConfirm:
		switch {
		case key.Matches(msg, m.mkeys.Yes):
			resp.Confirmed, answered = true, true
		case key.Matches(msg, m.mkeys.No):
			answered = true
		}
	case prompt.KindText:
		switch {
		case key.Matches(msg, m.mkeys.Cancel):
			resp.Canceled, answered = true, true
		case key.Matches(msg, m.mkeys.Submit):
			resp.Value, resp.Confirmed, answered = m.input.Value(), true, true
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return cmd
		}
	case prompt.KindMultiline:
		switch {
		case key.Matches(msg, m.mkeys.Cancel):
			resp.Canceled, answered = true, true
		case key.Matches(msg, m.mkeys.SubmitMulti):
			resp.Value, resp.Confirmed, answered = m.area.Value(), true, true
		default:
			var cmd tea.Cmd
			m.area, cmd = m.area.Update(msg)
			return cmd
		}
	}

	if !answered {
		return nil
	}
	if resp.Canceled {
		m.setStatus("Cancelled", false)
	}
	if _, err := m.prompts.Resolve(resp); err != nil {
		m.setStatus(err.Error(), true)
	}
	return m.syncModal()
}

// after refreshes the view following an operation and reports its result.
func (m *model) after(err error, ok string) {
	m.refresh()
	switch {
	case err == nil:
		m.setStatus(ok, false)
	case errors.Is(err, roadmap.ErrEmptyInput):
		m.setStatus("Nothing entered; no change made", true)
	case isPersist(err):
		m.setStatus(ok+", but "+err.Error(), true)
	default:
		m.logger.Warn("operation failed", "err", err)
		m.setStatus(err.Error(), true)
	}
}

func isPersist(err error) bool {
	var pe *session.PersistError
	return errors.As(err, &pe)
}

func (m *model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *model) reload(manual bool) {
	changed, err := m.sess.Reload()
	switch {
	case err != nil:
		m.logger.Warn("reload failed", "err", err)
		m.setStatus("Reload failed: "+err.Error(), true)
	case changed:
		m.refresh()
		m.setStatus("Reloaded from disk", false)
	case manual:
		m.setStatus("Already up to date", false)
	}
}

func (m *model) switchCourse(delta int) {
	n := len(m.sess.State().Courses)
	if n < 2 {
		return
	}
	next := (m.sess.State().Active() + delta + n) % n
	if err := m.sess.SwitchCourse(next); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.cursor = 0
	m.refresh()
	m.setStatus("", false)
}

// refresh re-projects the state and keeps the cursor on the same row when
// that row still exists.
func (m *model) refresh() {
	prev, hadPrev := m.current()
	m.view = m.sess.View()
	m.rows = m.rows[:0]
	for _, p := range m.view.Phases {
		m.rows = append(m.rows, row{phase: p.Index, task: -1})
		for _, t := range p.Tasks {
			m.rows = append(m.rows, row{phase: p.Index, task: t.Index})
		}
	}
	if hadPrev {
		m.follow(prev)
	}
	m.clamp()
}

// follow moves the cursor to r if it is on screen.
func (m *model) follow(r row) {
	for i, other := range m.rows {
		if other == r {
			m.cursor = i
			return
		}
	}
}

func (m *model) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *model) move(delta int) {
	m.cursor += delta
	m.clamp()
}

func (m *model) clamp() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
