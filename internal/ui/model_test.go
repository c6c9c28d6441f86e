package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/propath/internal/config"
	"github.com/nibzard/propath/internal/logging"
	"github.com/nibzard/propath/internal/roadmap"
	"github.com/nibzard/propath/internal/session"
	"github.com/nibzard/propath/internal/store"
)

func testModel(t *testing.T, confirm bool) *model {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "courses.json"))
	require.NoError(t, err)
	seed := roadmap.Course{
		Name: "Seed",
		Phases: []roadmap.Phase{
			{Title: "One", Tasks: []roadmap.Task{roadmap.NewTask("a"), roadmap.NewTask("b")}},
			{Title: "Two", Tasks: []roadmap.Task{roadmap.NewTask("c")}},
		},
	}
	sess, err := session.Open(st, seed)
	require.NoError(t, err)
	cfg := &config.Config{ConfirmDeletes: confirm, UI: config.UIConfig{AccentColor: "#7D56F4", ShowHelp: true}}
	return newModel(cfg, sess, logging.Discard())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func phaseTasks(m *model, p int) []string {
	var out []string
	for _, t := range m.sess.State().ActiveCourse().Phases[p].Tasks {
		out = append(out, t.Text)
	}
	return out
}

func TestRowsFollowProjection(t *testing.T) {
	m := testModel(t, true)
	assert.Equal(t, []row{{0, -1}, {0, 0}, {0, 1}, {1, -1}, {1, 0}}, m.rows)

	// Pin phase Two from its header; it moves to the top and the cursor
	// follows it.
	press(m, runes("G"), runes("k"), runes("p"))
	assert.Equal(t, []row{{1, -1}, {1, 0}, {0, -1}, {0, 0}, {0, 1}}, m.rows)
	cur, ok := m.current()
	require.True(t, ok)
	assert.Equal(t, row{1, -1}, cur)
}

func TestToggleTask(t *testing.T) {
	m := testModel(t, true)
	press(m, runes("j"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.True(t, m.sess.State().ActiveCourse().Phases[0].IsDone(0))
	assert.Equal(t, 33, m.view.Percent)
	assert.Equal(t, "Marked done", m.status)
	assert.Contains(t, m.View(), "33% Complete")
}

func TestAddTaskThroughPrompt(t *testing.T) {
	m := testModel(t, true)
	press(m, runes("a"))
	req, ok := m.prompts.Current()
	require.True(t, ok)
	assert.Equal(t, "New task", req.Title)
	assert.Contains(t, m.View(), "New task")

	press(m, runes("Graphs"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, m.prompts.Pending())
	assert.Equal(t, []string{"a", "b", "Graphs"}, phaseTasks(m, 0))
}

func TestEmptyInputIsRejected(t *testing.T) {
	m := testModel(t, true)
	press(m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"a", "b"}, phaseTasks(m, 0))
	assert.True(t, m.statusErr)
}

func TestEditPrefillsAndCancel(t *testing.T) {
	m := testModel(t, true)
	press(m, runes("j"), runes("e"))
	assert.Equal(t, "a", m.input.Value())

	press(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, 0, m.prompts.Pending())
	assert.Equal(t, "Cancelled", m.status)

	press(m, runes("e"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("z"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"z", "b"}, phaseTasks(m, 0))
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m := testModel(t, true)
	press(m, runes("j"), runes("d"))
	req, ok := m.prompts.Current()
	require.True(t, ok)
	assert.Contains(t, req.Title, "Delete this task?")

	press(m, runes("n"))
	assert.Equal(t, []string{"a", "b"}, phaseTasks(m, 0))

	press(m, runes("d"), runes("y"))
	assert.Equal(t, []string{"b"}, phaseTasks(m, 0))
}

// rewrite replaces the snapshot file as another process would.
func rewrite(t *testing.T, m *model, edit func(c *roadmap.Course)) {
	t.Helper()
	c := m.sess.State().ActiveCourse().Clone()
	edit(&c)
	other, err := store.New(m.sess.Store().Path())
	require.NoError(t, err)
	require.NoError(t, other.Save(&store.Snapshot{Courses: []roadmap.Course{c}}))
}

func TestPendingDeleteFollowsTaskAcrossReload(t *testing.T) {
	m := testModel(t, true)
	press(m, runes("j"), runes("j"), runes("d"))
	require.Equal(t, 1, m.prompts.Pending())

	rewrite(t, m, func(c *roadmap.Course) {
		c.Phases[0].Tasks = append(c.Phases[0].Tasks[1:], roadmap.NewTask("z"))
	})
	press(m, fileChangedMsg{})
	assert.Equal(t, []string{"b", "z"}, phaseTasks(m, 0))
	assert.Equal(t, 1, m.prompts.Pending())

	press(m, runes("y"))
	assert.Equal(t, []string{"z"}, phaseTasks(m, 0))
	assert.Equal(t, "Deleted task", m.status)
}

func TestPendingEditOfRemovedTaskIsDropped(t *testing.T) {
	m := testModel(t, true)
	press(m, runes("j"), runes("e"))

	rewrite(t, m, func(c *roadmap.Course) {
		c.Phases[0].Tasks = []roadmap.Task{roadmap.NewTask("x")}
	})
	press(m, fileChangedMsg{})

	press(m, runes("!"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, m.prompts.Pending())
	assert.Equal(t, []string{"x"}, phaseTasks(m, 0))
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "Changed on disk")
}

func TestPendingPhasePromptsFollowTitle(t *testing.T) {
	m := testModel(t, true)
	press(m, runes("G"), runes("k"), runes("e"))
	require.Equal(t, "Two", m.input.Value())

	rewrite(t, m, func(c *roadmap.Course) {
		c.Phases = append([]roadmap.Phase{{Title: "Zero"}}, c.Phases...)
	})
	press(m, fileChangedMsg{})
	press(m, runes("!"), tea.KeyMsg{Type: tea.KeyEnter})

	c := m.sess.State().ActiveCourse()
	require.Len(t, c.Phases, 3)
	assert.Equal(t, "Zero", c.Phases[0].Title)
	assert.Equal(t, "One", c.Phases[1].Title)
	assert.Equal(t, "Two!", c.Phases[2].Title)

	press(m, runes("g"), runes("j"), runes("a"))
	rewrite(t, m, func(c *roadmap.Course) {
		c.Phases = c.Phases[1:]
	})
	press(m, fileChangedMsg{}, runes("new"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"a", "b", "new"}, phaseTasks(m, 0))
}

func TestPendingCourseDeleteFollowsName(t *testing.T) {
	m := testModel(t, true)
	_, err := m.sess.CreateCourse("Second", "# P\nt")
	require.NoError(t, err)
	m.refresh()
	press(m, runes("D"))
	require.Equal(t, 1, m.prompts.Pending())

	courses := m.sess.State().Courses
	other, err := store.New(m.sess.Store().Path())
	require.NoError(t, err)
	require.NoError(t, other.Save(&store.Snapshot{Courses: []roadmap.Course{
		{Name: "New"}, courses[0].Clone(), courses[1].Clone(),
	}}))
	press(m, fileChangedMsg{}, runes("y"))

	var names []string
	for _, c := range m.sess.State().Courses {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"New", "Seed"}, names)
}

func TestDeleteWithoutConfirmation(t *testing.T) {
	m := testModel(t, false)
	press(m, runes("d"))
	assert.Len(t, m.sess.State().ActiveCourse().Phases, 1)
	assert.Equal(t, "Two", m.sess.State().ActiveCourse().Phases[0].Title)
}

func TestNewCourseChainsTwoPrompts(t *testing.T) {
	m := testModel(t, true)
	press(m, runes("n"), runes("Go"), tea.KeyMsg{Type: tea.KeyEnter})

	req, ok := m.prompts.Current()
	require.True(t, ok)
	assert.Equal(t, "Course outline for Go", req.Title)

	press(m,
		runes("# Basics"), tea.KeyMsg{Type: tea.KeyEnter},
		runes("Types"), tea.KeyMsg{Type: tea.KeyEnter},
		runes("Slices"),
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)
	assert.Equal(t, 0, m.prompts.Pending())
	assert.Equal(t, "Go", m.view.CourseName)
	assert.Equal(t, []string{"Types", "Slices"}, phaseTasks(m, 0))
	assert.Len(t, m.view.Courses, 2)
}

func TestSwitchAndDeleteCourses(t *testing.T) {
	m := testModel(t, false)
	_, err := m.sess.CreateCourse("Second", "# P\nt")
	require.NoError(t, err)
	m.refresh()
	assert.Equal(t, "Second", m.view.CourseName)

	press(m, runes("]"))
	assert.Equal(t, "Seed", m.view.CourseName)
	press(m, runes("["))
	assert.Equal(t, "Second", m.view.CourseName)

	press(m, runes("D"))
	assert.Equal(t, "Seed", m.view.CourseName)
	press(m, runes("D"))
	assert.Equal(t, roadmap.StatusNoSelection, m.view.Status)
	assert.Contains(t, m.View(), "No Course Selected")
	assert.Empty(t, m.rows)

	// Row keys are ignored with nothing selected.
	press(m, runes("a"), runes("d"), runes("p"))
	assert.Equal(t, 0, m.prompts.Pending())
}

func TestQuit(t *testing.T) {
	m := testModel(t, true)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindow(t *testing.T) {
	lines := strings.Split("0 1 2 3 4 5 6 7 8 9", " ")
	assert.Equal(t, lines, window(lines, 5, 0))
	assert.Equal(t, []string{"0", "1", "2"}, window(lines, 0, 3))
	assert.Equal(t, []string{"4", "5", "6"}, window(lines, 5, 3))
	assert.Equal(t, []string{"7", "8", "9"}, window(lines, 9, 3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
