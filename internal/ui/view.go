package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/propath/internal/prompt"
	"github.com/nibzard/propath/internal/roadmap"
)

const barWidth = 30

func (m *model) View() string {
	if req, ok := m.prompts.Current(); ok {
		return m.viewModal(req)
	}

	var main strings.Builder
	m.writeHeader(&main)
	m.writeRoadmap(&main)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), main.String())

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	m.writeStatus(&b)
	if m.cfg.UI.ShowHelp || m.showHelp {
		b.WriteString(m.help.View(m.keys))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Courses"))
	b.WriteString("\n\n")
	if len(m.view.Courses) == 0 {
		b.WriteString(m.styles.dim.Render("No courses yet"))
		b.WriteString("\n")
	}
	for _, c := range m.view.Courses {
		name := truncate(c.Name, sidebarWidth-4)
		if c.Active {
			b.WriteString(m.styles.active.Render("▸ " + name))
		} else {
			b.WriteString(m.styles.course.Render("  " + name))
		}
		b.WriteString("\n")
	}
	return m.styles.sidebar.Render(b.String())
}

func (m *model) writeHeader(b *strings.Builder) {
	b.WriteString("  ")
	switch m.view.Status {
	case roadmap.StatusNoSelection:
		b.WriteString(m.styles.title.Render("No Course Selected"))
	default:
		b.WriteString(m.styles.title.Render(m.view.CourseName))
	}
	b.WriteString("\n  ")
	b.WriteString(m.progressBar(m.view.Percent))
	fmt.Fprintf(b, " %d%% Complete\n\n", m.view.Percent)
}

func (m *model) progressBar(percent int) string {
	filled := barWidth * max(0, min(percent, 100)) / 100
	return m.styles.barFull.Render(strings.Repeat("█", filled)) +
		m.styles.barEmpty.Render(strings.Repeat("░", barWidth-filled))
}

func (m *model) writeRoadmap(b *strings.Builder) {
	switch m.view.Status {
	case roadmap.StatusNoSelection:
		b.WriteString(m.styles.dim.Render("  Press n to create a course."))
		b.WriteString("\n")
		return
	case roadmap.StatusEmpty:
		b.WriteString(m.styles.dim.Render("  This course has no phases."))
		b.WriteString("\n")
		return
	}

	lines := make([]string, 0, len(m.rows))
	cursorLine := 0
	for _, p := range m.view.Phases {
		lines = append(lines, m.renderPhase(p))
		if m.isCursor(row{phase: p.Index, task: -1}) {
			cursorLine = len(lines) - 1
		}
		if len(p.Tasks) == 0 {
			lines = append(lines, m.styles.dim.Render("      (no tasks)"))
		}
		for _, t := range p.Tasks {
			lines = append(lines, m.renderTask(p.Index, t))
			if m.isCursor(row{phase: p.Index, task: t.Index}) {
				cursorLine = len(lines) - 1
			}
		}
	}

	for _, line := range window(lines, cursorLine, m.roadmapHeight()) {
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *model) renderPhase(p roadmap.PhaseView) string {
	title := p.Title
	style := m.styles.phase
	if p.Pinned {
		title = "📌 " + title
		style = m.styles.pinned
	}
	line := fmt.Sprintf("%s %s", style.Render(title), m.styles.dim.Render(fmt.Sprintf("(%d/%d)", p.Done, p.Total)))
	return m.gutter(row{phase: p.Index, task: -1}) + line
}

func (m *model) renderTask(phase int, t roadmap.TaskView) string {
	box := "[ ]"
	text := m.styles.task.Render(t.Text)
	if t.Done {
		box = "[x]"
		text = m.styles.done.Render(t.Text)
	}
	return m.gutter(row{phase: phase, task: t.Index}) + "    " + box + " " + text
}

func (m *model) gutter(r row) string {
	if m.isCursor(r) {
		return m.styles.cursor.Render("> ")
	}
	return "  "
}

func (m *model) isCursor(r row) bool {
	cur, ok := m.current()
	return ok && cur == r
}

// roadmapHeight is the number of roadmap lines that fit on screen, or 0
// when the size is unknown.
func (m *model) roadmapHeight() int {
	if m.height == 0 {
		return 0
	}
	reserved := 6
	if m.cfg.UI.ShowHelp || m.showHelp {
		reserved += 2
		if m.showHelp {
			reserved += 4
		}
	}
	return max(3, m.height-reserved)
}

// window returns at most height lines of lines around index at. A
// height of 0 returns every line.
func window(lines []string, at, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := at - height/2
	start = max(0, min(start, len(lines)-height))
	return lines[start : start+height]
}

func (m *model) writeStatus(b *strings.Builder) {
	if m.status == "" {
		b.WriteString("\n")
		return
	}
	if m.statusErr {
		b.WriteString(m.styles.warning.Render(m.status))
	} else {
		b.WriteString(m.styles.status.Render(m.status))
	}
	b.WriteString("\n")
}

func (m *model) viewModal(req prompt.Request) string {
	var b strings.Builder
	b.WriteString(m.styles.modalHead.Render(req.Title))
	b.WriteString("\n")

	var hint string
	switch req.Kind {
	case prompt.KindText:
		b.WriteString(m.input.View())
		hint = "enter save • esc cancel"
	case prompt.KindMultiline:
		b.WriteString(m.area.View())
		hint = "\"# Title\" starts a phase, other lines are tasks • ctrl+s save • esc cancel"
	case prompt.KindConfirm:
		hint = "y yes • n no"
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.dim.Render(hint))

	box := m.styles.modal.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box + "\n"
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
