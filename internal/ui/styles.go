package ui

import "github.com/charmbracelet/lipgloss"

const sidebarWidth = 26

type styles struct {
	title     lipgloss.Style
	sidebar   lipgloss.Style
	course    lipgloss.Style
	active    lipgloss.Style
	phase     lipgloss.Style
	pinned    lipgloss.Style
	task      lipgloss.Style
	done      lipgloss.Style
	cursor    lipgloss.Style
	dim       lipgloss.Style
	barFull   lipgloss.Style
	barEmpty  lipgloss.Style
	status    lipgloss.Style
	warning   lipgloss.Style
	modal     lipgloss.Style
	modalHead lipgloss.Style
}

func newStyles(accent string) styles {
	a := lipgloss.Color(accent)
	dim := lipgloss.Color("241")
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(a),
		sidebar:   lipgloss.NewStyle().Width(sidebarWidth).PaddingRight(2).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(dim),
		course:    lipgloss.NewStyle(),
		active:    lipgloss.NewStyle().Bold(true).Foreground(a),
		phase:     lipgloss.NewStyle().Bold(true),
		pinned:    lipgloss.NewStyle().Bold(true).Foreground(a),
		task:      lipgloss.NewStyle(),
		done:      lipgloss.NewStyle().Foreground(dim).Strikethrough(true),
		cursor:    lipgloss.NewStyle().Foreground(a).Bold(true),
		dim:       lipgloss.NewStyle().Foreground(dim),
		barFull:   lipgloss.NewStyle().Foreground(a),
		barEmpty:  lipgloss.NewStyle().Foreground(dim),
		status:    lipgloss.NewStyle().Foreground(dim),
		warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(a).Padding(1, 2),
		modalHead: lipgloss.NewStyle().Bold(true).Foreground(a).MarginBottom(1),
	}
}
