package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the roadmap screen.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	Toggle     key.Binding
	Add        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Pin        key.Binding
	NewCourse  key.Binding
	DelCourse  key.Binding
	NextCourse key.Binding
	PrevCourse key.Binding
	Reload     key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space", "x", "enter"),
		key.WithHelp("space", "toggle"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add task"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Pin: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pin phase"),
	),
	NewCourse: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new course"),
	),
	DelCourse: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete course"),
	),
	NextCourse: key.NewBinding(
		key.WithKeys("]", "tab"),
		key.WithHelp("]/tab", "next course"),
	),
	PrevCourse: key.NewBinding(
		key.WithKeys("[", "shift+tab"),
		key.WithHelp("[", "previous course"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r", "f5"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Edit, k.Delete, k.NewCourse, k.NextCourse, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.Add, k.Edit, k.Delete, k.Pin},
		{k.NewCourse, k.DelCourse, k.NextCourse, k.PrevCourse},
		{k.Reload, k.Help, k.Quit},
	}
}

// modalKeys are the bindings active while a prompt is open.
type modalKeys struct {
	Submit      key.Binding
	SubmitMulti key.Binding
	Cancel      key.Binding
	Yes         key.Binding
	No          key.Binding
}

var defaultModalKeys = modalKeys{
	Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	SubmitMulti: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Yes:         key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "yes")),
	No:          key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
}
