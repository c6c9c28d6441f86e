// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/propath/internal/logging"
	"github.com/nibzard/propath/internal/store"
)

// cli runs the CLI against an isolated home and snapshot, capturing its
// output.
type cli struct {
	t     *testing.T
	state string
	home  string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "PROPATH_") {
			t.Setenv(name, "")
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return &cli{t: t, state: filepath.Join(work, "courses.json"), home: home}
}

// run executes args with input on stdin and returns stdout and stderr.
func (c *cli) run(input string, args ...string) (string, string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	oldIn, oldOut, oldErr := stdin, stdout, stderr
	stdin, stdout, stderr = strings.NewReader(input), &out, &errOut
	defer func() { stdin, stdout, stderr = oldIn, oldOut, oldErr }()

	full := append([]string{"-state", c.state, "-log-dir", filepath.Join(c.home, "logs")}, args...)
	err := Run(context.Background(), full)
	return out.String(), errOut.String(), err
}

func (c *cli) mustRun(input string, args ...string) string {
	c.t.Helper()
	out, errOut, err := c.run(input, args...)
	if err != nil {
		c.t.Fatalf("Run(%v) error = %v\nstderr: %s", args, err, errOut)
	}
	return out
}

func (c *cli) snapshot() *store.Snapshot {
	c.t.Helper()
	st, err := store.New(c.state)
	if err != nil {
		c.t.Fatal(err)
	}
	snap, err := st.Load()
	if err != nil || snap == nil {
		c.t.Fatalf("Load() = %v, %v", snap, err)
	}
	return snap
}

const outline = "# Basics\nVariables\nLoops\n\n# Advanced\nGenerics\n"

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		wantOut string
	}{
		{name: "help flag", args: []string{"--help"}, wantOut: "Usage:"},
		{name: "short help flag", args: []string{"-h"}, wantOut: "Commands:"},
		{name: "help command", args: []string{"help"}, wantOut: "Global Options:"},
		{name: "version flag", args: []string{"--version"}, wantOut: "propath dev"},
		{name: "version command", args: []string{"version"}, wantOut: "propath dev"},
		{name: "unknown command", args: []string{"unknown-command"}, wantErr: "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			out, _, err := c.run("", tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, out)
			}
		})
	}
}

func TestShowIsDefaultOffTerminal(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("")
	if !strings.Contains(out, "0% complete") {
		t.Errorf("default command output = %q, want the seeded course", out)
	}
	if _, err := os.Stat(c.state); !os.IsNotExist(err) {
		t.Errorf("show wrote the snapshot (stat err = %v)", err)
	}
}

func TestNewFromStdinAndShow(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun(outline, "new", "-name", "Go")
	if !strings.Contains(out, "Created course 1: Go (2 phases)") {
		t.Fatalf("new output = %q", out)
	}

	out = c.mustRun("", "show", "-course", "1")
	for _, want := range []string{"Go\n", "0% complete (0/3)", "0. Basics (0/2)", "   1. [ ] Loops", "1. Advanced (0/1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out = c.mustRun("", "courses")
	if !strings.Contains(out, "1. Go  0% (0/3)") {
		t.Errorf("courses output = %q", out)
	}
}

func TestNewFromFile(t *testing.T) {
	c := newCLI(t)
	file := filepath.Join(t.TempDir(), "go.txt")
	if err := os.WriteFile(file, []byte(outline), 0644); err != nil {
		t.Fatal(err)
	}
	c.mustRun("", "new", "-file", file, "-name", "Go")

	snap := c.snapshot()
	if got := snap.Courses[len(snap.Courses)-1].Name; got != "Go" {
		t.Errorf("last course = %q, want Go", got)
	}
}

func TestNewRejectsEmptyInput(t *testing.T) {
	c := newCLI(t)
	if _, _, err := c.run("", "new"); err == nil || !strings.Contains(err.Error(), "-name") {
		t.Errorf("new without -name error = %v", err)
	}
	if _, _, err := c.run("  \n", "new", "-name", "Go"); err == nil {
		t.Error("new with an empty outline succeeded")
	}
}

func TestTaskCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun(outline, "new", "-name", "Go")
	course := []string{"-course", "1"}

	c.mustRun("", append([]string{"add", "-phase", "1"}, append(course, "Channels", "and", "select")...)...)
	c.mustRun("", append([]string{"toggle", "-phase", "0", "-task", "1"}, course...)...)
	c.mustRun("", append([]string{"edit", "-phase", "0", "-task", "0"}, append(course, "Constants")...)...)
	c.mustRun("", append([]string{"edit", "-phase", "1"}, append(course, "Beyond")...)...)
	c.mustRun("", append([]string{"pin", "-phase", "1"}, course...)...)

	got := c.snapshot().Courses[1]
	basics, beyond := got.Phases[0], got.Phases[1]
	if basics.Tasks[0].Text != "Constants" {
		t.Errorf("task 0 = %q, want Constants", basics.Tasks[0].Text)
	}
	if !basics.IsDone(1) || basics.IsDone(0) {
		t.Errorf("completion = %v, want only Loops done", basics.Completed)
	}
	if beyond.Title != "Beyond" || !beyond.Pinned {
		t.Errorf("phase 1 = %q pinned=%v", beyond.Title, beyond.Pinned)
	}
	if n := len(beyond.Tasks); n != 2 || beyond.Tasks[1].Text != "Channels and select" {
		t.Errorf("phase 1 tasks = %v", beyond.Tasks)
	}

	out := c.mustRun("", "show", "-course", "1")
	if strings.Index(out, "Beyond") > strings.Index(out, "Basics") {
		t.Errorf("pinned phase not shown first:\n%s", out)
	}
	if !strings.Contains(out, "1. Beyond [pinned] (0/2)") {
		t.Errorf("show output = %q", out)
	}
}

func TestFlagsAfterText(t *testing.T) {
	c := newCLI(t)
	c.mustRun(outline, "new", "-name", "Go")
	c.mustRun("", "add", "Maps", "-course", "1", "-phase", "0")

	tasks := c.snapshot().Courses[1].Phases[0].Tasks
	if tasks[len(tasks)-1].Text != "Maps" {
		t.Errorf("tasks = %v, want Maps last", tasks)
	}
}

func TestOutOfRangeIndices(t *testing.T) {
	c := newCLI(t)
	tests := [][]string{
		{"toggle", "-phase", "0", "-task", "99"},
		{"pin", "-phase", "99"},
		{"add", "-phase", "99", "x"},
		{"show", "-course", "5"},
		{"rm-course", "5", "-y"},
		{"rm-course", "nope"},
		{"toggle", "-phase", "0"},
		{"add", "x"},
	}
	for _, args := range tests {
		if _, _, err := c.run("", args...); err == nil {
			t.Errorf("Run(%v) succeeded, want error", args)
		}
	}
	if _, err := os.Stat(c.state); !os.IsNotExist(err) {
		t.Errorf("failed commands wrote the snapshot")
	}
}

// onTerminal makes stdin count as a terminal for the rest of the test.
func onTerminal(t *testing.T) {
	t.Helper()
	old := stdinIsTerminal
	stdinIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdinIsTerminal = old })
}

func TestDeleteNeedsTerminalOrYes(t *testing.T) {
	c := newCLI(t)
	c.mustRun(outline, "new", "-name", "Go")

	for _, args := range [][]string{
		{"rm", "-course", "1", "-phase", "0", "-task", "0"},
		{"rm", "-course", "1", "-phase", "0"},
		{"rm-course", "1"},
	} {
		out, _, err := c.run("y\n", args...)
		if err == nil || !strings.Contains(err.Error(), "pass -y") {
			t.Errorf("Run(%v) error = %v, want a -y hint", args, err)
		}
		if strings.Contains(out, "Aborted.") || strings.Contains(out, "Deleted") {
			t.Errorf("Run(%v) output = %q", args, out)
		}
	}
	snap := c.snapshot()
	if len(snap.Courses) != 2 || len(snap.Courses[1].Phases[0].Tasks) != 2 {
		t.Errorf("snapshot changed without confirmation: %+v", snap.Courses)
	}

	c.mustRun("", "rm", "-y", "-course", "1", "-phase", "0", "-task", "0")
	if n := len(c.snapshot().Courses[1].Phases[0].Tasks); n != 1 {
		t.Errorf("tasks after rm -y = %d, want 1", n)
	}
}

func TestDeleteConfirmation(t *testing.T) {
	c := newCLI(t)
	c.mustRun(outline, "new", "-name", "Go")
	onTerminal(t)

	out := c.mustRun("n\n", "rm", "-course", "1", "-phase", "0", "-task", "0")
	if !strings.Contains(out, "Aborted.") {
		t.Errorf("declined rm output = %q", out)
	}
	if n := len(c.snapshot().Courses[1].Phases[0].Tasks); n != 2 {
		t.Fatalf("tasks after declined rm = %d, want 2", n)
	}

	_, errOut, err := c.run("y\n", "rm", "-course", "1", "-phase", "0", "-task", "0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, `Delete task "Variables"? (y/N)`) {
		t.Errorf("question = %q", errOut)
	}
	if n := len(c.snapshot().Courses[1].Phases[0].Tasks); n != 1 {
		t.Errorf("tasks after rm = %d, want 1", n)
	}

	c.mustRun("", "rm", "-y", "-course", "1", "-phase", "0")
	if n := len(c.snapshot().Courses[1].Phases); n != 1 {
		t.Errorf("phases after rm = %d, want 1", n)
	}

	c.mustRun("", "-confirm=false", "rm-course", "1")
	c.mustRun("", "rm-course", "0", "-y")
	if n := len(c.snapshot().Courses); n != 0 {
		t.Errorf("courses = %d, want 0", n)
	}

	// An empty course list is seeded again on the next start.
	out = c.mustRun("", "courses")
	if !strings.HasPrefix(out, "0. ") || strings.Contains(out, "Go") {
		t.Errorf("courses after deleting all = %q", out)
	}
}

func TestExport(t *testing.T) {
	c := newCLI(t)
	c.mustRun(outline, "new", "-name", "Go")
	c.mustRun("", "toggle", "-course", "1", "-phase", "1", "-task", "0")

	out := c.mustRun("", "export", "-course", "1", "-format", "md")
	if out != outline {
		t.Errorf("md export = %q, want %q", out, outline)
	}

	out = c.mustRun("", "export", "-course", "1")
	if !strings.Contains(out, "- [x] Generics") || !strings.Contains(out, "Progress: 33% (1/3)") {
		t.Errorf("checklist export = %q", out)
	}

	file := filepath.Join(t.TempDir(), "go.html")
	c.mustRun("", "export", "-course", "1", "-format", "html", "-o", file)
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<title>Go</title>") {
		t.Errorf("html export = %s", data)
	}

	if _, _, err := c.run("", "export", "-format", "pdf"); err == nil {
		t.Error("unknown export format accepted")
	}

	c.mustRun("", "add", "-course", "1", "-phase", "0", "#1 priority")
	_, errOut, err := c.run("", "export", "-course", "1", "-format", "md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, "phase heading") || !strings.Contains(errOut, "#1 priority") {
		t.Errorf("md export of a #-task stderr = %q", errOut)
	}
}

func TestDoctor(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("", "doctor")
	if !strings.Contains(out, "All checks passed") || !strings.Contains(out, "Not found") {
		t.Errorf("doctor on fresh setup = %q", out)
	}

	c.mustRun(outline, "new", "-name", "Go")
	out = c.mustRun("", "doctor", "-v")
	if !strings.Contains(out, "Valid (schema v2)") || !strings.Contains(out, "- Go: 2 phases, 0%") {
		t.Errorf("doctor on valid snapshot = %q", out)
	}

	if err := os.WriteFile(c.state, []byte(`{"schema_version": 2, "courses": [{"name": 7, "phases": []}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	out, _, err := c.run("", "doctor")
	if err == nil {
		t.Error("doctor passed on an invalid snapshot")
	}
	if !strings.Contains(out, "Validation failed") {
		t.Errorf("doctor on invalid snapshot = %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	c := newCLI(t)
	t.Setenv("PROPATH_WATCH", "false")
	out := c.mustRun("", "-log-level", "info", "config")

	for _, want := range []string{"Config files: (none)", "(flag)", "(environment)", "(default)"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "log_level") && !strings.Contains(line, "info") {
			t.Errorf("log_level line = %q", line)
		}
		if strings.HasPrefix(line, "watch") && !strings.Contains(line, "false") {
			t.Errorf("watch line = %q", line)
		}
	}

	out = c.mustRun("", "config", "-example")
	if !strings.Contains(out, "state_file") {
		t.Errorf("example config = %q", out)
	}
}

func TestTailAndLogs(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("", "tail"); !strings.Contains(out, "No journals found.") {
		t.Errorf("tail without journals = %q", out)
	}

	rl, err := logging.NewRunLogger(filepath.Join(c.home, "logs"), c.state)
	if err != nil {
		t.Fatal(err)
	}
	logger := rl.Logger("info")
	logger.Info("task toggled", "phase", 0)
	logger.Info("phase pinned", "phase", 1)
	if err := rl.Close(); err != nil {
		t.Fatal(err)
	}

	out := c.mustRun("", "tail", "-n", "1")
	if !strings.Contains(out, "phase pinned") || strings.Contains(out, "task toggled") {
		t.Errorf("tail -n 1 = %q", out)
	}

	out = c.mustRun("", "logs")
	if !strings.Contains(out, rl.RunID) {
		t.Errorf("logs output = %q, want run %s", out, rl.RunID)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args []string
		want []string
		y    bool
	}{
		{args: []string{"a", "-y", "b"}, want: []string{"a", "b"}, y: true},
		{args: []string{"-y", "a"}, want: []string{"a"}, y: true},
		{args: []string{"a", "--", "-y"}, want: []string{"a", "-y"}},
		{args: nil, want: nil},
	}
	for _, tt := range tests {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		y := fs.Bool("y", false, "")
		got, err := parseArgs(fs, tt.args)
		if err != nil {
			t.Fatalf("parseArgs(%v) error = %v", tt.args, err)
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || *y != tt.y {
			t.Errorf("parseArgs(%v) = %v y=%v, want %v y=%v", tt.args, got, *y, tt.want, tt.y)
		}
	}
}
