package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/propath/internal/config"
	"github.com/nibzard/propath/internal/export"
	"github.com/nibzard/propath/internal/prompt"
	"github.com/nibzard/propath/internal/roadmap"
	"github.com/nibzard/propath/internal/session"
	"github.com/nibzard/propath/internal/ui"
)

// showCommand prints a course with the storage indices other commands
// take.
func showCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	course := fs.Int("course", -1, "Course index (default: first course)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	sess, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	if *course >= 0 {
		if err := sess.SwitchCourse(*course); err != nil {
			return err
		}
	}
	printView(stdout, sess.View())
	return nil
}

func printView(w io.Writer, v roadmap.View) {
	if v.Status == roadmap.StatusNoSelection {
		fmt.Fprintln(w, "No course selected. Create one with 'propath new -name NAME'.")
		return
	}
	fmt.Fprintln(w, v.CourseName)
	fmt.Fprintf(w, "%d%% complete (%d/%d)\n", v.Percent, v.Done, v.Total)
	if v.Status == roadmap.StatusEmpty {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "This course has no phases.")
		return
	}
	for _, p := range v.Phases {
		fmt.Fprintln(w)
		pin := ""
		if p.Pinned {
			pin = " [pinned]"
		}
		fmt.Fprintf(w, "%d. %s%s (%d/%d)\n", p.Index, p.Title, pin, p.Done, p.Total)
		for _, t := range p.Tasks {
			mark := " "
			if t.Done {
				mark = "x"
			}
			fmt.Fprintf(w, "   %d. [%s] %s\n", t.Index, mark, t.Text)
		}
	}
}

// coursesCommand lists courses with their progress.
func coursesCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath courses", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	sess, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	courses := sess.State().Courses
	if len(courses) == 0 {
		fmt.Fprintln(stdout, "No courses.")
		return nil
	}
	for i := range courses {
		v := roadmap.Project(&courses[i])
		fmt.Fprintf(stdout, "%d. %s  %d%% (%d/%d)\n", i, courses[i].Name, v.Percent, v.Done, v.Total)
	}
	return nil
}

// newCommand creates a course from a file, or from stdin when no file is
// given.
func newCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath new", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "Course name")
	file := fs.String("file", "", "Course outline file (default: stdin)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	if strings.TrimSpace(*name) == "" {
		if !ui.IsTTY(stdin) {
			return errors.New("new requires -name")
		}
		answer, err := prompt.Ask(stdin, stderr, "Course name", "")
		if err != nil {
			return err
		}
		*name = answer
	}

	var raw []byte
	var err error
	if *file != "" && *file != "-" {
		raw, err = os.ReadFile(*file)
	} else {
		if ui.IsTTY(stdin) {
			fmt.Fprintln(stderr, "Enter the outline ('# Phase' lines, then tasks); end with Ctrl-D:")
		}
		raw, err = io.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("reading course outline: %w", err)
	}

	sess, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	i, err := sess.CreateCourse(*name, string(raw))
	if err != nil {
		return err
	}
	c := sess.State().Courses[i]
	fmt.Fprintf(stdout, "Created course %d: %s (%d phases)\n", i, c.Name, len(c.Phases))
	return nil
}

// rmCourseCommand deletes a course.
func rmCourseCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath rm-course", flag.ContinueOnError)
	fs.SetOutput(stderr)
	yes := fs.Bool("y", false, "Do not ask for confirmation")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: propath rm-course N [-y]")
	}
	i, err := parseIndex("course", positional[0])
	if err != nil {
		return err
	}

	sess, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	if !sess.State().HasCourse(i) {
		return &session.IndexError{What: "course", Index: i, Len: len(sess.State().Courses)}
	}
	name := sess.State().Courses[i].Name
	ok, err := confirm(cfg, *yes, fmt.Sprintf("Delete course %q?", name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(stdout, "Aborted.")
		return nil
	}
	if err := sess.DeleteCourse(i); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Deleted course %d: %s\n", i, name)
	return nil
}

// target holds the -course/-phase/-task flags shared by the edit commands.
type target struct {
	course, phase, task *int
}

func addTarget(fs *flag.FlagSet, withTask bool) target {
	t := target{
		course: fs.Int("course", -1, "Course index (default: first course)"),
		phase:  fs.Int("phase", -1, "Phase index"),
	}
	if withTask {
		t.task = fs.Int("task", -1, "Task index")
	} else {
		none := -1
		t.task = &none
	}
	return t
}

// open loads the session and selects the target course.
func (t target) open(cfg *config.Config, logger *log.Logger) (*session.Session, error) {
	if *t.phase < 0 {
		return nil, errors.New("-phase is required")
	}
	sess, err := openSession(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := selectCourse(sess, *t.course); err != nil {
		return nil, err
	}
	return sess, nil
}

// addCommand appends a task to a phase.
func addCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	t := addTarget(fs, false)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	sess, err := t.open(cfg, logger)
	if err != nil {
		return err
	}
	if err := sess.AddTask(*t.phase, strings.Join(positional, " ")); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Added task.")
	return nil
}

// editCommand relabels a task, or renames a phase when -task is absent.
func editCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath edit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	t := addTarget(fs, true)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	sess, err := t.open(cfg, logger)
	if err != nil {
		return err
	}
	text := strings.Join(positional, " ")
	if *t.task < 0 {
		if err := sess.EditPhaseTitle(*t.phase, text); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Renamed phase.")
		return nil
	}
	if err := sess.EditTask(*t.phase, *t.task, text); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Updated task.")
	return nil
}

// rmCommand deletes a task, or a whole phase when -task is absent.
func rmCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath rm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	t := addTarget(fs, true)
	yes := fs.Bool("y", false, "Do not ask for confirmation")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}
	sess, err := t.open(cfg, logger)
	if err != nil {
		return err
	}

	state := sess.State()
	if *t.task < 0 {
		if !state.HasPhase(*t.phase) {
			return &session.IndexError{What: "phase", Index: *t.phase, Len: len(state.ActiveCourse().Phases)}
		}
		title := state.ActiveCourse().Phases[*t.phase].Title
		ok, err := confirm(cfg, *yes, fmt.Sprintf("Delete phase %q and all its tasks?", title))
		if err != nil || !ok {
			return abortOr(err)
		}
		if err := sess.DeletePhase(*t.phase); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Deleted phase.")
		return nil
	}

	if !state.HasTask(*t.phase, *t.task) {
		return sess.DeleteTask(*t.phase, *t.task)
	}
	text := state.ActiveCourse().Phases[*t.phase].Tasks[*t.task].Text
	ok, err := confirm(cfg, *yes, fmt.Sprintf("Delete task %q?", text))
	if err != nil || !ok {
		return abortOr(err)
	}
	if err := sess.DeleteTask(*t.phase, *t.task); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Deleted task.")
	return nil
}

func abortOr(err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Aborted.")
	return nil
}

// toggleCommand flips a task's completion.
func toggleCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath toggle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	t := addTarget(fs, true)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if *t.task < 0 {
		return errors.New("-task is required")
	}
	sess, err := t.open(cfg, logger)
	if err != nil {
		return err
	}
	done, err := sess.ToggleTask(*t.phase, *t.task)
	if err != nil {
		return err
	}
	if done {
		fmt.Fprintln(stdout, "Marked done.")
	} else {
		fmt.Fprintln(stdout, "Marked not done.")
	}
	return nil
}

// pinCommand flips a phase's pin.
func pinCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath pin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	t := addTarget(fs, false)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	sess, err := t.open(cfg, logger)
	if err != nil {
		return err
	}
	pinned, err := sess.TogglePin(*t.phase)
	if err != nil {
		return err
	}
	if pinned {
		fmt.Fprintln(stdout, "Pinned phase.")
	} else {
		fmt.Fprintln(stdout, "Unpinned phase.")
	}
	return nil
}

// exportCommand writes a course to stdout or a file.
func exportCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("propath export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	course := fs.Int("course", -1, "Course index (default: first course)")
	format := fs.String("format", string(export.FormatChecklist), "Output format (md, checklist, html)")
	out := fs.String("o", "", "Output file (default: stdout)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}

	sess, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	if err := selectCourse(sess, *course); err != nil {
		return err
	}
	c := sess.State().ActiveCourse()
	if f == export.FormatMarkdown {
		for _, text := range export.Headingish(c) {
			logger.Warn("task will read back as a phase heading", "task", text)
		}
	}

	if *out == "" || *out == "-" {
		return export.Write(stdout, c, f)
	}
	file, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(file, c, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "Exported %s to %s\n", c.Name, *out)
	return nil
}

// promptConfirm reads a yes/no answer from stdin. Input that ends without
// an answer is a no.
func promptConfirm(question string) (bool, error) {
	return prompt.Confirm(stdin, stderr, question)
}
