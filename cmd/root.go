// Package cmd implements the CLI command structure for propath.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/propath/internal/config"
	"github.com/nibzard/propath/internal/logging"
	"github.com/nibzard/propath/internal/roadmap"
	"github.com/nibzard/propath/internal/session"
	"github.com/nibzard/propath/internal/statedir"
	"github.com/nibzard/propath/internal/store"
	"github.com/nibzard/propath/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	stdinIsTerminal = func() bool { return ui.IsTTY(stdin) }
)

// errNeedsConfirm is returned when a delete needs an answer that cannot
// be asked for.
var errNeedsConfirm = errors.New("stdin is not a terminal; pass -y to delete without confirmation")

// Run executes the propath CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("propath", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	remainingArgs := fs.Args()
	globalArgs := args[:len(args)-len(remainingArgs)]

	// The terminal UI is the default on a terminal; anything else gets a
	// printout.
	subcommand := "show"
	if ui.IsTTY(stdout) && ui.IsTTY(stdin) {
		subcommand = "tui"
	}
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	logger := logging.New(stderr, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	})

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "show":
		return showCommand(cfg, logger, remainingArgs)
	case "courses", "ls":
		return coursesCommand(cfg, logger, remainingArgs)
	case "new":
		return newCommand(cfg, logger, remainingArgs)
	case "rm-course":
		return rmCourseCommand(cfg, logger, remainingArgs)
	case "add":
		return addCommand(cfg, logger, remainingArgs)
	case "edit":
		return editCommand(cfg, logger, remainingArgs)
	case "rm":
		return rmCommand(cfg, logger, remainingArgs)
	case "toggle":
		return toggleCommand(cfg, logger, remainingArgs)
	case "pin":
		return pinCommand(cfg, logger, remainingArgs)
	case "export":
		return exportCommand(cfg, logger, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "config":
		return configCommand(globalArgs, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "logs":
		return logsCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openSession loads the configured snapshot, seeding it when empty.
func openSession(cfg *config.Config, logger *log.Logger) (*session.Session, error) {
	st, err := store.New(cfg.StateFile, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	seed := session.ResolveSeed(seedFile(cfg), logger)
	return session.Open(st, seed, session.WithLogger(logger))
}

// seedFile returns the configured seed template, or ~/.propath/seed.jsonc
// when none is configured and that file exists.
func seedFile(cfg *config.Config) string {
	if cfg.SeedFile != "" {
		return cfg.SeedFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := statedir.SeedPath(home)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// tuiCommand launches the terminal UI. The UI owns the terminal, so its
// log goes to the session journal or nowhere.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("propath tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logger := logging.Discard()
	if cfg.Journal {
		rl, err := logging.NewRunLogger(cfg.LogDir, cfg.StateFile)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: journal disabled: %v\n", err)
		} else {
			defer rl.Close()
			logger = rl.Logger(journalLevel(cfg.LogLevel))
			logger.Info("session started", "state", cfg.StateFile, "version", Version)
			defer logger.Info("session ended")
		}
	}

	sess, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, cfg, sess, ui.WithLogger(logger))
}

// journalLevel keeps operation records in the journal unless debug output
// was asked for.
func journalLevel(level string) string {
	if level == "debug" {
		return level
	}
	return "info"
}

func versionCommand() error {
	fmt.Fprintf(stdout, "propath %s\n", Version)
	return nil
}

// parseArgs parses fs from args and returns the positional arguments.
// Flags may appear after positionals.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		// Everything after "--" is positional.
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// parseIndex parses a non-negative index argument.
func parseIndex(what, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s index %q", what, s)
	}
	return n, nil
}

// selectCourse makes course i active, or keeps the active course when i
// is negative.
func selectCourse(sess *session.Session, i int) error {
	if i < 0 {
		if sess.State().Active() == roadmap.NoSelection {
			return errors.New("no courses; create one with 'propath new -name NAME'")
		}
		return nil
	}
	return sess.SwitchCourse(i)
}

// confirm asks question unless skip is set or confirmations are off. It
// only asks on a terminal; otherwise it fails with errNeedsConfirm.
func confirm(cfg *config.Config, skip bool, question string) (bool, error) {
	if skip || !cfg.ConfirmDeletes {
		return true, nil
	}
	if !stdinIsTerminal() {
		return false, errNeedsConfirm
	}
	return promptConfirm(question)
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Propath - Track progress through learning roadmaps")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  propath [options] [command] [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                          Launch terminal UI (default on a terminal)")
	fmt.Fprintln(w, "  show [-course N]             Print a course with its indices (default otherwise)")
	fmt.Fprintln(w, "  courses                      List courses")
	fmt.Fprintln(w, "  new -name NAME [-file F]     Create a course from F or stdin")
	fmt.Fprintln(w, "  rm-course N [-y]             Delete course N")
	fmt.Fprintln(w, "  add -phase P TEXT            Add a task to phase P")
	fmt.Fprintln(w, "  edit -phase P [-task T] TEXT Relabel task T, or rename phase P")
	fmt.Fprintln(w, "  rm -phase P [-task T] [-y]   Delete task T, or phase P")
	fmt.Fprintln(w, "  toggle -phase P -task T      Toggle task completion")
	fmt.Fprintln(w, "  pin -phase P                 Toggle phase pin")
	fmt.Fprintln(w, "  export [-format F] [-o FILE] Export a course (md|checklist|html)")
	fmt.Fprintln(w, "  doctor                       Check config, snapshot and log directory")
	fmt.Fprintln(w, "  config                       Show effective config and where values came from")
	fmt.Fprintln(w, "  tail [-f] [-n N]             Tail the latest session journal")
	fmt.Fprintln(w, "  logs                         List session journals")
	fmt.Fprintln(w, "  version                      Show version information")
	fmt.Fprintln(w, "  help                         Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands that act on a course take -course N (default: the first course).")
	fmt.Fprintln(w, "Indices are the ones printed by 'show'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
}
