package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nibzard/propath/internal/config"
	"github.com/nibzard/propath/internal/logging"
	"github.com/nibzard/propath/internal/roadmap"
	"github.com/nibzard/propath/internal/store"
)

// doctorCommand checks config, snapshot validity, seed, and log directory.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("propath doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := stdout
	fmt.Fprintln(w, "Propath Doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(w, "  ❌ Log level: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "  ✅ Log level: %s\n", cfg.LogLevel)
	}
	if _, err := logging.ParseFormatter(cfg.LogFormat); err != nil {
		fmt.Fprintf(w, "  ❌ Log format: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "  ✅ Log format: %s\n", cfg.LogFormat)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "State file: %s\n", cfg.StateFile)
	if !checkStateFile(cfg.StateFile, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	if path := seedFile(cfg); path != "" {
		fmt.Fprintf(w, "Seed file: %s\n", path)
		if seed, err := roadmap.LoadSeed(path); err != nil {
			fmt.Fprintf(w, "  ❌ %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(w, "  ✅ OK (%s, %d phases)\n", seed.Name, len(seed.Phases))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
	if info, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created by the first journaled session)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return errors.New("doctor checks failed")
}

func checkStateFile(path string, verbose bool) bool {
	w := stdout
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (created on the first change)")
		return true
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	st, err := store.New(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ %v\n", err)
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	result := st.Validate(data)
	fmt.Fprintf(w, "  Format: %s\n", st.Codec().Name())
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed (the file will be ignored and replaced on the next change):")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintf(w, "  ✅ Valid (schema v%d)\n", result.Version)

	if verbose {
		snap, err := st.Load()
		if err == nil && snap != nil {
			for i := range snap.Courses {
				v := roadmap.Project(&snap.Courses[i])
				fmt.Fprintf(w, "    - %s: %d phases, %d%%\n", snap.Courses[i].Name, len(v.Phases), v.Percent)
			}
		}
	}
	return true
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(globalArgs, args []string) error {
	fs := flag.NewFlagSet("propath config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	gfs := flag.NewFlagSet("propath", flag.ContinueOnError)
	gfs.SetOutput(stderr)
	gfs.Bool("help", false, "")
	gfs.Bool("h", false, "")
	gfs.Bool("version", false, "")
	gfs.Bool("v", false, "")
	cws, err := config.LoadWithSources(gfs, globalArgs)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "Config files: (none)")
	} else {
		fmt.Fprintln(stdout, "Config files:")
		for _, f := range cws.Files {
			fmt.Fprintf(stdout, "  %s\n", f)
		}
	}
	fmt.Fprintln(stdout)
	for _, key := range cws.Keys() {
		fmt.Fprintf(stdout, "%-16s = %-40s (%s)\n", key, cws.Config.Value(key), cws.Sources[key])
	}
	if len(cws.Unknown) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Unknown keys (ignored):")
		for _, k := range cws.Unknown {
			fmt.Fprintf(stdout, "  %s\n", k)
		}
	}
	return nil
}

// tailCommand tails the latest session journal.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("propath tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.StateFile)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No journals found.")
		return nil
	}

	fmt.Fprintf(stderr, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stderr, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// logsCommand lists the session journals for the configured snapshot.
func logsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("propath logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.StateFile)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	runs, err := logging.FindLogRuns(logDir)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No journals found.")
		return nil
	}
	fmt.Fprintf(stdout, "Journals in %s:\n", logDir)
	for _, r := range runs {
		fmt.Fprintf(stdout, "  %s  %s  %d bytes\n", r.RunID, r.ModTime.Local().Format(time.DateTime), r.Size)
	}
	return nil
}
