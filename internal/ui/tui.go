// Package ui provides the terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/nibzard/propath/internal/config"
	"github.com/nibzard/propath/internal/logging"
	"github.com/nibzard/propath/internal/session"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	logger *log.Logger
	input  io.Reader
	output io.Writer
}

// WithLogger sets the logger for UI events. It must not write to the
// terminal the UI draws on.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIO replaces the terminal the program reads from and draws on.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.input = in
		c.output = out
	}
}

// RunTUI runs the roadmap screen on sess until the user quits or ctx is
// done.
func RunTUI(ctx context.Context, cfg *config.Config, sess *session.Session, opts ...TUIOption) error {
	c := &tuiConfig{logger: logging.Discard(), input: os.Stdin, output: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newModel(cfg, sess, c.logger)
	if cfg.Watch {
		w, err := newWatcher(sess.Store().Path())
		if err != nil {
			c.logger.Warn("watch disabled", "err", err)
		} else {
			defer w.Close()
			model.watch = w
		}
	}

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(c.input),
		tea.WithOutput(c.output),
	)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
