package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// fileChangedMsg reports that the snapshot file may have changed on disk.
type fileChangedMsg struct{}

// watchErrMsg reports that the watcher stopped.
type watchErrMsg struct{ err error }

// watcher follows one file by watching its directory, so atomic
// replacements are seen.
type watcher struct {
	path string
	fs   *fsnotify.Watcher
}

func newWatcher(path string) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &watcher{path: abs, fs: fw}, nil
}

// wait blocks until an event touches the watched file.
func (w *watcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.fs.Events:
				if !ok {
					return watchErrMsg{}
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
					return fileChangedMsg{}
				}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return watchErrMsg{}
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func (w *watcher) Close() error {
	return w.fs.Close()
}
