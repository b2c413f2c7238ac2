package codebase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-transpiles project sources when they change on disk.
type Watcher struct {
	codebase *Codebase
	fsw      *fsnotify.Watcher

	// OnChange is called after a file was transpiled again.
	OnChange func(*FileInfo)
	// OnRemove is called after a file was removed or renamed away.
	OnRemove func(path string)
}

// NewWatcher watches the source directory of c and all directories below
// it.
func NewWatcher(c *Codebase) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{codebase: c, fsw: fsw}
	if err := w.addTree(c.config.SrcDir()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run handles events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	log.Debugf("%s", event)
	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if w.codebase.GetFile(event.Name) == nil {
			return
		}
		w.codebase.RemoveFile(event.Name)
		if w.OnRemove != nil {
			w.OnRemove(event.Name)
		}
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if err := w.addTree(event.Name); err != nil {
					log.Errorf("%s", err)
				}
				return
			}
		}
		if !w.codebase.config.IsSource(event.Name) {
			return
		}
		info, err := w.codebase.ScanFile(event.Name)
		if err != nil {
			log.Errorf("%s", err)
			return
		}
		if w.OnChange != nil {
			w.OnChange(info)
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
