package codebase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher feeds file system events for .java files below the codebase
// roots into the codebase. Events are collected for a debounce period
// and applied one file at a time.
type Watcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string, change Change)
	pending  map[string]struct{}
}

func NewWatcher(c *Codebase, debounce time.Duration, onChange func(path string, change Change)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		codebase: c,
		watcher:  fw,
		debounce: debounce,
		onChange: onChange,
		pending:  make(map[string]struct{}),
	}
	for _, root := range c.Roots() {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		if err := w.addTree(root); err != nil {
			fw.Close()
			return nil, err
		}
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
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		log.Debugf("watching %s", path)
		return nil
	})
}

// Run processes events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch error: %s", err)

		case <-timer.C:
			w.flush()
		}
	}
}

// handle records an event and reports whether a file became pending.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				log.Warningf("%s", err)
			}
			w.queueTree(event.Name)
			return true
		}
	}
	if filepath.Ext(event.Name) != ".java" {
		return false
	}
	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.pending[event.Name] = struct{}{}
		return true
	}
	return false
}

// queueTree marks the sources of a directory that appeared after the
// watch started, since their own create events may have been missed.
func (w *Watcher) queueTree(dir string) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && filepath.Ext(path) == ".java" {
			w.pending[path] = struct{}{}
		}
		return nil
	})
}

func (w *Watcher) flush() {
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(paths)

	for _, path := range paths {
		var change Change
		if _, err := os.Stat(path); err != nil {
			change = w.codebase.RemoveFile(path)
		} else if change, err = w.codebase.ScanFile(path); err != nil {
			log.Errorf("%s", err)
			continue
		}
		if w.onChange != nil {
			w.onChange(path, change)
		}
	}
}
