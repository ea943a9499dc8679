package resource

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a path must stay quiet before it is reported.
const debounce = 100 * time.Millisecond

// Watcher reports changed editor files anywhere below a resource root.
// Directories created after the watcher starts are watched too.
type Watcher struct {
	fs     *fsnotify.Watcher
	Events chan string
	Errors chan error
	done   chan struct{}
	once   sync.Once
}

// NewWatcher watches root and every directory below it.
func NewWatcher(root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("resource: watch: %w", err)
	}
	w := &Watcher{
		fs:     fw,
		Events: make(chan string, 16),
		Errors: make(chan error, 1),
		done:   make(chan struct{}),
	}
	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("resource: watch %s: %w", root, err)
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. The channels stay open so late readers never
// see a zero value.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// Drain returns the paths reported since the last call without blocking.
func (w *Watcher) Drain() []string {
	var paths []string
	for {
		select {
		case p := <-w.Events:
			if !slices.Contains(paths, p) {
				paths = append(paths, p)
			}
		default:
			return paths
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	// path -> time of its latest event; flushed once quiet for debounce
	pending := make(map[string]time.Time)
	tick := time.NewTicker(debounce / 2)
	defer tick.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.report(fmt.Errorf("resource: watch %s: %w", event.Name, err))
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if IsWatched(event.Name) {
				pending[event.Name] = time.Now()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.report(err)
		case now := <-tick.C:
			for path, at := range pending {
				if now.Sub(at) < debounce {
					continue
				}
				delete(pending, path)
				select {
				case w.Events <- path:
				case <-w.done:
					return
				}
			}
		case <-w.done:
			return
		}
	}
}

// report keeps the first unread error and drops the rest.
func (w *Watcher) report(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}

// IsWatched reports whether path has an extension the editor reloads.
func IsWatched(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp",
		TileSetExt, GridExt:
		return true
	}
	return false
}
