package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long a file must be quiet before it is re-transformed.
const debounceDelay = 100 * time.Millisecond

// Watcher re-transforms files in place when they change.
type Watcher struct {
	engine  *Engine
	watcher *fsnotify.Watcher
	files   map[string]bool // explicitly named files; nil watches whole directories

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher starts watching paths. Directories are watched recursively,
// skipping hidden and excluded ones; files are watched through their parent.
// The watcher is ready for events when NewWatcher returns.
func (e *Engine) NewWatcher(paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		paths = []string{e.root}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		engine:  e,
		watcher: fw,
		timers:  make(map[string]*time.Timer),
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if w.files == nil {
				w.files = make(map[string]bool)
			}
			w.files[filepath.Clean(p)] = true
			if err := fw.Add(filepath.Dir(p)); err != nil {
				_ = fw.Close()
				return nil, fmt.Errorf("failed to watch %s: %w", p, err)
			}
			continue
		}
		if err := w.watchDir(p); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	return w, nil
}

// watchDir recursively adds a directory to the watcher.
func (w *Watcher) watchDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.engine.skipDir(path, d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// Run handles file system events until ctx is done. onResult is called
// for every re-transformed file and onError for every failure; either may
// be nil. Callbacks run on timer goroutines.
func (w *Watcher) Run(ctx context.Context, onResult func(*FileResult), onError func(error)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event, onResult, onError)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.engine.logger.Warn("watcher error", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, onResult func(*FileResult), onError func(error)) {
	// Only handle write/create events
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	path := filepath.Clean(event.Name)
	info, err := os.Stat(path)
	if err != nil {
		return
	}

	if info.IsDir() {
		if w.files == nil && !w.engine.skipDir(path, info.Name()) {
			if err := w.watchDir(path); err != nil && onError != nil {
				onError(err)
			}
		}
		return
	}

	if w.files != nil {
		if !w.files[path] {
			return
		}
	} else if !w.engine.wants(path) {
		return
	}

	// Debounce per file
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		if w.timers[path] == timer {
			delete(w.timers, path)
		}
		w.mu.Unlock()

		w.engine.logger.Debug("change detected", "path", w.engine.Rel(path))
		res, err := w.engine.TransformFile(path, RunOptions{Write: true})
		if err != nil {
			if onError != nil {
				onError(&FileError{Path: w.engine.Rel(path), Err: err})
			}
			return
		}
		if onResult != nil {
			onResult(res)
		}
	})
	w.timers[path] = timer
}
