package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is how long a file must stay quiet before a change is
// reported. Editors often write a file in several steps.
const DefaultSettle = 150 * time.Millisecond

// Change reports that the source file of a loaded mesh was modified.
type Change struct {
	Role Role
	Path string
}

// Watcher reports changes to mesh source files. It watches the parent
// directories so files replaced by rename are still seen.
type Watcher struct {
	fs      *fsnotify.Watcher
	changes chan Change
	done    chan struct{}
	settle  time.Duration
	log     *zap.Logger

	mu     sync.Mutex
	files  map[string]Role
	dirs   map[string]bool
	timers map[string]*time.Timer
	closed bool
}

// NewWatcher starts a watcher. settle <= 0 uses DefaultSettle.
func NewWatcher(settle time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fs:      fsw,
		changes: make(chan Change, 4),
		done:    make(chan struct{}),
		settle:  settle,
		log:     log,
		files:   make(map[string]Role),
		dirs:    make(map[string]bool),
		timers:  make(map[string]*time.Timer),
	}
	go w.loop()
	return w, nil
}

// Watch starts reporting changes to path under role, replacing any file
// previously watched for that role.
func (w *Watcher) Watch(role Role, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	for p, r := range w.files {
		if r == role {
			delete(w.files, p)
		}
	}
	w.files[abs] = role

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			delete(w.files, abs)
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}

	w.log.Debug("watching mesh source", zap.Stringer("role", role), zap.String("path", abs))
	return nil
}

// Changes returns the channel settled changes are delivered on.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.touch(e.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("file watcher error", zap.Error(err))
			}
		case <-w.done:
			return
		}
	}
}

// touch (re)arms the settle timer of a watched file.
func (w *Watcher) touch(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	role, ok := w.files[abs]
	if !ok || w.closed {
		return
	}

	if t, ok := w.timers[abs]; ok {
		t.Reset(w.settle)
		return
	}
	w.timers[abs] = time.AfterFunc(w.settle, func() {
		w.fire(abs, role)
	})
}

func (w *Watcher) fire(path string, role Role) {
	w.mu.Lock()
	delete(w.timers, path)
	if r, ok := w.files[path]; !ok || r != role {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.log.Info("mesh source changed", zap.Stringer("role", role), zap.String("path", path))
	select {
	case w.changes <- Change{Role: role, Path: path}:
	case <-w.done:
	}
}
