package watch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of writes a PDF producer emits while
// saving into a single reload.
const DefaultDebounce = 300 * time.Millisecond

// ChangedHandler is called with the new contents of a watched file.
type ChangedHandler func(path string, data []byte)

// Watcher reloads open documents when they change on disk. Editors that
// save by rename produce Create events, so both Write and Create count.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange ChangedHandler
	debounce time.Duration

	mu       sync.Mutex
	watching map[string]struct{}
	dirs     map[string]int
	timers   map[string]*time.Timer
	done     chan struct{}
}

// New creates a watcher and starts its event loop.
func New(onChange ChangedHandler, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		watcher:  fw,
		onChange: onChange,
		debounce: debounce,
		watching: make(map[string]struct{}),
		dirs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Watch starts watching path. The parent directory is what fsnotify tracks.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watching[absPath]; ok {
		return nil
	}
	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.watching[absPath] = struct{}{}
	return nil
}

// Unwatch stops watching path. Pending reloads for it are cancelled.
func (w *Watcher) Unwatch(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watching[absPath]; !ok {
		return
	}
	delete(w.watching, absPath)
	if t, ok := w.timers[absPath]; ok {
		t.Stop()
		delete(w.timers, absPath)
	}
	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.watcher.Remove(dir)
	}
}

// Watching reports whether path is currently watched.
func (w *Watcher) Watching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.watching[absPath]
	return ok
}

// Close stops the watcher and any pending reloads.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
	w.mu.Unlock()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			absPath, _ := filepath.Abs(event.Name)
			w.schedule(absPath)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watch] watcher error: %v", err)
		}
	}
}

func (w *Watcher) schedule(absPath string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, watched := w.watching[absPath]; !watched {
		return
	}
	if t, ok := w.timers[absPath]; ok {
		t.Stop()
	}
	w.timers[absPath] = time.AfterFunc(w.debounce, func() { w.fire(absPath) })
}

func (w *Watcher) fire(absPath string) {
	w.mu.Lock()
	delete(w.timers, absPath)
	_, watched := w.watching[absPath]
	w.mu.Unlock()
	if !watched {
		return
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		log.Printf("[watch] read %s: %v", absPath, err)
		return
	}
	if w.onChange != nil {
		w.onChange(absPath, data)
	}
}
