// Package watcher reports changes to the config and script files so a
// presentation can be re-rendered.
//
// Files are watched through their parent directories because editors
// often save by renaming a temporary file over the original. Bursts of
// events for the same file are coalesced into one Event.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/mattex/internal/logging"
)

// Errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
)

// DefaultDebounce is how long a file must be quiet before its event fires.
const DefaultDebounce = 100 * time.Millisecond

// Op represents the type of file operation.
type Op uint32

const (
	// OpCreate indicates the file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written to.
	OpWrite
	// OpRemove indicates the file was removed.
	OpRemove
	// OpRename indicates the file was renamed.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string
	// Op combines every operation seen during the debounce window.
	Op Op
	// Time is when the last operation was seen.
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration. Zero delivers events immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// Watcher watches a set of files.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	debounce time.Duration
	pending  map[string]*pendingEvent
	logger   *logging.Logger

	events   chan Event
	errors   chan error
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: DefaultDebounce,
		pending:  make(map[string]*pendingEvent),
		events:   make(chan Event, 16),
		errors:   make(chan error, 16),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrNull(w.logger).WithComponent("watcher")

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Add watches path. The file need not exist yet, but its directory must.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	w.logger.Debug("watching %s", abs)
	return nil
}

// Files returns the watched files.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// Events returns the debounced event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.closedWg.Wait()
	err := w.fsw.Close()

	// Timers already running may still be delivering; take the lock so
	// they observe closed before the channels go away.
	w.mu.Lock()
	close(w.events)
	close(w.errors)
	w.mu.Unlock()
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[abs] {
		return
	}

	now := time.Now()
	if p, ok := w.pending[abs]; ok {
		p.event.Op |= op
		p.event.Time = now
		p.timer.Reset(w.debounce)
		return
	}

	p := &pendingEvent{event: Event{Path: abs, Op: op, Time: now}}
	p.timer = time.AfterFunc(w.debounce, func() { w.fire(abs) })
	w.pending[abs] = p
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pending[path]
	if !ok || w.closed {
		return
	}
	delete(w.pending, path)

	select {
	case w.events <- p.event:
		w.logger.Debug("%s %s", p.event.Op, path)
	default:
		w.logger.Warn("event channel full, dropping %s", path)
	}
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
