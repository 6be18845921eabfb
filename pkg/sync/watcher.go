package sync

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	gosync "sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/loreleaf/loreleaf/internal/logger"
)

// Debounce tuning. A path's raw events coalesce within Window; a path
// being written continuously still flushes after MaxWait.
const (
	DebounceWindow  = 500 * time.Millisecond
	DebounceMaxWait = 2 * time.Second
)

// EventKind is the logical operation a burst of raw events collapses to.
type EventKind int

const (
	// Upsert means the path exists and should be (re)synced.
	Upsert EventKind = iota
	// Remove means the path is gone.
	Remove
)

// Event is one coalesced filesystem operation.
type Event struct {
	Path string
	Kind EventKind
}

type pending struct {
	kind      EventKind
	created   bool // the path appeared within this burst
	firstSeen time.Time
	timer     *time.Timer
}

// Debouncer coalesces raw filesystem events per path: create followed by
// writes becomes one upsert, create followed by remove cancels entirely.
type Debouncer struct {
	window  time.Duration
	maxWait time.Duration
	out     chan Event

	mu      gosync.Mutex
	pending map[string]*pending
}

// NewDebouncer creates a debouncer emitting coalesced events on Events().
func NewDebouncer(window, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		maxWait: maxWait,
		out:     make(chan Event, 64),
		pending: make(map[string]*pending),
	}
}

// Events returns the coalesced event stream.
func (d *Debouncer) Events() <-chan Event {
	return d.out
}

// Observe feeds one raw event into the debouncer.
func (d *Debouncer) Observe(path string, op fsnotify.Op) {
	kind := Upsert
	removed := op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
	if removed {
		kind = Remove
	}
	isCreate := op.Has(fsnotify.Create)

	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[path]
	if !ok {
		p = &pending{kind: kind, created: isCreate, firstSeen: time.Now()}
		p.timer = time.AfterFunc(d.window, func() { d.flush(path) })
		d.pending[path] = p
		return
	}

	switch {
	case removed && p.created:
		// the path never existed outside this burst
		p.timer.Stop()
		delete(d.pending, path)
		return
	case removed:
		p.kind = Remove
	default:
		p.kind = Upsert
		if isCreate {
			p.created = true
		}
	}

	if time.Since(p.firstSeen) >= d.maxWait {
		p.timer.Stop()
		d.flushLocked(path, p)
		return
	}
	p.timer.Reset(d.window)
}

func (d *Debouncer) flush(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[path]; ok {
		d.flushLocked(path, p)
	}
}

func (d *Debouncer) flushLocked(path string, p *pending) {
	delete(d.pending, path)
	d.out <- Event{Path: path, Kind: p.kind}
}

// Stop cancels all pending timers and closes the event stream.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
	d.mu.Unlock()
	close(d.out)
}

// Handler is called with each coalesced event. Errors are logged and the
// path is retried on its next event.
type Handler func(ctx context.Context, ev Event) error

// Watcher observes a storage root recursively and drives a Handler with
// debounced logical events. Temp spool files and other dotfiles are
// ignored.
type Watcher struct {
	root      string
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	handler   Handler
	done      chan struct{}
}

// NewWatcher creates a watcher over the storage root.
func NewWatcher(root string, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:      root,
		fsw:       fsw,
		debouncer: NewDebouncer(DebounceWindow, DebounceMaxWait),
		handler:   handler,
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. It walks the existing tree, then follows
// directory creation to keep the recursive watch complete.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.readRaw()
	go w.dispatch(ctx)

	logger.Info("filesystem watcher started", "root", w.root)
	return nil
}

// Stop tears the watcher down.
func (w *Watcher) Stop() error {
	err := w.fsw.Close()
	<-w.done
	w.debouncer.Stop()
	return err
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) readRaw() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if strings.HasPrefix(filepath.Base(ev.Name), ".") {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						logger.Warn("watch add failed", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if ev.Op.Has(fsnotify.Chmod) && ev.Op == fsnotify.Chmod {
				continue
			}
			w.debouncer.Observe(ev.Name, ev.Op)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.debouncer.Events():
			if !ok {
				return
			}
			if err := w.handler(ctx, ev); err != nil {
				logger.Warn("sync handler failed", "path", ev.Path, "error", err)
			}
		}
	}
}
