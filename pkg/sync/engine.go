package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/metrics"
)

// Engine runs the watcher over the storage root and routes each
// coalesced event to the owning library's reconciler.
type Engine struct {
	store      *store.GORMStore
	content    *contentstore.Store
	reconciler *Reconciler
	watcher    *Watcher
	metrics    *metrics.Metrics
}

// NewEngine wires the sync engine. Call Start to begin watching.
func NewEngine(s *store.GORMStore, content *contentstore.Store, reconciler *Reconciler) *Engine {
	return &Engine{store: s, content: content, reconciler: reconciler}
}

// WithMetrics attaches a metrics collector. Nil disables collection.
func (e *Engine) WithMetrics(m *metrics.Metrics) *Engine {
	e.metrics = m
	return e
}

// Start launches the filesystem watcher.
func (e *Engine) Start(ctx context.Context) error {
	w, err := NewWatcher(e.content.Root(), e.handle)
	if err != nil {
		return err
	}
	e.watcher = w
	return w.Start(ctx)
}

// Stop tears the watcher down.
func (e *Engine) Stop() error {
	if e.watcher == nil {
		return nil
	}
	return e.watcher.Stop()
}

// handle routes one coalesced event to single-path reconciliation.
func (e *Engine) handle(ctx context.Context, ev Event) error {
	kind := "upsert"
	if ev.Kind == Remove {
		kind = "remove"
	}
	e.metrics.RecordWatcherEvent(kind)

	lib, err := e.resolveLibrary(ctx, ev.Path)
	if err != nil {
		return err
	}
	if lib == nil {
		return nil
	}
	started := time.Now()
	err = e.reconciler.SyncPath(ctx, lib, ev.Path, ev.Kind == Remove)
	result := "ok"
	if err != nil {
		result = "error"
	}
	e.metrics.RecordSyncRun("watcher", result, time.Since(started).Seconds())
	return err
}

// resolveLibrary maps a watched path back to its library row via the
// <root>/<username>/libraries/<slug>/ layout. Paths outside a library
// (user configs, archive moves) resolve to nil.
func (e *Engine) resolveLibrary(ctx context.Context, path string) (*models.Library, error) {
	rel, err := filepath.Rel(e.content.Root(), path)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 4 || parts[1] != "libraries" {
		return nil, nil
	}
	username, slug := parts[0], parts[2]

	user, err := e.store.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	lib, err := e.store.GetLibraryBySlug(ctx, user.ID, slug)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	return lib, nil
}
