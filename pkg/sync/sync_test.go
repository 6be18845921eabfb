package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/links"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/processor"
)

func TestDebouncer(t *testing.T) {
	collect := func(d *Debouncer, wait time.Duration) []Event {
		var events []Event
		timeout := time.After(wait)
		for {
			select {
			case ev := <-d.Events():
				events = append(events, ev)
			case <-timeout:
				return events
			}
		}
	}

	t.Run("create then write collapses to one upsert", func(t *testing.T) {
		d := NewDebouncer(20*time.Millisecond, 200*time.Millisecond)
		defer d.Stop()
		d.Observe("/a.md", fsnotify.Create)
		d.Observe("/a.md", fsnotify.Write)
		d.Observe("/a.md", fsnotify.Write)

		events := collect(d, 100*time.Millisecond)
		require.Len(t, events, 1)
		assert.Equal(t, Upsert, events[0].Kind)
		assert.Equal(t, "/a.md", events[0].Path)
	})

	t.Run("create then remove cancels", func(t *testing.T) {
		d := NewDebouncer(20*time.Millisecond, 200*time.Millisecond)
		defer d.Stop()
		d.Observe("/gone.md", fsnotify.Create)
		d.Observe("/gone.md", fsnotify.Remove)

		assert.Empty(t, collect(d, 100*time.Millisecond))
	})

	t.Run("remove of an existing path emits", func(t *testing.T) {
		d := NewDebouncer(20*time.Millisecond, 200*time.Millisecond)
		defer d.Stop()
		d.Observe("/old.md", fsnotify.Remove)

		events := collect(d, 100*time.Millisecond)
		require.Len(t, events, 1)
		assert.Equal(t, Remove, events[0].Kind)
	})

	t.Run("distinct paths debounce independently", func(t *testing.T) {
		d := NewDebouncer(20*time.Millisecond, 200*time.Millisecond)
		defer d.Stop()
		d.Observe("/a.md", fsnotify.Write)
		d.Observe("/b.md", fsnotify.Write)

		assert.Len(t, collect(d, 100*time.Millisecond), 2)
	})

	t.Run("continuous writes flush by the hard cap", func(t *testing.T) {
		d := NewDebouncer(30*time.Millisecond, 60*time.Millisecond)
		defer d.Stop()

		done := make(chan struct{})
		go func() {
			defer close(done)
			deadline := time.Now().Add(250 * time.Millisecond)
			for time.Now().Before(deadline) {
				d.Observe("/busy.md", fsnotify.Write)
				time.Sleep(10 * time.Millisecond)
			}
		}()
		<-done
		assert.NotEmpty(t, collect(d, 100*time.Millisecond))
	})
}

type syncFixture struct {
	store      *store.GORMStore
	reconciler *Reconciler
	user       *models.User
	lib        *models.Library
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	user := &models.User{Username: "alice", PasswordHash: "x", StorageQuota: models.DefaultStorageQuota}
	_, err = s.CreateUser(ctx, user)
	require.NoError(t, err)

	content, err := contentstore.New(t.TempDir())
	require.NoError(t, err)
	libRoot, err := content.CreateLibraryTree("alice", "notes", "notes")
	require.NoError(t, err)

	lib := &models.Library{UserID: user.ID, Name: "notes", Slug: "notes", FolderPath: libRoot}
	_, err = s.CreateLibrary(ctx, lib)
	require.NoError(t, err)

	return &syncFixture{
		store:      s,
		reconciler: NewReconciler(s, processor.NewRegistry(), links.NewService(s)),
		user:       user,
		lib:        lib,
	}
}

func (f *syncFixture) writePage(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(contentstore.PagesPath(f.lib.FolderPath), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestForceSync(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	f.writePage(t, "Inbox.md", "hello [[Todo]]")
	f.writePage(t, "Todo.md", "tasks")

	t.Run("first pass creates rows", func(t *testing.T) {
		summary, err := f.reconciler.ForceSync(ctx, f.lib)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.TotalPages)
		assert.Equal(t, 2, summary.Updated)
		assert.Zero(t, summary.Errors)

		inbox, err := f.store.GetPageByTitle(ctx, f.lib.ID, "Inbox")
		require.NoError(t, err)
		assert.Equal(t, "hello [[Todo]]", inbox.Content)
	})

	t.Run("links resolve across the pass", func(t *testing.T) {
		inbox, err := f.store.GetPageByTitle(ctx, f.lib.ID, "Inbox")
		require.NoError(t, err)
		forward, err := f.store.ForwardLinks(ctx, inbox.ID)
		require.NoError(t, err)
		assert.Len(t, forward, 1)
	})

	t.Run("second pass is idempotent", func(t *testing.T) {
		summary, err := f.reconciler.ForceSync(ctx, f.lib)
		require.NoError(t, err)
		assert.Zero(t, summary.Updated)
		assert.Equal(t, 2, summary.NoChange)
	})

	t.Run("edited file updates the row", func(t *testing.T) {
		f.writePage(t, "Todo.md", "tasks rewritten")
		summary, err := f.reconciler.ForceSync(ctx, f.lib)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, 1, summary.NoChange)

		todo, err := f.store.GetPageByTitle(ctx, f.lib.ID, "Todo")
		require.NoError(t, err)
		assert.Equal(t, "tasks rewritten", todo.Content)
	})

	t.Run("removed file soft-deletes and breaks inbound links", func(t *testing.T) {
		todo, err := f.store.GetPageByTitle(ctx, f.lib.ID, "Todo")
		require.NoError(t, err)
		require.NoError(t, os.Remove(filepath.Join(contentstore.PagesPath(f.lib.FolderPath), "Todo.md")))

		summary, err := f.reconciler.ForceSync(ctx, f.lib)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)

		_, err = f.store.GetPage(ctx, todo.ID)
		assert.ErrorIs(t, err, models.ErrPageNotFound)

		inbox, err := f.store.GetPageByTitle(ctx, f.lib.ID, "Inbox")
		require.NoError(t, err)
		all, err := f.store.AllLinks(ctx, inbox.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.False(t, all[0].IsResolved())
	})
}

func TestForceSyncQuota(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.UpdateStorageQuota(ctx, f.user.Username, 1))
	f.writePage(t, "Big.md", "this body is over one byte")

	summary, err := f.reconciler.ForceSync(ctx, f.lib)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
	require.NotEmpty(t, summary.Details)
	assert.Contains(t, summary.Details[0].Err, "quota")

	_, err = f.store.GetPageByTitle(ctx, f.lib.ID, "Big")
	assert.ErrorIs(t, err, models.ErrPageNotFound)
}

func TestForceSyncIsolatesItemFailures(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	// binary bytes where text is expected: per-item failure
	f.writePage(t, "bad.md", string(make([]byte, 64)))
	f.writePage(t, "good.md", "fine")

	summary, err := f.reconciler.ForceSync(ctx, f.lib)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Updated)

	_, err = f.store.GetPageByTitle(ctx, f.lib.ID, "good")
	assert.NoError(t, err)
}

func TestSyncPath(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	path := f.writePage(t, "Single.md", "one page")
	require.NoError(t, f.reconciler.SyncPath(ctx, f.lib, path, false))

	page, err := f.store.GetPageByTitle(ctx, f.lib.ID, "Single")
	require.NoError(t, err)
	assert.Equal(t, "one page", page.Content)

	t.Run("upsert of the same bytes is a no-op", func(t *testing.T) {
		require.NoError(t, f.reconciler.SyncPath(ctx, f.lib, path, false))
		again, err := f.store.GetPageByTitle(ctx, f.lib.ID, "Single")
		require.NoError(t, err)
		assert.Equal(t, page.UpdatedAt, again.UpdatedAt)
	})

	t.Run("remove soft-deletes", func(t *testing.T) {
		require.NoError(t, os.Remove(path))
		require.NoError(t, f.reconciler.SyncPath(ctx, f.lib, path, true))
		_, err := f.store.GetPageByTitle(ctx, f.lib.ID, "Single")
		assert.ErrorIs(t, err, models.ErrPageNotFound)
	})

	t.Run("remove of an unknown path is a no-op", func(t *testing.T) {
		assert.NoError(t, f.reconciler.SyncPath(ctx, f.lib, filepath.Join(contentstore.PagesPath(f.lib.FolderPath), "ghost.md"), true))
	})
}

func TestEngineResolveLibrary(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	root := filepath.Dir(filepath.Dir(filepath.Dir(f.lib.FolderPath)))
	content, err := contentstore.New(root)
	require.NoError(t, err)
	engine := NewEngine(f.store, content, f.reconciler)

	t.Run("library path resolves", func(t *testing.T) {
		lib, err := engine.resolveLibrary(ctx, filepath.Join(f.lib.FolderPath, "pages", "x.md"))
		require.NoError(t, err)
		require.NotNil(t, lib)
		assert.Equal(t, f.lib.ID, lib.ID)
	})

	t.Run("path outside any library is skipped", func(t *testing.T) {
		lib, err := engine.resolveLibrary(ctx, filepath.Join(root, "alice", ".user-config.json"))
		require.NoError(t, err)
		assert.Nil(t, lib)
	})
}
