package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

// createTestStore creates an in-memory SQLite store for testing.
func createTestStore(t *testing.T) *GORMStore {
	t.Helper()
	s, err := New(&Config{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createTestUser(t *testing.T, s *GORMStore, username string) *models.User {
	t.Helper()
	hash, err := models.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{Username: username, PasswordHash: hash, Role: "user"}
	if _, err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestLibrary(t *testing.T, s *GORMStore, userID, name, slug string) *models.Library {
	t.Helper()
	lib := &models.Library{UserID: userID, Name: name, Slug: slug, FolderPath: "/tmp/" + slug}
	if _, err := s.CreateLibrary(context.Background(), lib); err != nil {
		t.Fatalf("create library: %v", err)
	}
	return lib
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }
func boolptr(b bool) *bool    { return &b }

func TestUserOperations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		user := createTestUser(t, s, "alice")
		if user.ID == "" {
			t.Fatal("expected generated ID")
		}
		got, err := s.GetUser(ctx, "alice")
		if err != nil {
			t.Fatalf("get user: %v", err)
		}
		if got.StorageQuota != models.DefaultStorageQuota {
			t.Errorf("expected default quota, got %d", got.StorageQuota)
		}
	})

	t.Run("duplicate username fails", func(t *testing.T) {
		user := &models.User{Username: "alice", PasswordHash: "x"}
		if _, err := s.CreateUser(ctx, user); !errors.Is(err, models.ErrDuplicateUser) {
			t.Errorf("expected ErrDuplicateUser, got %v", err)
		}
	})

	t.Run("validate credentials", func(t *testing.T) {
		if _, err := s.ValidateCredentials(ctx, "alice", "hunter22"); err != nil {
			t.Fatalf("valid credentials rejected: %v", err)
		}
		if _, err := s.ValidateCredentials(ctx, "alice", "wrong"); !errors.Is(err, models.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := s.ValidateCredentials(ctx, "nobody", "x"); !errors.Is(err, models.ErrInvalidCredentials) {
			t.Errorf("missing user must not be distinguishable, got %v", err)
		}
	})

	t.Run("delete cascades", func(t *testing.T) {
		user := createTestUser(t, s, "temp")
		lib := createTestLibrary(t, s, user.ID, "Notes", "notes")
		if _, err := s.CreatePage(ctx, &models.Page{
			LibraryID: lib.ID, Title: strptr("A"), PageType: string(models.PageTypeSaved), FilePath: "a.md",
		}); err != nil {
			t.Fatalf("create page: %v", err)
		}
		if err := s.DeleteUser(ctx, "temp"); err != nil {
			t.Fatalf("delete user: %v", err)
		}
		if _, err := s.GetLibrary(ctx, lib.ID); !errors.Is(err, models.ErrLibraryNotFound) {
			t.Errorf("expected library gone, got %v", err)
		}
	})
}

func TestLibraryOperations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "bob")

	t.Run("slug unique per user", func(t *testing.T) {
		createTestLibrary(t, s, user.ID, "Notes", "notes")
		lib := &models.Library{UserID: user.ID, Name: "notes too", Slug: "notes", FolderPath: "/tmp/x"}
		if _, err := s.CreateLibrary(ctx, lib); !errors.Is(err, models.ErrDuplicateLibrary) {
			t.Errorf("expected ErrDuplicateLibrary, got %v", err)
		}
	})

	t.Run("same slug for another user is fine", func(t *testing.T) {
		other := createTestUser(t, s, "carol")
		createTestLibrary(t, s, other.ID, "Notes", "notes")
	})

	t.Run("ownership filter", func(t *testing.T) {
		libs, err := s.ListLibraries(ctx, user.ID)
		if err != nil || len(libs) != 1 {
			t.Fatalf("expected 1 library, got %d (%v)", len(libs), err)
		}
		other, _ := s.GetUser(ctx, "carol")
		if _, err := s.LibraryOwnedBy(ctx, libs[0].ID, other.ID); !errors.Is(err, models.ErrLibraryNotFound) {
			t.Errorf("cross-user access must look like absence, got %v", err)
		}
	})

	t.Run("soft delete", func(t *testing.T) {
		libs, _ := s.ListLibraries(ctx, user.ID)
		if err := s.SoftDeleteLibrary(ctx, libs[0].ID); err != nil {
			t.Fatalf("soft delete: %v", err)
		}
		if remaining, _ := s.ListLibraries(ctx, user.ID); len(remaining) != 0 {
			t.Errorf("expected no live libraries, got %d", len(remaining))
		}
	})

	t.Run("recreate after soft delete", func(t *testing.T) {
		// The archived row keeps its slug; the name must be free again.
		lib := createTestLibrary(t, s, user.ID, "Notes", "notes")
		if lib.ID == "" {
			t.Fatal("expected generated ID")
		}
		libs, err := s.ListLibraries(ctx, user.ID)
		if err != nil || len(libs) != 1 {
			t.Fatalf("expected 1 live library, got %d (%v)", len(libs), err)
		}
	})
}

func TestPageOperations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "dave")
	lib := createTestLibrary(t, s, user.ID, "Notes", "notes")

	t.Run("saved page requires title", func(t *testing.T) {
		_, err := s.CreatePage(ctx, &models.Page{LibraryID: lib.ID, PageType: string(models.PageTypeSaved)})
		if err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("duplicate title conflicts", func(t *testing.T) {
		if _, err := s.CreatePage(ctx, &models.Page{
			LibraryID: lib.ID, Title: strptr("Inbox"), PageType: string(models.PageTypeSaved), FilePath: "Inbox.md",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err := s.CreatePage(ctx, &models.Page{
			LibraryID: lib.ID, Title: strptr("inbox"), PageType: string(models.PageTypeSaved), FilePath: "inbox.md",
		})
		if !errors.Is(err, models.ErrDuplicatePage) {
			t.Errorf("case-insensitive duplicate must conflict, got %v", err)
		}
	})

	t.Run("title lookup is case-insensitive", func(t *testing.T) {
		page, err := s.GetPageByTitle(ctx, lib.ID, "  INBOX ")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if page.TitleOrEmpty() != "Inbox" {
			t.Errorf("got %q", page.TitleOrEmpty())
		}
	})

	t.Run("stored padding does not break lookup", func(t *testing.T) {
		if _, err := s.CreatePage(ctx, &models.Page{
			LibraryID: lib.ID, Title: strptr("Padded "), PageType: string(models.PageTypeSaved), FilePath: "Padded.md",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
		page, err := s.GetPageByTitle(ctx, lib.ID, "padded")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if page.TitleOrEmpty() != "Padded " {
			t.Errorf("got %q", page.TitleOrEmpty())
		}
	})

	t.Run("convert unsaved to saved", func(t *testing.T) {
		ws := &models.Workspace{LibraryID: lib.ID, Title: "Scratch"}
		if _, err := s.CreateWorkspace(ctx, ws); err != nil {
			t.Fatalf("create workspace: %v", err)
		}
		draft := &models.Page{
			LibraryID: lib.ID, PageType: string(models.PageTypeUnsaved),
			WorkspaceID: &ws.ID, Content: "draft body",
		}
		if _, err := s.CreatePage(ctx, draft); err != nil {
			t.Fatalf("create draft: %v", err)
		}

		if err := s.ConvertUnsavedToSaved(ctx, draft.ID, "Inbox", "x.md", "ab"); !errors.Is(err, models.ErrDuplicatePage) {
			t.Fatalf("conversion to taken title must conflict, got %v", err)
		}

		if err := s.ConvertUnsavedToSaved(ctx, draft.ID, "Fresh", "Fresh.md", "cd"); err != nil {
			t.Fatalf("convert: %v", err)
		}
		got, _ := s.GetPage(ctx, draft.ID)
		if got.PageType != string(models.PageTypeSaved) || got.WorkspaceID != nil {
			t.Errorf("conversion incomplete: type=%s workspace=%v", got.PageType, got.WorkspaceID)
		}

		// A converted page is no longer a draft; converting again fails.
		if err := s.ConvertUnsavedToSaved(ctx, draft.ID, "Again", "a.md", "ef"); !errors.Is(err, models.ErrPageNotFound) {
			t.Errorf("expected ErrPageNotFound, got %v", err)
		}
	})
}

func addItem(t *testing.T, s *GORMStore, wsID, itemID string, kind models.ItemKind, pos *int) {
	t.Helper()
	if _, err := s.AddWorkspaceItem(context.Background(), wsID, itemID, kind, pos, 0); err != nil {
		t.Fatalf("add item %s: %v", itemID, err)
	}
}

// positionsOf returns itemID→position for invariant checks.
func positionsOf(t *testing.T, s *GORMStore, wsID string) map[string]int {
	t.Helper()
	items, err := s.ListWorkspaceItems(context.Background(), wsID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	seen := map[int]bool{}
	out := map[string]int{}
	for i, item := range items {
		if item.Position != i {
			t.Fatalf("positions not dense: index %d has position %d", i, item.Position)
		}
		if seen[item.Position] {
			t.Fatalf("duplicate position %d", item.Position)
		}
		seen[item.Position] = true
		out[item.ItemID] = item.Position
	}
	return out
}

func TestWorkspaceItemPositions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "erin")
	lib := createTestLibrary(t, s, user.ID, "Notes", "notes")

	ws := &models.Workspace{LibraryID: lib.ID, Title: "Desk"}
	if _, err := s.CreateWorkspace(ctx, ws); err != nil {
		t.Fatalf("create workspace: %v", err)
	}

	t.Run("append on empty yields zero", func(t *testing.T) {
		item, err := s.AddWorkspaceItem(ctx, ws.ID, "page-a", models.ItemKindPage, nil, 0)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if item.Position != 0 {
			t.Errorf("expected position 0, got %d", item.Position)
		}
	})

	t.Run("insert shifts upper items", func(t *testing.T) {
		addItem(t, s, ws.ID, "page-b", models.ItemKindPage, nil) // [a b]
		addItem(t, s, ws.ID, "file-f", models.ItemKindFile, nil) // [a b f]

		addItem(t, s, ws.ID, "page-x", models.ItemKindPage, intptr(1)) // [a x b f]
		pos := positionsOf(t, s, ws.ID)
		want := map[string]int{"page-a": 0, "page-x": 1, "page-b": 2, "file-f": 3}
		for id, p := range want {
			if pos[id] != p {
				t.Errorf("%s at %d, want %d", id, pos[id], p)
			}
		}
	})

	t.Run("insert past end clamps to append", func(t *testing.T) {
		item, err := s.AddWorkspaceItem(ctx, ws.ID, "page-y", models.ItemKindPage, intptr(99), 0)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if item.Position != 4 {
			t.Errorf("expected append at 4, got %d", item.Position)
		}
	})

	t.Run("duplicate membership conflicts", func(t *testing.T) {
		if _, err := s.AddWorkspaceItem(ctx, ws.ID, "page-a", models.ItemKindPage, nil, 0); !errors.Is(err, models.ErrItemAlreadyPresent) {
			t.Errorf("expected ErrItemAlreadyPresent, got %v", err)
		}
	})

	t.Run("move file to front", func(t *testing.T) {
		// [a x b f y] -> move f to 0 -> [f a x b y]
		if _, err := s.MoveWorkspaceItem(ctx, ws.ID, "file-f", models.ItemKindFile, 0, nil); err != nil {
			t.Fatalf("move: %v", err)
		}
		pos := positionsOf(t, s, ws.ID)
		if pos["file-f"] != 0 || pos["page-a"] != 1 {
			t.Errorf("unexpected order: %v", pos)
		}
	})

	t.Run("move to current position is a no-op", func(t *testing.T) {
		before := positionsOf(t, s, ws.ID)
		if _, err := s.MoveWorkspaceItem(ctx, ws.ID, "file-f", models.ItemKindFile, 0, nil); err != nil {
			t.Fatalf("move: %v", err)
		}
		after := positionsOf(t, s, ws.ID)
		for id := range before {
			if before[id] != after[id] {
				t.Errorf("%s moved from %d to %d", id, before[id], after[id])
			}
		}
	})

	t.Run("remove closes the gap", func(t *testing.T) {
		removed, err := s.RemoveWorkspaceItem(ctx, ws.ID, "page-x", models.ItemKindPage)
		if err != nil || !removed {
			t.Fatalf("remove: removed=%v err=%v", removed, err)
		}
		positionsOf(t, s, ws.ID)
	})

	t.Run("remove absent item reports false", func(t *testing.T) {
		removed, err := s.RemoveWorkspaceItem(ctx, ws.ID, "ghost", models.ItemKindPage)
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		if removed {
			t.Error("expected removed=false")
		}
	})

	t.Run("flags update", func(t *testing.T) {
		item, err := s.UpdateWorkspaceItemFlags(ctx, ws.ID, "page-a", models.ItemKindPage,
			intptr(2), boolptr(true), boolptr(true))
		if err != nil {
			t.Fatalf("flags: %v", err)
		}
		if item.Depth != 2 || !item.IsInAIContext || !item.IsCollapsed {
			t.Errorf("flags not applied: %+v", item)
		}

		// AI context flag is ignored for files.
		fileItem, err := s.UpdateWorkspaceItemFlags(ctx, ws.ID, "file-f", models.ItemKindFile,
			nil, boolptr(true), nil)
		if err != nil {
			t.Fatalf("flags: %v", err)
		}
		if fileItem.IsInAIContext {
			t.Error("is_in_ai_context must be ignored for files")
		}
	})

	t.Run("duplicate copies edges verbatim", func(t *testing.T) {
		dup, err := s.DuplicateWorkspace(ctx, ws.ID, "Desk Copy")
		if err != nil {
			t.Fatalf("duplicate: %v", err)
		}
		src, _ := s.ListWorkspaceItems(ctx, ws.ID)
		cpy, _ := s.ListWorkspaceItems(ctx, dup.ID)
		if len(src) != len(cpy) {
			t.Fatalf("expected %d items, got %d", len(src), len(cpy))
		}
		for i := range src {
			if src[i].ItemID != cpy[i].ItemID || src[i].Position != cpy[i].Position ||
				src[i].Depth != cpy[i].Depth || src[i].IsInAIContext != cpy[i].IsInAIContext {
				t.Errorf("edge %d differs: %+v vs %+v", i, src[i], cpy[i])
			}
		}
	})
}

func TestWorkspaceItemConcurrentAdds(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "grace")
	lib := createTestLibrary(t, s, user.ID, "Notes", "notes")

	ws := &models.Workspace{LibraryID: lib.ID, Title: "Desk"}
	if _, err := s.CreateWorkspace(ctx, ws); err != nil {
		t.Fatalf("create workspace: %v", err)
	}

	// Racing inserts at the same position must serialize on the workspace
	// row lock and land on adjacent positions.
	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("page-%d", i)
			if _, err := s.AddWorkspaceItem(ctx, ws.ID, id, models.ItemKindPage, intptr(0), 0); err != nil {
				errs <- fmt.Errorf("add %s: %w", id, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	pos := positionsOf(t, s, ws.ID)
	if len(pos) != n {
		t.Fatalf("expected %d items, got %d", n, len(pos))
	}
}

func TestLinkOperations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "frank")
	lib := createTestLibrary(t, s, user.ID, "Notes", "notes")

	source := &models.Page{LibraryID: lib.ID, Title: strptr("Inbox"), PageType: string(models.PageTypeSaved), FilePath: "Inbox.md"}
	if _, err := s.CreatePage(ctx, source); err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("replace and query", func(t *testing.T) {
		err := s.ReplaceLinks(ctx, source.ID, []*models.PageLink{
			{ID: "l1", LinkText: "Todo", Position: 6},
		})
		if err != nil {
			t.Fatalf("replace: %v", err)
		}
		all, _ := s.AllLinks(ctx, source.ID)
		if len(all) != 1 || all[0].IsResolved() {
			t.Fatalf("expected one broken link, got %+v", all)
		}
	})

	t.Run("resolve broken links on page creation", func(t *testing.T) {
		target := &models.Page{LibraryID: lib.ID, Title: strptr("Todo"), PageType: string(models.PageTypeSaved), FilePath: "Todo.md"}
		if _, err := s.CreatePage(ctx, target); err != nil {
			t.Fatalf("create target: %v", err)
		}
		n, err := s.ResolveBrokenLinks(ctx, lib.ID, "Todo", target.ID)
		if err != nil || n != 1 {
			t.Fatalf("resolve: n=%d err=%v", n, err)
		}

		back, _ := s.Backlinks(ctx, target.ID)
		if len(back) != 1 || back[0].SourcePageID != source.ID {
			t.Errorf("expected backlink from source, got %+v", back)
		}
	})
}
