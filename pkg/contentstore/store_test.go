package contentstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "storage"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	body := []byte("Hello [[Todo]]")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	sum := sha256.Sum256(body)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}
	if len(got) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(got))
	}

	if _, err := HashFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCreateTrees(t *testing.T) {
	s := newTestStore(t)

	if err := s.CreateUserTree("alice", 1<<30); err != nil {
		t.Fatalf("user tree: %v", err)
	}
	if _, err := s.CreateLibraryTree("alice", "My Notes", "my-notes"); err != nil {
		t.Fatalf("library tree: %v", err)
	}

	for _, dir := range []string{
		s.PagesDir("alice", "my-notes"),
		s.CoversDir("alice", "my-notes"),
	} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s: %v", dir, err)
		}
	}

	// Config files are 2-space-indented JSON.
	data, err := os.ReadFile(filepath.Join(s.UserRoot("alice"), ".user-config.json"))
	if err != nil {
		t.Fatalf("read user config: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"username\"") {
		t.Errorf("config not 2-space indented:\n%s", data)
	}
	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.Username != "alice" || cfg.StorageQuota != 1<<30 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestScanLibrary(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateUserTree("bob", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateLibraryTree("bob", "notes", "notes"); err != nil {
		t.Fatal(err)
	}

	write := func(path, body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(s.PagesDir("bob", "notes"), "Inbox.md"), "hello")
	write(filepath.Join(s.FilesDir("bob", "notes"), "book.pdf"), "%PDF-1.4")
	// Covers and dotfiles must not appear in scans.
	write(filepath.Join(s.CoversDir("bob", "notes"), "book_cover.jpg"), "jpg")
	write(filepath.Join(s.PagesDir("bob", "notes"), ".hidden"), "x")

	entries, err := s.ScanLibrary("bob", "notes")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	byName := map[string]ScanEntry{}
	for _, e := range entries {
		byName[e.Name] = e
		if e.Hash == "" || e.Size == 0 {
			t.Errorf("entry %s missing hash or size", e.Name)
		}
	}
	if byName["Inbox.md"].Category != CategoryPage {
		t.Errorf("Inbox.md should be a page entry")
	}
	if byName["book.pdf"].Category != CategoryFile {
		t.Errorf("book.pdf should be a file entry")
	}
}

func TestArchiveUserTree(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateUserTree("carol", 0); err != nil {
		t.Fatal(err)
	}

	dst, err := s.ArchiveUserTree("carol")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := os.Stat(s.UserRoot("carol")); !os.IsNotExist(err) {
		t.Error("user root should be gone after archive")
	}
	if !strings.HasPrefix(filepath.Base(dst), "carol-") {
		t.Errorf("archive name should carry the username: %s", dst)
	}
	if filepath.Dir(dst) != filepath.Join(s.Root(), ".archived") {
		t.Errorf("archive should live under .archived: %s", dst)
	}

	users, err := s.ListUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 0 {
		t.Errorf("archived user must not be listed, got %v", users)
	}
}
