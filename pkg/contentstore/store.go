// Package contentstore manages the on-disk content tree: per-user storage
// roots, per-library page/file directories, archival moves and scans.
// The filesystem is the source of truth for content bytes; everything
// else (identity, ordering, metadata) lives in the metadata store.
package contentstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrStorage indicates a filesystem failure. It always wraps the
// offending path; the sync engine may retry, callers above it do not.
var ErrStorage = errors.New("storage error")

// Layout constants for the on-disk tree.
const (
	librariesDir  = "libraries"
	pagesDir      = "pages"
	filesDir      = "files"
	coversDir     = "covers"
	archivedDir   = ".archived"
	userConfig    = ".user-config.json"
	libraryConfig = ".library-config.json"
	configVersion = 1
)

// Category classifies a scanned entry by which subtree it came from.
type Category string

const (
	// CategoryPage is a backing file under pages/.
	CategoryPage Category = "page"
	// CategoryFile is an uploaded document under files/.
	CategoryFile Category = "file"
)

// ScanEntry is one regular file found by ScanLibrary.
type ScanEntry struct {
	Name     string // basename including extension
	Path     string // absolute path
	Category Category
	Size     int64
	Hash     string
	ModTime  time.Time
}

// UserConfig is persisted as .user-config.json at the user root.
type UserConfig struct {
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
	StorageQuota int64     `json:"storageQuota"`
	Version      int       `json:"version"`
}

// LibraryConfig is persisted as .library-config.json at the library root.
type LibraryConfig struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int       `json:"version"`
}

// Store lays out and scans the content tree under a single storage root.
type Store struct {
	root string
}

// New creates a content store rooted at the given directory, creating it
// if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: storage root is required", ErrStorage)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, wrapStorage(root, err)
	}
	return &Store{root: root}, nil
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// UserRoot returns the directory for a user's tree.
func (s *Store) UserRoot(username string) string {
	return filepath.Join(s.root, username)
}

// LibrariesRoot returns the directory holding a user's libraries.
func (s *Store) LibrariesRoot(username string) string {
	return filepath.Join(s.root, username, librariesDir)
}

// LibraryRoot returns the directory for one library.
func (s *Store) LibraryRoot(username, slug string) string {
	return filepath.Join(s.LibrariesRoot(username), slug)
}

// PagesDir returns the backing-file directory of a library.
func (s *Store) PagesDir(username, slug string) string {
	return filepath.Join(s.LibraryRoot(username, slug), pagesDir)
}

// FilesDir returns the uploads directory of a library.
func (s *Store) FilesDir(username, slug string) string {
	return filepath.Join(s.LibraryRoot(username, slug), filesDir)
}

// CoversDir returns the cover image directory of a library.
func (s *Store) CoversDir(username, slug string) string {
	return filepath.Join(s.FilesDir(username, slug), coversDir)
}

// PagesPath returns the pages/ directory under a known library root.
func PagesPath(libRoot string) string {
	return filepath.Join(libRoot, pagesDir)
}

// FilesPath returns the files/ directory under a known library root.
func FilesPath(libRoot string) string {
	return filepath.Join(libRoot, filesDir)
}

// CoversPath returns the cover directory under a known library root.
func CoversPath(libRoot string) string {
	return filepath.Join(libRoot, filesDir, coversDir)
}

// WriteFileAtomic writes data through a dot-prefixed temp file in the
// target directory and renames it into place, so watchers and concurrent
// readers never observe a partial file. The temp name's dot prefix keeps
// scans and the watcher from picking it up.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return wrapStorage(dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return wrapStorage(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return wrapStorage(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return wrapStorage(path, err)
	}
	return nil
}

// CreateUserTree lays out a user's storage directory and writes its
// config file.
func (s *Store) CreateUserTree(username string, quota int64) error {
	userRoot := s.UserRoot(username)
	if err := os.MkdirAll(filepath.Join(userRoot, librariesDir), 0o755); err != nil {
		return wrapStorage(userRoot, err)
	}
	cfg := UserConfig{
		Username:     username,
		CreatedAt:    time.Now().UTC(),
		StorageQuota: quota,
		Version:      configVersion,
	}
	return writeConfig(filepath.Join(userRoot, userConfig), cfg)
}

// CreateLibraryTree lays out a library directory with its pages/, files/
// and files/covers/ subdirectories and writes the library config.
// Returns the library root path.
func (s *Store) CreateLibraryTree(username, name, slug string) (string, error) {
	libRoot := s.LibraryRoot(username, slug)
	for _, dir := range []string{
		filepath.Join(libRoot, pagesDir),
		filepath.Join(libRoot, filesDir, coversDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", wrapStorage(dir, err)
		}
	}
	cfg := LibraryConfig{
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
		Version:   configVersion,
	}
	if err := writeConfig(filepath.Join(libRoot, libraryConfig), cfg); err != nil {
		return "", err
	}
	return libRoot, nil
}

// ArchiveUserTree moves a user's tree under storage/.archived with a
// millisecond-epoch suffix, so the name never collides with a recreated
// user.
func (s *Store) ArchiveUserTree(username string) (string, error) {
	return s.archive(s.UserRoot(username), username)
}

// ArchiveLibraryTree moves a single library under the archive root.
func (s *Store) ArchiveLibraryTree(username, slug string) (string, error) {
	return s.archive(s.LibraryRoot(username, slug), username+"-"+slug)
}

func (s *Store) archive(src, label string) (string, error) {
	if _, err := os.Stat(src); err != nil {
		return "", wrapStorage(src, err)
	}
	archiveRoot := filepath.Join(s.root, archivedDir)
	if err := os.MkdirAll(archiveRoot, 0o755); err != nil {
		return "", wrapStorage(archiveRoot, err)
	}
	dst := filepath.Join(archiveRoot, fmt.Sprintf("%s-%d", label, time.Now().UnixMilli()))
	if err := os.Rename(src, dst); err != nil {
		return "", wrapStorage(src, err)
	}
	return dst, nil
}

// ListUsers returns the usernames with a tree under the storage root.
// The archive directory and stray files are skipped.
func (s *Store) ListUsers() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, wrapStorage(s.root, err)
	}
	var users []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		users = append(users, e.Name())
	}
	return users, nil
}

// ListLibraries returns the library slugs under a user's tree.
func (s *Store) ListLibraries(username string) ([]string, error) {
	root := s.LibrariesRoot(username)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, wrapStorage(root, err)
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() {
			slugs = append(slugs, e.Name())
		}
	}
	return slugs, nil
}

// ScanLibrary walks a library's pages/ and files/ subtrees and yields one
// entry per regular file, hashed. Cover images and config files are not
// content and are skipped.
func (s *Store) ScanLibrary(username, slug string) ([]ScanEntry, error) {
	return ScanTree(s.LibraryRoot(username, slug))
}

// ScanTree scans a library by its root path. Used by the reconciler,
// which already holds the library's folder path.
func ScanTree(libRoot string) ([]ScanEntry, error) {
	var entries []ScanEntry

	scan := func(dir string, category Category) error {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// covers/ holds derived artifacts, not content
				if category == CategoryFile && d.Name() == coversDir && path != dir {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			hash, err := HashFile(path)
			if err != nil {
				return err
			}
			entries = append(entries, ScanEntry{
				Name:     d.Name(),
				Path:     path,
				Category: category,
				Size:     info.Size(),
				Hash:     hash,
				ModTime:  info.ModTime(),
			})
			return nil
		})
		if err != nil && !errors.Is(err, ErrStorage) {
			return wrapStorage(dir, err)
		}
		return err
	}

	if err := scan(PagesPath(libRoot), CategoryPage); err != nil {
		return nil, err
	}
	if err := scan(FilesPath(libRoot), CategoryFile); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadUserConfig loads a user's .user-config.json.
func (s *Store) ReadUserConfig(username string) (*UserConfig, error) {
	path := filepath.Join(s.UserRoot(username), userConfig)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapStorage(path, err)
	}
	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStorage, path, err)
	}
	return &cfg, nil
}

// writeConfig persists a config struct as 2-space-indented JSON.
func writeConfig(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStorage, path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return wrapStorage(path, err)
	}
	return nil
}
