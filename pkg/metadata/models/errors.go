package models

import "errors"

// Common errors for metadata operations. Store methods return these so
// callers can branch with errors.Is without depending on GORM internals.
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Library errors
	ErrLibraryNotFound  = errors.New("library not found")
	ErrDuplicateLibrary = errors.New("library already exists")

	// Page errors
	ErrPageNotFound  = errors.New("page not found")
	ErrDuplicatePage = errors.New("a page with this title already exists")

	// File errors
	ErrFileNotFound  = errors.New("file not found")
	ErrDuplicateFile = errors.New("file already exists")

	// Workspace errors
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrDuplicateWorkspace = errors.New("workspace already exists")
	ErrItemAlreadyPresent = errors.New("item is already in the workspace")
	ErrItemNotFound       = errors.New("item is not in the workspace")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")

	// Resource errors
	ErrQuotaExceeded       = errors.New("storage quota exceeded")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
