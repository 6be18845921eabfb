package logger

import "log/slog"

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log
// aggregation and querying.
const (
	// ========================================================================
	// Request & Client
	// ========================================================================
	KeyRequestID = "request_id" // HTTP request ID for correlation
	KeyClientIP  = "client_ip"  // Client IP address
	KeyUsername  = "username"   // Authenticated username
	KeyUserID    = "user_id"    // User row identifier

	// ========================================================================
	// Domain Objects
	// ========================================================================
	KeyLibrary   = "library"   // Library slug
	KeyPage      = "page"      // Page row identifier
	KeyPageTitle = "title"     // Page title
	KeyWorkspace = "workspace" // Workspace row identifier
	KeyFile      = "file"      // File row identifier
	KeyFileName  = "file_name" // Uploaded file name
	KeyFileType  = "file_type" // pdf, epub, image

	// ========================================================================
	// Filesystem & Sync
	// ========================================================================
	KeyPath    = "path"    // Full file/directory path
	KeyOldPath = "old_path" // Source path for rename operations
	KeyNewPath = "new_path" // Destination path for rename operations
	KeyAction  = "action"  // Reconciliation action: created, updated, deleted
	KeySize    = "size"    // File size in bytes
	KeyHash    = "hash"    // Content hash

	// ========================================================================
	// Link Graph
	// ========================================================================
	KeyLinkText = "link_text" // [[title]] text inside the brackets
	KeyCount    = "count"     // Generic count (links healed, items moved, ...)

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyStatus     = "status"      // HTTP or processing status
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// RequestID returns a slog.Attr for the HTTP request ID
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// ClientIP returns a slog.Attr for the client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Username returns a slog.Attr for the authenticated username
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// UserID returns a slog.Attr for a user row identifier
func UserID(id string) slog.Attr {
	return slog.String(KeyUserID, id)
}

// Library returns a slog.Attr for a library slug
func Library(slug string) slog.Attr {
	return slog.String(KeyLibrary, slug)
}

// Page returns a slog.Attr for a page row identifier
func Page(id string) slog.Attr {
	return slog.String(KeyPage, id)
}

// PageTitle returns a slog.Attr for a page title
func PageTitle(title string) slog.Attr {
	return slog.String(KeyPageTitle, title)
}

// Workspace returns a slog.Attr for a workspace row identifier
func Workspace(id string) slog.Attr {
	return slog.String(KeyWorkspace, id)
}

// File returns a slog.Attr for a file row identifier
func File(id string) slog.Attr {
	return slog.String(KeyFile, id)
}

// FileName returns a slog.Attr for an uploaded file name
func FileName(name string) slog.Attr {
	return slog.String(KeyFileName, name)
}

// FileType returns a slog.Attr for a file type
func FileType(t string) slog.Attr {
	return slog.String(KeyFileType, t)
}

// Path returns a slog.Attr for a file/directory path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// OldPath returns a slog.Attr for the source path in rename operations
func OldPath(p string) slog.Attr {
	return slog.String(KeyOldPath, p)
}

// NewPath returns a slog.Attr for the destination path in rename operations
func NewPath(p string) slog.Attr {
	return slog.String(KeyNewPath, p)
}

// Action returns a slog.Attr for a reconciliation action
func Action(a string) slog.Attr {
	return slog.String(KeyAction, a)
}

// Size returns a slog.Attr for a size in bytes
func Size(s int64) slog.Attr {
	return slog.Int64(KeySize, s)
}

// Hash returns a slog.Attr for a content hash
func Hash(h string) slog.Attr {
	return slog.String(KeyHash, h)
}

// LinkText returns a slog.Attr for link text
func LinkText(text string) slog.Attr {
	return slog.String(KeyLinkText, text)
}

// Count returns a slog.Attr for a generic count
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Status returns a slog.Attr for an HTTP or processing status
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}
