package apiclient

import "time"

// Library represents a library owned by the authenticated user.
type Library struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// SyncDetail is one path's outcome in a reconciliation pass.
type SyncDetail struct {
	Path   string `json:"path"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

// SyncSummary is the outcome of a manual library sync.
type SyncSummary struct {
	TotalPages int          `json:"total_pages"`
	Updated    int          `json:"updated"`
	NoChange   int          `json:"no_change"`
	Errors     int          `json:"errors"`
	Details    []SyncDetail `json:"details"`
}

// ListLibraries returns the authenticated user's libraries.
func (c *Client) ListLibraries() ([]Library, error) {
	return listResources[Library](c, "/api/v1/libraries")
}

// CreateLibrary creates a library and its on-disk tree.
func (c *Client) CreateLibrary(name string) (*Library, error) {
	req := struct {
		Name string `json:"name"`
	}{Name: name}
	return createResource[Library](c, "/api/v1/libraries", req)
}

// GetLibrary returns a library by ID.
func (c *Client) GetLibrary(libraryID string) (*Library, error) {
	return getResource[Library](c, resourcePath("/api/v1/libraries/%s", libraryID))
}

// DeleteLibrary soft-deletes a library and archives its on-disk tree.
func (c *Client) DeleteLibrary(libraryID string) error {
	return deleteResource(c, resourcePath("/api/v1/libraries/%s", libraryID))
}

// SyncLibrary forces a full reconciliation between the library's on-disk
// tree and the database, and returns the summary.
func (c *Client) SyncLibrary(libraryID string) (*SyncSummary, error) {
	return createResource[SyncSummary](c, resourcePath("/api/v1/libraries/%s/sync", libraryID), nil)
}
