package apiclient

import "time"

// Workspace represents a mixed-kind ordered collection of pages and
// files.
type Workspace struct {
	ID             string     `json:"id"`
	LibraryID      string     `json:"library_id"`
	Title          string     `json:"title"`
	IsFavorited    bool       `json:"is_favorited"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// WorkspaceItem is one membership edge joined with the referent's
// display summary.
type WorkspaceItem struct {
	ItemID        string    `json:"item_id"`
	Kind          string    `json:"kind"`
	Position      int       `json:"position"`
	Depth         int       `json:"depth"`
	IsInAIContext bool      `json:"is_in_ai_context"`
	IsCollapsed   bool      `json:"is_collapsed"`
	AddedAt       time.Time `json:"added_at"`

	PageTitle   string `json:"page_title,omitempty"`
	PageType    string `json:"page_type,omitempty"`
	PagePreview string `json:"page_preview,omitempty"`

	FileName  string `json:"file_name,omitempty"`
	FileType  string `json:"file_type,omitempty"`
	FileTitle string `json:"file_title,omitempty"`
}

// ListWorkspaces returns a library's workspaces.
func (c *Client) ListWorkspaces(libraryID string) ([]Workspace, error) {
	return listResources[Workspace](c, resourcePath("/api/v1/libraries/%s/workspaces", libraryID))
}

// CreateWorkspace creates an empty workspace in a library.
func (c *Client) CreateWorkspace(libraryID, title string) (*Workspace, error) {
	req := struct {
		LibraryID string `json:"library_id"`
		Title     string `json:"title"`
	}{LibraryID: libraryID, Title: title}
	return createResource[Workspace](c, "/api/v1/workspaces", req)
}

// GetWorkspace returns a workspace by ID.
func (c *Client) GetWorkspace(workspaceID string) (*Workspace, error) {
	return getResource[Workspace](c, resourcePath("/api/v1/workspaces/%s", workspaceID))
}

// DeleteWorkspace deletes a workspace. Member pages and files survive;
// only the membership edges go.
func (c *Client) DeleteWorkspace(workspaceID string) error {
	return deleteResource(c, resourcePath("/api/v1/workspaces/%s", workspaceID))
}

// SetWorkspaceFavorite toggles the favorite flag.
func (c *Client) SetWorkspaceFavorite(workspaceID string, favorited bool) (*Workspace, error) {
	req := struct {
		Favorited bool `json:"favorited"`
	}{Favorited: favorited}
	return updateResource[Workspace](c, resourcePath("/api/v1/workspaces/%s/favorite", workspaceID), req)
}

// DuplicateWorkspace copies a workspace and its item list under a new
// title.
func (c *Client) DuplicateWorkspace(workspaceID, title string) (*Workspace, error) {
	req := struct {
		Title string `json:"title"`
	}{Title: title}
	return createResource[Workspace](c, resourcePath("/api/v1/workspaces/%s/duplicate", workspaceID), req)
}

// ListWorkspaceItems returns a workspace's items in position order.
func (c *Client) ListWorkspaceItems(workspaceID string) ([]WorkspaceItem, error) {
	return listResources[WorkspaceItem](c, resourcePath("/api/v1/workspaces/%s/items", workspaceID))
}

// ListAIContext returns the items flagged for inclusion in generation
// context, in position order.
func (c *Client) ListAIContext(workspaceID string) ([]WorkspaceItem, error) {
	return listResources[WorkspaceItem](c, resourcePath("/api/v1/workspaces/%s/ai-context", workspaceID))
}

// AddWorkspaceItem adds a page or file to a workspace. position is nil
// to append.
func (c *Client) AddWorkspaceItem(workspaceID, itemID, kind string, position *int, depth int) (*WorkspaceItem, error) {
	req := struct {
		ItemID   string `json:"item_id"`
		Kind     string `json:"kind"`
		Position *int   `json:"position,omitempty"`
		Depth    int    `json:"depth,omitempty"`
	}{ItemID: itemID, Kind: kind, Position: position, Depth: depth}
	return createResource[WorkspaceItem](c, resourcePath("/api/v1/workspaces/%s/items", workspaceID), req)
}

// MoveWorkspaceItem moves an item to a new position, optionally changing
// its depth. Returns the item at its new position.
func (c *Client) MoveWorkspaceItem(workspaceID, itemID, kind string, position int, depth *int) (*WorkspaceItem, error) {
	req := struct {
		Kind     string `json:"kind"`
		Position int    `json:"position"`
		Depth    *int   `json:"depth,omitempty"`
	}{Kind: kind, Position: position, Depth: depth}
	return updateResource[WorkspaceItem](c, resourcePath("/api/v1/workspaces/%s/items/%s/position", workspaceID, itemID), req)
}

// UpdateWorkspaceItem updates an item's flags. Nil fields are left
// unchanged.
func (c *Client) UpdateWorkspaceItem(workspaceID, itemID, kind string, depth *int, inAIContext, collapsed *bool) (*WorkspaceItem, error) {
	req := struct {
		Kind          string `json:"kind"`
		Depth         *int   `json:"depth,omitempty"`
		IsInAIContext *bool  `json:"is_in_ai_context,omitempty"`
		IsCollapsed   *bool  `json:"is_collapsed,omitempty"`
	}{Kind: kind, Depth: depth, IsInAIContext: inAIContext, IsCollapsed: collapsed}
	return updateResource[WorkspaceItem](c, resourcePath("/api/v1/workspaces/%s/items/%s", workspaceID, itemID), req)
}

// RemoveWorkspaceItem removes an item from a workspace. The kind travels
// in the query string since DELETE carries no body.
func (c *Client) RemoveWorkspaceItem(workspaceID, itemID, kind string) error {
	return deleteResource(c, resourcePath("/api/v1/workspaces/%s/items/%s?kind=%s", workspaceID, itemID, kind))
}
