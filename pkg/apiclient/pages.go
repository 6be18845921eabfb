package apiclient

import "time"

// Page represents a page. Content is only populated by single-page
// endpoints; list responses carry the preview.
type Page struct {
	ID             string    `json:"id"`
	LibraryID      string    `json:"library_id"`
	Title          string    `json:"title"`
	PageType       string    `json:"page_type"`
	Content        string    `json:"content,omitempty"`
	ContentPreview string    `json:"content_preview"`
	FileID         *string   `json:"file_id,omitempty"`
	WorkspaceID    *string   `json:"workspace_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LinkDetail reports the resolution of one [[title]] occurrence.
type LinkDetail struct {
	LinkText     string  `json:"link_text"`
	Position     int     `json:"position"`
	TargetPageID *string `json:"target_page_id,omitempty"`
}

// LinkReport summarizes link extraction after a content update.
type LinkReport struct {
	LinksFound    int          `json:"links_found"`
	LinksResolved int          `json:"links_resolved"`
	BrokenLinks   int          `json:"broken_links"`
	Details       []LinkDetail `json:"details"`
}

// Link is one edge of the page link graph.
type Link struct {
	LinkText     string  `json:"link_text"`
	Position     int     `json:"position"`
	SourcePageID string  `json:"source_page_id"`
	TargetPageID *string `json:"target_page_id,omitempty"`
}

// PageLinks is the combined forward/backlink payload.
type PageLinks struct {
	Forward []Link `json:"forward_links"`
	Back    []Link `json:"backlinks"`
}

// PageStats summarizes one page's link health.
type PageStats struct {
	ForwardLinks int     `json:"forward_links"`
	BrokenLinks  int     `json:"broken_links"`
	Backlinks    int     `json:"backlinks"`
	Health       float64 `json:"health"`
}

// PageUpdate is the response to a page update: the final page plus the
// link report when content changed.
type PageUpdate struct {
	Page  Page        `json:"page"`
	Links *LinkReport `json:"links,omitempty"`
}

// ListPages returns a library's pages, previews only.
func (c *Client) ListPages(libraryID string) ([]Page, error) {
	return listResources[Page](c, resourcePath("/api/v1/libraries/%s/pages", libraryID))
}

// CreatePage creates a saved page with a backing file.
func (c *Client) CreatePage(libraryID, title, content string) (*Page, error) {
	req := struct {
		LibraryID string `json:"library_id"`
		Title     string `json:"title"`
		Content   string `json:"content,omitempty"`
	}{LibraryID: libraryID, Title: title, Content: content}
	return createResource[Page](c, "/api/v1/pages", req)
}

// CreateDraft creates an unsaved draft attached to a workspace.
func (c *Client) CreateDraft(workspaceID string) (*Page, error) {
	req := struct {
		WorkspaceID string `json:"workspace_id"`
	}{WorkspaceID: workspaceID}
	return createResource[Page](c, "/api/v1/pages", req)
}

// GetPage returns a page with full content.
func (c *Client) GetPage(pageID string) (*Page, error) {
	return getResource[Page](c, resourcePath("/api/v1/pages/%s", pageID))
}

// UpdatePage updates a page's title and/or content. Nil fields are left
// unchanged.
func (c *Client) UpdatePage(pageID string, title, content *string) (*PageUpdate, error) {
	req := struct {
		Title   *string `json:"title,omitempty"`
		Content *string `json:"content,omitempty"`
	}{Title: title, Content: content}
	return updateResource[PageUpdate](c, resourcePath("/api/v1/pages/%s", pageID), req)
}

// SavePageDraft converts a workspace draft into a saved page under the
// given title.
func (c *Client) SavePageDraft(pageID, title string) (*Page, error) {
	req := struct {
		Title string `json:"title"`
	}{Title: title}
	return createResource[Page](c, resourcePath("/api/v1/pages/%s/save", pageID), req)
}

// DeletePage deletes a page and its backing file.
func (c *Client) DeletePage(pageID string) error {
	return deleteResource(c, resourcePath("/api/v1/pages/%s", pageID))
}

// GetPageLinks returns a page's forward links and backlinks.
func (c *Client) GetPageLinks(pageID string) (*PageLinks, error) {
	return getResource[PageLinks](c, resourcePath("/api/v1/pages/%s/links", pageID))
}

// GetPageStats returns a page's link statistics.
func (c *Client) GetPageStats(pageID string) (*PageStats, error) {
	return getResource[PageStats](c, resourcePath("/api/v1/pages/%s/stats", pageID))
}
