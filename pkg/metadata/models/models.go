// Package models defines the persistent data model for loreleaf: users,
// libraries, pages, files, workspaces, workspace membership, page links
// and sessions, together with the domain errors returned by the store.
package models

// AllModels returns every model for schema migration.
func AllModels() []any {
	return []any{
		&User{},
		&Library{},
		&Page{},
		&File{},
		&Workspace{},
		&WorkspaceItem{},
		&PageLink{},
		&Session{},
	}
}
