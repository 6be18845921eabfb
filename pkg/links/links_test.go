package links

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

func TestExtract(t *testing.T) {
	t.Run("finds occurrences in order", func(t *testing.T) {
		occ := Extract("Hello [[Todo]] and [[Reading List]]!")
		require.Len(t, occ, 2)
		assert.Equal(t, "Todo", occ[0].Text)
		assert.Equal(t, 6, occ[0].Position)
		assert.Equal(t, "Reading List", occ[1].Text)
	})

	t.Run("ignores newline inside brackets", func(t *testing.T) {
		assert.Empty(t, Extract("[[broken\nlink]]"))
	})

	t.Run("repeated references each count", func(t *testing.T) {
		assert.Len(t, Extract("[[A]] [[A]] [[A]]"), 3)
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Empty(t, Extract(""))
	})
}

func newLinkFixture(t *testing.T) (*store.GORMStore, *Service, *models.Library) {
	t.Helper()
	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	user := &models.User{Username: "alice", PasswordHash: "x"}
	_, err = s.CreateUser(ctx, user)
	require.NoError(t, err)
	lib := &models.Library{UserID: user.ID, Name: "notes", Slug: "notes", FolderPath: "/tmp/notes"}
	_, err = s.CreateLibrary(ctx, lib)
	require.NoError(t, err)

	return s, NewService(s), lib
}

func createPage(t *testing.T, s *store.GORMStore, lib *models.Library, title string) *models.Page {
	t.Helper()
	page := &models.Page{
		LibraryID: lib.ID,
		Title:     &title,
		PageType:  string(models.PageTypeSaved),
		FilePath:  title + ".md",
	}
	_, err := s.CreatePage(context.Background(), page)
	require.NoError(t, err)
	return page
}

func TestReparseAndHeal(t *testing.T) {
	s, svc, lib := newLinkFixture(t)
	ctx := context.Background()

	inbox := createPage(t, s, lib, "Inbox")

	t.Run("unresolved reference is a broken link", func(t *testing.T) {
		report, err := svc.Reparse(ctx, inbox, "Hello [[Todo]]")
		require.NoError(t, err)
		assert.Equal(t, 1, report.LinksFound)
		assert.Equal(t, 0, report.LinksResolved)
		assert.Equal(t, 1, report.BrokenLinks)
		assert.Equal(t, "Todo", report.Details[0].LinkText)
		assert.Nil(t, report.Details[0].TargetPageID)
	})

	t.Run("creating the target heals the edge", func(t *testing.T) {
		todo := createPage(t, s, lib, "Todo")
		healed, err := svc.Heal(ctx, lib.ID, "Todo", todo.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), healed)

		back, err := svc.Backlinks(ctx, todo.ID)
		require.NoError(t, err)
		require.Len(t, back, 1)
		assert.Equal(t, inbox.ID, back[0].SourcePageID)
		assert.Equal(t, "Todo", back[0].LinkText)
	})

	t.Run("reparse mirrors the body exactly", func(t *testing.T) {
		report, err := svc.Reparse(ctx, inbox, "now [[Todo]] twice [[Todo]] and [[Nowhere]]")
		require.NoError(t, err)
		assert.Equal(t, 3, report.LinksFound)
		assert.Equal(t, 2, report.LinksResolved)
		assert.Equal(t, 1, report.BrokenLinks)

		forward, err := svc.ForwardLinks(ctx, inbox.ID)
		require.NoError(t, err)
		assert.Len(t, forward, 2)
	})

	t.Run("title match is case-insensitive and trimmed", func(t *testing.T) {
		report, err := svc.Reparse(ctx, inbox, "[[ todo ]]")
		require.NoError(t, err)
		assert.Equal(t, 1, report.LinksResolved)
	})

	t.Run("stats health ratio", func(t *testing.T) {
		_, err := svc.Reparse(ctx, inbox, "[[Todo]] [[Missing]]")
		require.NoError(t, err)
		stats, err := svc.StatsFor(ctx, inbox.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Forward)
		assert.Equal(t, 1, stats.Broken)
		assert.InDelta(t, 0.5, stats.Health, 1e-9)
	})

	t.Run("clearing the body empties the edge set", func(t *testing.T) {
		report, err := svc.Reparse(ctx, inbox, "no links here")
		require.NoError(t, err)
		assert.Zero(t, report.LinksFound)
		forward, err := svc.ForwardLinks(ctx, inbox.ID)
		require.NoError(t, err)
		assert.Empty(t, forward)
	})
}
