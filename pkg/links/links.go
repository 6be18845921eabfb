// Package links maintains the page-to-page link graph parsed from
// [[title]] occurrences in page bodies. The graph lives as a relation
// table keyed by IDs and is always traversed by query.
package links

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

var linkPattern = regexp.MustCompile(`\[\[([^\]\n]+)\]\]`)

// Occurrence is one [[...]] reference found in a body.
type Occurrence struct {
	Text     string // the literal inside the brackets
	Position int    // byte offset of the opening brackets
}

// Detail reports the resolution of one occurrence.
type Detail struct {
	LinkText     string  `json:"link_text"`
	Position     int     `json:"position"`
	TargetPageID *string `json:"target_page_id,omitempty"`
}

// Report summarizes one parse pass over a page body.
type Report struct {
	LinksFound    int      `json:"links_found"`
	LinksResolved int      `json:"links_resolved"`
	BrokenLinks   int      `json:"broken_links"`
	Details       []Detail `json:"details"`
}

// Stats summarizes a page's link graph for display.
type Stats struct {
	Forward int     `json:"forward_links"`
	Broken  int     `json:"broken_links"`
	Back    int     `json:"backlinks"`
	Health  float64 `json:"health"` // resolved / total, 1.0 when no links
}

// Extract scans a body for [[title]] occurrences in order.
func Extract(content string) []Occurrence {
	matches := linkPattern.FindAllStringSubmatchIndex(content, -1)
	occurrences := make([]Occurrence, 0, len(matches))
	for _, m := range matches {
		occurrences = append(occurrences, Occurrence{
			Text:     content[m[2]:m[3]],
			Position: m[0],
		})
	}
	return occurrences
}

// Service resolves occurrences against the metadata store and persists
// the edge set.
type Service struct {
	store *store.GORMStore
}

// NewService creates a link service over the metadata store.
func NewService(s *store.GORMStore) *Service {
	return &Service{store: s}
}

// Reparse replaces the edges sourced at a page with the set parsed from
// content. Each occurrence is resolved by case-insensitive trimmed title
// match within the page's library; unresolved occurrences persist as
// broken links with a null target.
func (s *Service) Reparse(ctx context.Context, page *models.Page, content string) (*Report, error) {
	occurrences := Extract(content)

	report := &Report{Details: make([]Detail, 0, len(occurrences))}
	edges := make([]*models.PageLink, 0, len(occurrences))

	for _, occ := range occurrences {
		report.LinksFound++
		edge := &models.PageLink{
			ID:       uuid.New().String(),
			LinkText: occ.Text,
			Position: occ.Position,
		}

		target, err := s.store.GetPageByTitle(ctx, page.LibraryID, occ.Text)
		switch {
		case err == nil:
			edge.TargetPageID = &target.ID
			report.LinksResolved++
		case errors.Is(err, models.ErrPageNotFound):
			report.BrokenLinks++
		default:
			return nil, err
		}

		edges = append(edges, edge)
		report.Details = append(report.Details, Detail{
			LinkText:     occ.Text,
			Position:     occ.Position,
			TargetPageID: edge.TargetPageID,
		})
	}

	if err := s.store.ReplaceLinks(ctx, page.ID, edges); err != nil {
		return nil, err
	}
	return report, nil
}

// Heal repoints broken links at a page that now carries the given title.
// Called after page creation, rename and unsaved-to-saved conversion.
func (s *Service) Heal(ctx context.Context, libraryID, title, pageID string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, nil
	}
	return s.store.ResolveBrokenLinks(ctx, libraryID, title, pageID)
}

// ForwardLinks returns the resolved edges sourced at a page in occurrence
// order.
func (s *Service) ForwardLinks(ctx context.Context, pageID string) ([]*models.PageLink, error) {
	return s.store.ForwardLinks(ctx, pageID)
}

// Backlinks returns the edges targeting a page.
func (s *Service) Backlinks(ctx context.Context, pageID string) ([]*models.PageLink, error) {
	return s.store.Backlinks(ctx, pageID)
}

// StatsFor summarizes the link graph around a page.
func (s *Service) StatsFor(ctx context.Context, pageID string) (*Stats, error) {
	all, err := s.store.AllLinks(ctx, pageID)
	if err != nil {
		return nil, err
	}
	back, err := s.store.Backlinks(ctx, pageID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Back: len(back), Health: 1.0}
	for _, link := range all {
		if link.IsResolved() {
			stats.Forward++
		} else {
			stats.Broken++
		}
	}
	if total := stats.Forward + stats.Broken; total > 0 {
		stats.Health = float64(stats.Forward) / float64(total)
	}
	return stats, nil
}
