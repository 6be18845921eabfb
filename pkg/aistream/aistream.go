// Package aistream bridges an external text generator onto a draft page:
// chunks stream in, the running body persists per chunk, and progress
// events stream out for the SSE layer.
package aistream

import (
	"context"
	"strings"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/pages"
)

// EventType tags a bridge progress event.
type EventType string

const (
	// EventStart opens the stream.
	EventStart EventType = "start"
	// EventChunk carries one appended text chunk.
	EventChunk EventType = "chunk"
	// EventComplete closes the stream with the final length.
	EventComplete EventType = "complete"
	// EventError closes the stream after a failure; accumulated content
	// stays persisted.
	EventError EventType = "error"
)

// Event is one bridge progress signal.
type Event struct {
	Type    EventType `json:"type"`
	Text    string    `json:"text,omitempty"`
	Total   int       `json:"total,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Bridge appends generator chunks to one draft page.
type Bridge struct {
	pages  *pages.Service
	userID string
	pageID string
}

// New creates a bridge bound to an owned page.
func New(p *pages.Service, userID, pageID string) *Bridge {
	return &Bridge{pages: p, userID: userID, pageID: pageID}
}

// Run consumes the input chunk stream and emits progress events. Each
// chunk is persisted before its event goes out, so a consumer that
// disconnects never saw text that was not stored. Closing input
// completes the stream; cancelling ctx finalizes with the accumulated
// prefix. There is no rollback.
func (b *Bridge) Run(ctx context.Context, input <-chan string) <-chan Event {
	out := make(chan Event, 16)

	go func() {
		defer close(out)

		page, err := b.pages.Get(ctx, b.userID, b.pageID)
		if err != nil {
			out <- Event{Type: EventError, Message: err.Error()}
			return
		}
		if page.PageType != string(models.PageTypeUnsaved) {
			out <- Event{Type: EventError, Message: "generation target must be a draft page"}
			return
		}

		var body strings.Builder
		body.WriteString(page.Content)
		out <- Event{Type: EventStart}

		for {
			select {
			case <-ctx.Done():
				logger.Info("generation cancelled", "page", b.pageID, "total", body.Len())
				out <- Event{Type: EventComplete, Total: body.Len()}
				return

			case chunk, ok := <-input:
				if !ok {
					out <- Event{Type: EventComplete, Total: body.Len()}
					return
				}
				if chunk == "" {
					continue
				}
				body.WriteString(chunk)
				if _, err := b.pages.UpdateContent(ctx, b.userID, b.pageID, body.String()); err != nil {
					out <- Event{Type: EventError, Message: err.Error()}
					return
				}
				out <- Event{Type: EventChunk, Text: chunk, Total: body.Len()}
			}
		}
	}()

	return out
}
