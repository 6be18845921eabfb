package aistream

import (
	"context"
	"strings"
	"time"
)

// ContextPage is one page handed to the generator as grounding context.
type ContextPage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Request carries the prompt and its grounding context.
type Request struct {
	Prompt  string        `json:"prompt"`
	Context []ContextPage `json:"context,omitempty"`
}

// Generator produces a text chunk stream for a prompt. Implementations
// wrap external model APIs; the returned channel must be closed when
// generation ends. Cancelling ctx must stop the stream.
type Generator interface {
	Generate(ctx context.Context, req Request) (<-chan string, error)
}

// StaticGenerator replays a fixed body word by word. It backs local
// development and tests where no model endpoint is configured.
type StaticGenerator struct {
	Body  string
	Delay time.Duration
}

// Generate streams the configured body one word at a time.
func (g *StaticGenerator) Generate(ctx context.Context, _ Request) (<-chan string, error) {
	out := make(chan string)
	words := strings.SplitAfter(g.Body, " ")
	go func() {
		defer close(out)
		for _, word := range words {
			if g.Delay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(g.Delay):
				}
			}
			select {
			case <-ctx.Done():
				return
			case out <- word:
			}
		}
	}()
	return out, nil
}
