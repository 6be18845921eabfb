package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/aistream"
	"github.com/loreleaf/loreleaf/pkg/pages"
	"github.com/loreleaf/loreleaf/pkg/workspace"
)

// GenerateHandler streams AI-generated text into a draft page over
// Server-Sent Events.
type GenerateHandler struct {
	pages      *pages.Service
	workspaces *workspace.Service
	generator  aistream.Generator
}

// NewGenerateHandler creates a GenerateHandler.
func NewGenerateHandler(p *pages.Service, ws *workspace.Service, g aistream.Generator) *GenerateHandler {
	return &GenerateHandler{pages: p, workspaces: ws, generator: g}
}

// GenerateRequest is the request body for POST
// /api/v1/workspaces/{workspaceID}/generate.
type GenerateRequest struct {
	PageID string `json:"page_id"`
	Prompt string `json:"prompt"`
}

// Generate handles the generation endpoint. The workspace's AI-context
// pages ground the prompt; chunks persist to the draft as they arrive
// and mirror out as SSE events. A client disconnect cancels generation
// but keeps whatever already landed.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	if h.generator == nil {
		WriteError(w, http.StatusServiceUnavailable, CodeInternal, "No generator configured")
		return
	}

	var req GenerateRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.PageID == "" || req.Prompt == "" {
		BadRequest(w, "page_id and prompt are required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		InternalServerError(w, "Streaming unsupported")
		return
	}

	workspaceID := chi.URLParam(r, "workspaceID")
	contextItems, err := h.workspaces.AIContextItems(r.Context(), id.UserID, workspaceID)
	if err != nil {
		RespondError(w, err)
		return
	}
	genReq := aistream.Request{Prompt: req.Prompt}
	for _, item := range contextItems {
		page, err := h.pages.Get(r.Context(), id.UserID, item.ItemID)
		if err != nil {
			logger.Warn("context page fetch failed", "page", item.ItemID, "error", err)
			continue
		}
		genReq.Context = append(genReq.Context, aistream.ContextPage{
			Title:   page.TitleOrEmpty(),
			Content: page.Content,
		})
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	chunks, err := h.generator.Generate(ctx, genReq)
	if err != nil {
		logger.Error("generator start failed", "error", err)
		InternalServerError(w, "Generation failed to start")
		return
	}

	bridge := aistream.New(h.pages, id.UserID, req.PageID)
	events := bridge.Run(ctx, chunks)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
		flusher.Flush()
	}
}
