// Package resources implements MCP resource handlers over the clipboard
// history.
//
// Resources provide read-only data the host can pull into context. They use
// clips:// URIs; clients subscribed to RecentURI are told when it changes.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/clipvault/internal/clip"
	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	RecentURI  = "clips://recent"
	SourcesURI = "clips://sources"
)

// DefaultRecentLimit is how many clips RecentURI returns.
const DefaultRecentLimit = 50

// Handler serves the history resources.
type Handler struct {
	store *history.Store
	limit int
}

// NewHandler creates a resource Handler. limit <= 0 uses DefaultRecentLimit.
func NewHandler(store *history.Store, limit int) *Handler {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &Handler{store: store, limit: limit}
}

// RecentResource returns the MCP resource definition for recent clips.
func (h *Handler) RecentResource() mcp.Resource {
	return mcp.NewResource(
		RecentURI,
		"Recent Clips",
		mcp.WithResourceDescription("Most recently copied clipboard entries, newest first"),
		mcp.WithMIMEType("application/json"),
	)
}

// SourcesResource returns the MCP resource definition for source apps.
func (h *Handler) SourcesResource() mcp.Resource {
	return mcp.NewResource(
		SourcesURI,
		"Clip Sources",
		mcp.WithResourceDescription("Applications clipboard entries were copied from"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleRecent returns recent clips as JSON.
func (h *Handler) HandleRecent(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	recs, err := h.store.ListRecent(h.limit)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if recs == nil {
		recs = []clip.Record{}
	}
	return jsonResource(req.Params.URI, struct {
		Clips []clip.Record `json:"clips"`
	}{recs})
}

// HandleSources returns the distinct source labels as JSON.
func (h *Handler) HandleSources(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sources, err := h.store.DistinctSources()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if sources == nil {
		sources = []string{}
	}
	return jsonResource(req.Params.URI, struct {
		Sources []string `json:"sources"`
	}{sources})
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("resources: marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
