package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for tagsearch resources.
	uriScheme = "tagsearch://"

	// historyLimit caps the entries served by the history resource.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "catalog",
		Name:        "catalog",
		Description: "Catalog tags and child to parent aliases",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recently submitted searches, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleCatalogResource returns the tags and aliases of the catalog.
func (s *Server) handleCatalogResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	catalog, err := s.ports.Catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	type catalogInfo struct {
		Tags    []string       `json:"tags"`
		Aliases []domain.Alias `json:"aliases"`
	}

	info := catalogInfo{
		Tags:    make([]string, len(catalog.Tags)),
		Aliases: make([]domain.Alias, 0, len(catalog.Aliases)),
	}
	for i, tag := range catalog.Tags {
		info.Tags[i] = tag.Label()
	}
	for child, parent := range catalog.Aliases {
		info.Aliases = append(info.Aliases, domain.Alias{Child: child, Parent: parent})
	}
	sort.Slice(info.Aliases, func(i, j int) bool {
		return info.Aliases[i].Child < info.Aliases[j].Child
	})

	return jsonResult(req.Params.URI, info, "catalog")
}

// handleHistoryResource returns recent searches.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.SearchLog == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	entries, err := s.ports.SearchLog.Recent(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	type entryInfo struct {
		Tags        []string  `json:"tags"`
		Query       string    `json:"query,omitempty"`
		URL         string    `json:"url"`
		SubmittedAt time.Time `json:"submitted_at"`
	}

	infos := make([]entryInfo, len(entries))
	for i, e := range entries {
		infos[i] = entryInfo{
			Tags:        e.Tags,
			Query:       e.Query,
			URL:         e.URL,
			SubmittedAt: e.SubmittedAt,
		}
	}

	return jsonResult(req.Params.URI, infos, "history")
}

func jsonResult(uri string, v any, what string) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", what, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
