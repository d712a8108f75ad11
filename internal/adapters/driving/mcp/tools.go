package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
)

// defaultLimit caps the matches returned by filter_tags.
const defaultLimit = 20

// FilterTagsInput is the input schema for the filter_tags tool.
type FilterTagsInput struct {
	Query    string   `json:"query" jsonschema:"the partial text typed so far"`
	Selected []string `json:"selected,omitempty" jsonschema:"tags already selected; they and their child tags are excluded"`
	Remote   bool     `json:"remote,omitempty" jsonschema:"also ask the remote search endpoint for suggestions"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of matches to return (default 20)"`
}

// FilterTagsOutput is the output schema for the filter_tags tool.
type FilterTagsOutput struct {
	Query    string        `json:"query"`
	Selected []string      `json:"selected"`
	Matches  []MatchOutput `json:"matches"`
	Count    int           `json:"count"`
}

// MatchOutput represents a single ranked candidate.
type MatchOutput struct {
	ID          string  `json:"id"`
	DisplayText string  `json:"display_text"`
	Score       float64 `json:"score"`
	IsParent    bool    `json:"is_parent,omitempty"`
	Origin      string  `json:"origin,omitempty"`
}

// BuildSearchURLInput is the input schema for the build_search_url tool.
type BuildSearchURLInput struct {
	Tags   []string `json:"tags,omitempty" jsonschema:"tags to search for; child tags are mapped onto their parents"`
	Query  string   `json:"query,omitempty" jsonschema:"free search text"`
	Origin string   `json:"origin,omitempty" jsonschema:"site origin (default from settings)"`
	Record bool     `json:"record,omitempty" jsonschema:"add the search to the history"`
}

// BuildSearchURLOutput is the output schema for the build_search_url tool.
type BuildSearchURLOutput struct {
	URL  string   `json:"url"`
	Tags []string `json:"tags"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "filter_tags",
		Description: "Rank catalog tags against partial input, excluding selected tags",
	}, s.handleFilterTags)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "build_search_url",
		Description: "Build the site search URL for a set of tags and a query",
	}, s.handleBuildSearchURL)
}

// newEngine seeds an engine and selects tags in order.
func (s *Server) newEngine(ctx context.Context, tags []string) (driving.TagFilter, error) {
	engine, err := s.ports.Catalog.NewEngine(ctx, domain.EngineHooks{})
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	for _, tag := range tags {
		engine.Select(tag)
	}
	return engine, nil
}

// handleFilterTags handles the filter_tags tool invocation.
func (s *Server) handleFilterTags(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterTagsInput,
) (*mcp.CallToolResult, FilterTagsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	engine, err := s.newEngine(ctx, input.Selected)
	if err != nil {
		return nil, FilterTagsOutput{}, err
	}

	result := engine.Filter(input.Query)
	if input.Remote && s.ports.NewPredictor != nil {
		predictor := s.ports.NewPredictor(engine)
		if ticket, ok := predictor.Begin(input.Query); ok {
			if predictor.Apply(ticket, predictor.Fetch(ctx, ticket)) {
				result = engine.Filter(input.Query)
			}
		}
		predictor.Close()
	}

	matches := result.Matches
	if len(matches) > limit {
		matches = matches[:limit]
	}

	output := FilterTagsOutput{
		Query:    result.Query,
		Selected: engine.Selection(),
		Matches:  make([]MatchOutput, len(matches)),
		Count:    len(matches),
	}
	for i, m := range matches {
		output.Matches[i] = MatchOutput{
			ID:          m.Candidate.ID,
			DisplayText: m.Candidate.Label(),
			Score:       m.Score,
			IsParent:    m.Candidate.IsParent,
			Origin:      string(m.Candidate.Origin),
		}
	}

	return nil, output, nil
}

// handleBuildSearchURL handles the build_search_url tool invocation.
func (s *Server) handleBuildSearchURL(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildSearchURLInput,
) (*mcp.CallToolResult, BuildSearchURLOutput, error) {
	engine, err := s.newEngine(ctx, input.Tags)
	if err != nil {
		return nil, BuildSearchURLOutput{}, err
	}
	engine.Filter(input.Query)

	origin := input.Origin
	if origin == "" {
		origin = s.origin()
	}

	output := BuildSearchURLOutput{
		URL:  engine.BuildSubmitURL(origin),
		Tags: engine.Selection(),
	}

	if input.Record && s.ports.SearchLog != nil {
		if _, err := s.ports.SearchLog.Record(ctx, output.Tags, input.Query, output.URL); err != nil {
			return nil, BuildSearchURLOutput{}, fmt.Errorf("recording search: %w", err)
		}
	}

	return nil, output, nil
}
