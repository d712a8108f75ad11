// Package mcp provides an MCP (Model Context Protocol) server adapter for tagsearch.
// It lets AI assistants filter the tag catalog and build search URLs.
package mcp

import "errors"

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("mcp: catalog service is required")
