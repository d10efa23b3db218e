// Package mcp provides an MCP (Model Context Protocol) server adapter for jfp.
// It lets AI assistants list, search and render the local prompt library.
package mcp

import "errors"

// ErrMissingPromptService is returned when the prompt service is not provided.
var ErrMissingPromptService = errors.New("mcp: prompt service is required")
