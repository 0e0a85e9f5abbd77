package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/regwatch/regwatch-mcp/internal/apiclient"
	"github.com/regwatch/regwatch-mcp/pkg/protocol"
)

// TextResult wraps a plain message as MCP text content.
func TextResult(text string) *protocol.ToolResult {
	return &protocol.ToolResult{
		Content: []protocol.ContentItem{protocol.TextContent(text)},
	}
}

// JSONResult pretty-prints a value as an MCP text payload.
func JSONResult(v any) (*protocol.ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return TextResult(string(data)), nil
}

// ErrorResult renders a backend failure as an error-flagged text
// payload. Upstream API errors keep their code; anything else surfaces
// its raw message. Failures never escape as protocol errors, so one bad
// query cannot take the server down.
func ErrorResult(err error) *protocol.ToolResult {
	var apiErr *apiclient.APIError
	var text string
	if errors.As(err, &apiErr) {
		text = fmt.Sprintf("API Error (%s): %s", apiErr.Code, apiErr.Message)
	} else {
		text = fmt.Sprintf("Error: %v", err)
	}

	return &protocol.ToolResult{
		Content: []protocol.ContentItem{protocol.TextContent(text)},
		IsError: true,
	}
}
