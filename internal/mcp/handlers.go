package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/regwatch/regwatch-mcp/internal/logger"
	"github.com/regwatch/regwatch-mcp/internal/tools"
	"github.com/regwatch/regwatch-mcp/pkg/protocol"
	"github.com/regwatch/regwatch-mcp/pkg/version"
)

var log = logger.ForComponent("mcp")

const toolCallTimeout = 2 * time.Minute

type Handler struct {
	registry    *tools.Registry
	startTime   time.Time
	mu          sync.Mutex
	initialized bool
	clientInfo  protocol.ClientInfo
}

func NewHandler(registry *tools.Registry) *Handler {
	return &Handler{
		registry:  registry,
		startTime: time.Now(),
	}
}

func (h *Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(req)
	case "ping":
		return map[string]any{}, nil
	case "tools/list":
		return h.handleListTools(), nil
	case "tools/call":
		return h.handleCallTool(ctx, req)
	case "notifications/initialized":
		h.mu.Lock()
		h.initialized = true
		h.mu.Unlock()
		return map[string]any{}, nil
	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}
}

func (h *Handler) handleInitialize(req *jsonrpc2.Request) (any, error) {
	var params protocol.InitializeParams
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{
				Code:    jsonrpc2.CodeInvalidParams,
				Message: fmt.Sprintf("failed to parse initialize request: %v", err),
			}
		}
	}

	h.mu.Lock()
	h.clientInfo = params.ClientInfo
	h.mu.Unlock()

	log.Info("client connected",
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version)

	return protocol.InitializeResult{
		ProtocolVersion: negotiateProtocolVersion(params.ProtocolVersion),
		Capabilities: protocol.Capabilities{
			Tools: map[string]any{},
		},
		ServerInfo: protocol.ServerInfo{
			Name:    "regwatch-mcp",
			Version: version.Version,
		},
	}, nil
}

func negotiateProtocolVersion(clientVersion string) string {
	for _, v := range version.SupportedProtocolVersions {
		if clientVersion == v {
			return v
		}
	}
	return version.ProtocolVersion
}

func (h *Handler) handleListTools() protocol.ListToolsResult {
	toolsList := h.registry.List()
	result := protocol.ListToolsResult{
		Tools: make([]protocol.Tool, len(toolsList)),
	}

	for i, t := range toolsList {
		def := protocol.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Schema(),
		}
		if annotated, ok := t.(tools.AnnotatedTool); ok {
			def.Title = annotated.Title()
			def.Annotations = annotated.Annotations()
		}
		result.Tools[i] = def
	}
	return result
}

func (h *Handler) handleCallTool(ctx context.Context, req *jsonrpc2.Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &jsonrpc2.Error{
				Code:    jsonrpc2.CodeInternalError,
				Message: fmt.Sprintf("tool execution panicked: %v", r),
			}
			log.Error("tool panic recovered",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	var params protocol.CallToolParams
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{
				Code:    jsonrpc2.CodeInvalidParams,
				Message: fmt.Sprintf("failed to parse tool call request: %v", err),
			}
		}
	}
	if params.Name == "" {
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: "tool name is required",
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, toolCallTimeout)
	defer cancel()

	start := time.Now()
	value, err := h.registry.Execute(callCtx, params.Name, params.Arguments)
	if err != nil {
		log.Warn("tool call failed", "tool", params.Name, "error", err)
		if toolErr, ok := err.(*tools.ToolError); ok {
			return nil, &jsonrpc2.Error{
				Code:    int64(toolErr.Code),
				Message: toolErr.Message,
			}
		}
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInternalError,
			Message: err.Error(),
		}
	}
	log.Debug("tool call completed", "tool", params.Name, "duration", time.Since(start))

	// Tools that shape their own content (empty-result texts, error
	// flags) return a ToolResult; anything else becomes a JSON text
	// payload.
	if toolResult, ok := value.(*protocol.ToolResult); ok {
		return toolResult, nil
	}

	resultJSON, err := json.Marshal(value)
	if err != nil {
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInternalError,
			Message: fmt.Sprintf("failed to marshal result: %v", err),
		}
	}
	return &protocol.ToolResult{
		Content: []protocol.ContentItem{protocol.TextContent(string(resultJSON))},
	}, nil
}
