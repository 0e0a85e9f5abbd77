package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regwatch/regwatch-mcp/internal/tools"
	"github.com/regwatch/regwatch-mcp/pkg/protocol"
	"github.com/regwatch/regwatch-mcp/pkg/version"
)

type fakeTool struct {
	name    string
	execute func(ctx context.Context, input json.RawMessage) (any, error)
}

func (t *fakeTool) Name() string            { return t.name }
func (t *fakeTool) Description() string     { return "fake tool for handler tests" }
func (t *fakeTool) Schema() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }

func (t *fakeTool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	return t.execute(ctx, input)
}

func newTestHandler(t *testing.T, toolset ...tools.Tool) *Handler {
	t.Helper()
	registry := tools.NewRegistry()
	for _, tool := range toolset {
		require.NoError(t, registry.Register(tool))
	}
	return NewHandler(registry)
}

func request(t *testing.T, method string, params any) *jsonrpc2.Request {
	t.Helper()
	req := &jsonrpc2.Request{Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		msg := json.RawMessage(raw)
		req.Params = &msg
	}
	return req
}

func TestInitializeNegotiatesKnownProtocolVersion(t *testing.T) {
	handler := newTestHandler(t)

	result, err := handler.Handle(context.Background(), nil, request(t, "initialize", protocol.InitializeParams{
		ProtocolVersion: version.ProtocolVersion,
		ClientInfo:      protocol.ClientInfo{Name: "test-client", Version: "1.0"},
	}))
	require.NoError(t, err)

	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, version.ProtocolVersion, init.ProtocolVersion)
	assert.Equal(t, "regwatch-mcp", init.ServerInfo.Name)
	assert.NotNil(t, init.Capabilities.Tools)
}

func TestInitializeFallsBackOnUnknownProtocolVersion(t *testing.T) {
	handler := newTestHandler(t)

	result, err := handler.Handle(context.Background(), nil, request(t, "initialize", protocol.InitializeParams{
		ProtocolVersion: "1999-12-31",
	}))
	require.NoError(t, err)

	init := result.(protocol.InitializeResult)
	assert.Equal(t, version.ProtocolVersion, init.ProtocolVersion)
}

func TestPing(t *testing.T) {
	handler := newTestHandler(t)

	result, err := handler.Handle(context.Background(), nil, request(t, "ping", nil))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, result)
}

func TestListToolsIncludesSchemas(t *testing.T) {
	handler := newTestHandler(t, &fakeTool{
		name:    "fake_tool",
		execute: func(context.Context, json.RawMessage) (any, error) { return nil, nil },
	})

	result, err := handler.Handle(context.Background(), nil, request(t, "tools/list", nil))
	require.NoError(t, err)

	list, ok := result.(protocol.ListToolsResult)
	require.True(t, ok)
	require.Len(t, list.Tools, 1)
	assert.Equal(t, "fake_tool", list.Tools[0].Name)
	assert.JSONEq(t, `{"type":"object"}`, string(list.Tools[0].InputSchema))
}

func TestCallToolPassesThroughToolResult(t *testing.T) {
	shaped := &protocol.ToolResult{
		Content: []protocol.ContentItem{protocol.TextContent("shaped output")},
	}
	handler := newTestHandler(t, &fakeTool{
		name:    "shaped",
		execute: func(context.Context, json.RawMessage) (any, error) { return shaped, nil },
	})

	result, err := handler.Handle(context.Background(), nil, request(t, "tools/call", protocol.CallToolParams{
		Name: "shaped",
	}))
	require.NoError(t, err)
	assert.Same(t, shaped, result)
}

func TestCallToolMarshalsPlainValues(t *testing.T) {
	handler := newTestHandler(t, &fakeTool{
		name: "plain",
		execute: func(context.Context, json.RawMessage) (any, error) {
			return map[string]int{"answer": 42}, nil
		},
	})

	result, err := handler.Handle(context.Background(), nil, request(t, "tools/call", protocol.CallToolParams{
		Name: "plain",
	}))
	require.NoError(t, err)

	toolResult, ok := result.(*protocol.ToolResult)
	require.True(t, ok)
	require.Len(t, toolResult.Content, 1)
	assert.JSONEq(t, `{"answer":42}`, toolResult.Content[0].Text)
}

func TestCallToolForwardsArguments(t *testing.T) {
	var gotInput json.RawMessage
	handler := newTestHandler(t, &fakeTool{
		name: "echo",
		execute: func(_ context.Context, input json.RawMessage) (any, error) {
			gotInput = input
			return "ok", nil
		},
	})

	_, err := handler.Handle(context.Background(), nil, request(t, "tools/call", protocol.CallToolParams{
		Name:      "echo",
		Arguments: json.RawMessage(`{"jurisdiction":"CO"}`),
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"jurisdiction":"CO"}`, string(gotInput))
}

func TestCallToolMapsToolErrorsToJSONRPCCodes(t *testing.T) {
	handler := newTestHandler(t, &fakeTool{
		name: "strict",
		execute: func(context.Context, json.RawMessage) (any, error) {
			return nil, tools.NewInvalidArgumentsError("strict", errors.New("bad input"))
		},
	})

	_, err := handler.Handle(context.Background(), nil, request(t, "tools/call", protocol.CallToolParams{
		Name: "strict",
	}))
	require.Error(t, err)

	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(-32602), rpcErr.Code)
}

func TestCallToolUnknownToolIsMethodLevelError(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Handle(context.Background(), nil, request(t, "tools/call", protocol.CallToolParams{
		Name: "missing",
	}))
	require.Error(t, err)

	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(-32601), rpcErr.Code)
}

func TestCallToolMissingNameIsInvalidParams(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Handle(context.Background(), nil, request(t, "tools/call", protocol.CallToolParams{}))
	require.Error(t, err)

	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(jsonrpc2.CodeInvalidParams), rpcErr.Code)
}

func TestCallToolRecoversFromPanic(t *testing.T) {
	handler := newTestHandler(t, &fakeTool{
		name: "explosive",
		execute: func(context.Context, json.RawMessage) (any, error) {
			panic("boom")
		},
	})

	_, err := handler.Handle(context.Background(), nil, request(t, "tools/call", protocol.CallToolParams{
		Name: "explosive",
	}))
	require.Error(t, err)

	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(jsonrpc2.CodeInternalError), rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "boom")
}

func TestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Handle(context.Background(), nil, request(t, "resources/list", nil))
	require.Error(t, err)

	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "resources/list")
}
