// Package mcp serves the task tools over JSON-RPC 2.0 using the Model
// Context Protocol method set.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/tools"
)

// ProtocolVersion is the protocol revision reported by initialize.
const ProtocolVersion = "2024-11-05"

// Method names.
const (
	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
	MethodPing       = "ping"
)

// ServerInfo identifies the server in the initialize result.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is returned by initialize.
type InitializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ServerInfo      ServerInfo             `json:"serverInfo"`
}

// ListToolsResult is returned by tools/list.
type ListToolsResult struct {
	Tools []tools.Definition `json:"tools"`
}

// CallToolParams are the parameters of tools/call.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Content is one block of a tool call result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is returned by tools/call. The tool Result is carried both
// as JSON text and as structured content.
type CallToolResult struct {
	Content           []Content    `json:"content"`
	IsError           bool         `json:"isError"`
	StructuredContent tools.Result `json:"structuredContent"`
}

// Server dispatches JSON-RPC requests to a tool registry.
type Server struct {
	registry *tools.Registry
	info     ServerInfo
	logger   *slog.Logger
}

// NewServer creates a server for registry.
func NewServer(registry *tools.Registry, info ServerInfo, logger *slog.Logger) *Server {
	return &Server{
		registry: registry,
		info:     info,
		logger:   logging.OrDefault(logger),
	}
}

// HandleMessage processes one encoded JSON-RPC message and returns the
// response to send, or nil for a notification.
func (s *Server) HandleMessage(ctx context.Context, data []byte) *Response {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return errorResponse(nil, InvalidRequest, "Invalid Request", "batch requests are not supported")
	}

	var req Request
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return errorResponse(nil, ParseError, "Parse error", err.Error())
	}
	return s.Handle(ctx, &req)
}

// Handle processes a decoded request and returns the response to send, or
// nil for a notification.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != "2.0" || req.Method == "" {
		return errorResponse(req.ID, InvalidRequest, "Invalid Request", "jsonrpc must be 2.0 and method is required")
	}

	if req.IsNotification() {
		s.logger.DebugContext(ctx, "notification received", "method", req.Method)
		return nil
	}

	result, rpcErr := s.dispatch(ctx, req)
	if rpcErr != nil {
		s.logger.InfoContext(ctx, "request failed", "method", req.Method, "code", rpcErr.Code, "error", rpcErr.Message)
		return &Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return resultResponse(req.ID, result)
}

func (s *Server) dispatch(ctx context.Context, req *Request) (interface{}, *Error) {
	switch req.Method {
	case MethodInitialize:
		return InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
			ServerInfo:      s.info,
		}, nil

	case MethodPing:
		return map[string]interface{}{}, nil

	case MethodToolsList:
		return ListToolsResult{Tools: s.registry.Definitions()}, nil

	case MethodToolsCall:
		var params CallToolParams
		if len(req.Params) == 0 {
			return nil, &Error{Code: InvalidParams, Message: "Invalid params", Data: "params are required"}
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, &Error{Code: InvalidParams, Message: "Invalid params", Data: err.Error()}
		}
		if params.Name == "" {
			return nil, &Error{Code: InvalidParams, Message: "Invalid params", Data: "tool name is required"}
		}

		result, err := s.registry.Call(ctx, params.Name, params.Arguments)
		if errors.Is(err, tools.ErrUnknownTool) {
			return nil, &Error{Code: InvalidParams, Message: "Unknown tool", Data: params.Name}
		}
		if err != nil {
			return nil, &Error{Code: InternalError, Message: "Internal error", Data: err.Error()}
		}
		return newCallToolResult(result)

	default:
		return nil, &Error{Code: MethodNotFound, Message: "Method not found", Data: req.Method}
	}
}

func newCallToolResult(result tools.Result) (interface{}, *Error) {
	text, err := json.Marshal(result)
	if err != nil {
		return nil, &Error{Code: InternalError, Message: "Internal error", Data: err.Error()}
	}
	return CallToolResult{
		Content:           []Content{{Type: "text", Text: string(text)}},
		IsError:           result.IsError(),
		StructuredContent: result,
	}, nil
}
