// Package mcpserver serves the conversion tools over the Model Context
// Protocol on stdio.
package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/matzehuels/svgmcp/pkg/buildinfo"
	svgerrors "github.com/matzehuels/svgmcp/pkg/errors"
	"github.com/matzehuels/svgmcp/pkg/tools"
)

// Server identity.
const (
	Name         = "svgmcp"
	Instructions = "This server provides SVG to image conversion tools. You can convert SVG text content to PNG or JPEG images."
)

// Server answers MCP messages. Session methods (initialize, ping,
// tools/list) go to the underlying mcp-go server; tools/call goes straight
// to the dispatcher so its error codes reach the client.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *tools.Dispatcher
	logger     *log.Logger
}

// New returns an MCP server with every tool registered against d.
func New(d *tools.Dispatcher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := server.NewMCPServer(Name, buildinfo.Version,
		server.WithToolCapabilities(false),
		server.WithInstructions(Instructions),
		server.WithRecovery(),
	)
	for _, desc := range tools.List().Tools {
		tool := mcp.NewToolWithRawSchema(desc.Name, desc.Description, desc.Schema.Raw())
		s.AddTool(tool, handler(d, logger))
	}
	return &Server{mcp: s, dispatcher: d, logger: logger}
}

// handler adapts the dispatcher to an MCP tool handler for callers that
// drive the mcp-go server directly.
func handler(d *tools.Dispatcher, logger *log.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := d.Call(ctx, req.Params.Name, req.GetArguments())
		if err != nil {
			logger.Warn("tool call failed", "tool", req.Params.Name, "error", err)
			return nil, err
		}
		return mcp.NewToolResultText(resp.Content), nil
	}
}

// rpcCall is the subset of a JSON-RPC request needed to route tools/call.
type rpcCall struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"params"`
}

type rpcResult struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
}

type rpcError struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   rpcErrorBody    `json:"error"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HandleMessage answers one JSON-RPC message. It returns nil for
// notifications.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	var call rpcCall
	if err := json.Unmarshal(raw, &call); err != nil || call.Method != string(mcp.MethodToolsCall) || len(call.ID) == 0 {
		return s.mcp.HandleMessage(ctx, raw)
	}

	args, err := decodeArguments(call.Params.Arguments)
	if err == nil {
		var resp *tools.Response
		resp, err = s.dispatcher.Call(ctx, call.Params.Name, args)
		if err == nil {
			return rpcResult{JSONRPC: mcp.JSONRPC_VERSION, ID: call.ID, Result: mcp.NewToolResultText(resp.Content)}
		}
	}
	s.logger.Warn("tool call failed", "tool", call.Params.Name, "error", err)
	return rpcError{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      call.ID,
		Error:   rpcErrorBody{Code: rpcCode(err), Message: svgerrors.UserMessage(err)},
	}
}

// decodeArguments returns nil for absent or null arguments.
func decodeArguments(raw json.RawMessage) (tools.Args, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var args tools.Args
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, svgerrors.Wrap(svgerrors.ErrCodeInvalidParams, err, "arguments must be an object")
	}
	return args, nil
}

// rpcCode maps a dispatcher error onto a JSON-RPC error code.
func rpcCode(err error) int {
	switch svgerrors.GetCode(err) {
	case svgerrors.ErrCodeInvalidParams:
		return mcp.INVALID_PARAMS
	case svgerrors.ErrCodeMethodNotFound:
		return mcp.METHOD_NOT_FOUND
	default:
		return mcp.INTERNAL_ERROR
	}
}

// ServeStdio reads newline-delimited messages from in and writes each
// response to out until ctx is cancelled or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadBytes('\n')
			if len(bytes.TrimSpace(line)) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err == io.EOF {
					err = nil
				}
				readErr <- err
				return
			}
		}
	}()

	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			resp := s.HandleMessage(ctx, line)
			if resp == nil {
				continue
			}
			if err := enc.Encode(resp); err != nil {
				return err
			}
		}
	}
}
