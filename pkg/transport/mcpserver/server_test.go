package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgmcp/pkg/convert"
	"github.com/matzehuels/svgmcp/pkg/output"
	"github.com/matzehuels/svgmcp/pkg/tools"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"><rect width="100" height="100" fill="red"/></svg>`

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func roundTrip(t *testing.T, method string, params any) rpcResponse {
	t.Helper()
	logger := log.New(io.Discard)
	pkgr := &output.Packager{Dir: t.TempDir(), Registry: output.NewRegistry()}
	s := New(tools.NewDispatcher(convert.NewConverter(pkgr, logger), logger), logger)

	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	msg := s.HandleMessage(context.Background(), raw)

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal(response) error = %v", err)
	}
	var resp rpcResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("Unmarshal(response) error = %v", err)
	}
	return resp
}

func TestListTools(t *testing.T) {
	resp := roundTrip(t, "tools/list", map[string]any{})
	if resp.Error != nil {
		t.Fatalf("tools/list error = %+v", resp.Error)
	}

	var result struct {
		Tools []struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("Unmarshal(result) error = %v", err)
	}
	if len(result.Tools) != 2 {
		t.Fatalf("len(tools) = %d, want 2", len(result.Tools))
	}

	byName := make(map[string]string)
	for _, tool := range result.Tools {
		byName[tool.Name] = tool.Description
		if tool.InputSchema["type"] != "object" {
			t.Errorf("%s inputSchema type = %v, want object", tool.Name, tool.InputSchema["type"])
		}
	}
	if byName[tools.NamePNG] != "Convert SVG text to PNG image" {
		t.Errorf("svg_to_png description = %q", byName[tools.NamePNG])
	}
	if byName[tools.NameJPEG] != "Convert SVG text to JPEG image" {
		t.Errorf("svg_to_jpeg description = %q", byName[tools.NameJPEG])
	}
}

func TestCallToolSuccess(t *testing.T) {
	resp := roundTrip(t, "tools/call", map[string]any{
		"name": tools.NamePNG,
		"arguments": map[string]any{
			"svg_content":   square,
			"width":         20,
			"height":        10,
			"return_base64": true,
		},
	})
	if resp.Error != nil {
		t.Fatalf("tools/call error = %+v", resp.Error)
	}

	var result struct {
		IsError bool `json:"isError"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("Unmarshal(result) error = %v", err)
	}
	if result.IsError || len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("result = %+v", result)
	}

	var out output.Result
	if err := json.Unmarshal([]byte(result.Content[0].Text), &out); err != nil {
		t.Fatalf("content text is not a result record: %v", err)
	}
	if out.MIMEType != "image/png" || out.Base64Data == "" || out.FilePath != "" {
		t.Errorf("result record = %+v", out)
	}
}

func TestCallToolFailureIsProtocolError(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]any
		wantCode int
		wantMsg  string
	}{
		{
			name:     "missing svg_content",
			params:   map[string]any{"name": tools.NameJPEG, "arguments": map[string]any{"width": 10}},
			wantCode: -32602,
			wantMsg:  "missing svg_content",
		},
		{
			name:     "no arguments",
			params:   map[string]any{"name": tools.NamePNG},
			wantCode: -32602,
			wantMsg:  "missing arguments",
		},
		{
			name:     "arguments not an object",
			params:   map[string]any{"name": tools.NamePNG, "arguments": []int{1}},
			wantCode: -32602,
			wantMsg:  "arguments must be an object",
		},
		{
			name:     "bad dimensions",
			params:   map[string]any{"name": tools.NamePNG, "arguments": map[string]any{"svg_content": square, "width": -5}},
			wantCode: -32602,
		},
		{
			name:     "unknown tool",
			params:   map[string]any{"name": "svg_to_gif", "arguments": map[string]any{"svg_content": square}},
			wantCode: -32601,
			wantMsg:  "unknown tool: svg_to_gif",
		},
		{
			name:     "misspelled tool",
			params:   map[string]any{"name": "svg_to_pn", "arguments": map[string]any{"svg_content": square}},
			wantCode: -32601,
			wantMsg:  "did you mean svg_to_png?",
		},
		{
			name:     "unparseable svg",
			params:   map[string]any{"name": tools.NamePNG, "arguments": map[string]any{"svg_content": "<svg"}},
			wantCode: -32603,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := roundTrip(t, "tools/call", tt.params)
			if resp.Error == nil {
				t.Fatalf("tools/call error = nil, want code %d", tt.wantCode)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %d, want %d (message %q)", resp.Error.Code, tt.wantCode, resp.Error.Message)
			}
			if !strings.Contains(resp.Error.Message, tt.wantMsg) {
				t.Errorf("error message = %q, want it to contain %q", resp.Error.Message, tt.wantMsg)
			}
		})
	}
}

func TestServeStdio(t *testing.T) {
	logger := log.New(io.Discard)
	pkgr := &output.Packager{Dir: t.TempDir(), Registry: output.NewRegistry()}
	s := New(tools.NewDispatcher(convert.NewConverter(pkgr, logger), logger), logger)

	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
		``,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"svg_to_gif","arguments":{"svg_content":"<svg/>"}}}`,
	}, "\n"))
	var out strings.Builder
	if err := s.ServeStdio(context.Background(), in, &out); err != nil {
		t.Fatalf("ServeStdio() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d responses, want 2:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], `"id":1`) || !strings.Contains(lines[0], tools.NamePNG) {
		t.Errorf("tools/list response = %s", lines[0])
	}
	var resp rpcResponse
	if err := json.Unmarshal([]byte(lines[1]), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Errorf("tools/call response = %s, want code -32601", lines[1])
	}
}
