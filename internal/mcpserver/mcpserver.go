// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver exposes the service operations as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pdiddy/analytics-scout/internal/service"
)

// ServerName identifies the server to MCP clients.
const ServerName = "analytics-scout"

// New returns an MCP server with every operation registered as a tool.
func New(svc *service.Service, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	Register(srv, svc)
	return srv
}

// Register adds one tool per service operation to srv.
func Register(srv *mcp.Server, svc *service.Service) {
	for _, op := range service.Operations() {
		schema, err := json.Marshal(op.InputSchema)
		if err != nil {
			panic(fmt.Sprintf("mcpserver: marshal input schema of %s: %v", op.Name, err))
		}
		tool := &mcp.Tool{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: json.RawMessage(schema),
		}
		name := op.Name
		srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res := svc.Call(ctx, name, req.Params.Arguments)
			if !res.OK {
				var out mcp.CallToolResult
				out.SetError(errors.New(res.Error))
				return &out, nil
			}
			text, err := render(res.Data)
			if err != nil {
				var out mcp.CallToolResult
				out.SetError(fmt.Errorf("%s: %w", name, err))
				return &out, nil
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: text}},
			}, nil
		})
	}
}

// render returns text data (Markdown, YAML) as is and encodes everything
// else as indented JSON.
func render(data any) (string, error) {
	if s, ok := data.(string); ok {
		return s, nil
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	return string(out), nil
}

// ServeStdio runs srv over stdin/stdout until the client disconnects or
// ctx is cancelled.
func ServeStdio(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}
