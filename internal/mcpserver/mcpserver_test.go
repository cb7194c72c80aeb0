// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/analytics-scout/internal/service"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

type emptyOrg struct{}

func (emptyOrg) Tree(context.Context, string, string, string) ([]string, error) { return nil, nil }
func (emptyOrg) Content(context.Context, string, string, string, string) ([]byte, error) {
	return nil, nil
}
func (emptyOrg) SearchCode(context.Context, string) ([]types.CodeSearchHit, error) { return nil, nil }
func (emptyOrg) OrgRepos(context.Context, string) ([]types.Repository, error) {
	return []types.Repository{{Name: "tracking-lib"}}, nil
}
func (emptyOrg) PullRequestFiles(context.Context, string, string, int) ([]types.ChangedFile, error) {
	return nil, nil
}

var testImpl = &mcp.Implementation{Name: "analytics-scout-test", Version: "0.1.0"}

func session(t *testing.T) *mcp.ClientSession {
	t.Helper()
	svc := service.New(emptyOrg{}, types.DefaultConfig(), service.Options{Limiter: rate.NewLimiter(rate.Inf, 1)})
	srv := New(svc, "test")

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testImpl, nil)
	s, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func callTool(t *testing.T, s *mcp.ClientSession, name string, args any) (*mcp.CallToolResult, string) {
	t.Helper()
	res, err := s.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return res, tc.Text
}

func TestListTools(t *testing.T) {
	s := session(t)

	res, err := s.ListTools(context.Background(), nil)

	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"scan_repository", "analyze_file", "analyze_pull_request", "validate_events",
		"generate_documentation", "search_org_event", "export_tracking_plan",
	}, names)
}

func TestValidateEventsTool(t *testing.T) {
	s := session(t)

	res, text := callTool(t, s, "validate_events", map[string]any{
		"events": []map[string]any{{"name": "page_viewed"}},
	})

	assert.False(t, res.IsError)
	var v service.Validation
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, 82, v.Quality.Score)
}

func TestGenerateDocumentationToolReturnsMarkdown(t *testing.T) {
	s := session(t)

	_, text := callTool(t, s, "generate_documentation", map[string]any{
		"events": []map[string]any{{"name": "Order Completed", "properties": map[string]any{"total": 3}}},
	})

	assert.True(t, strings.HasPrefix(text, "# Analytics Events"))
}

func TestSearchOrgEventToolFallsBack(t *testing.T) {
	s := session(t)

	_, text := callTool(t, s, "search_org_event", map[string]any{"org": "acme", "event_name": "Share Dialog Opened"})

	var sr types.SearchResult
	require.NoError(t, json.Unmarshal([]byte(text), &sr))
	assert.Equal(t, types.PhaseExactMatchFailed, sr.Phase)
	assert.Equal(t, []string{"share", "dialog", "opened"}, sr.Guidance.Tokens)
}

func TestToolErrorsAreResults(t *testing.T) {
	s := session(t)

	res, text := callTool(t, s, "analyze_file", map[string]any{"owner": "acme", "repo": "web", "path": ""})

	assert.True(t, res.IsError)
	assert.Contains(t, text, "path")
}
