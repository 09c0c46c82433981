package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hposconfig "github.com/aretw0/hpos-config"
	"github.com/aretw0/hpos-config/pkg/domain"
)

const validDoc = `{"v1": {"seed": "s", "settings": {"admin": {"email": "a@b", "public_key": "k"}}}}`

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.mcpServer.GetTool(name)
	require.NotNil(t, tool, "tool %s should be registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestTools_Registered(t *testing.T) {
	s := NewServer(hposconfig.NewService(), nil)

	var names []string
	for name := range s.mcpServer.ListTools() {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"validate_config", "get_report", "get_schema"}, names)
}

func TestValidateConfig(t *testing.T) {
	s := NewServer(hposconfig.NewService(), nil)

	res := callTool(t, s, "validate_config", map[string]any{"document": validDoc})
	assert.False(t, res.IsError)
	report, ok := res.StructuredContent.(domain.Report)
	require.True(t, ok, "structured content should be a report, got %T", res.StructuredContent)
	assert.True(t, report.Valid)

	bad := strings.Replace(validDoc, "a@b", "not-an-email", 1)
	res = callTool(t, s, "validate_config", map[string]any{"document": bad})
	assert.False(t, res.IsError, "an invalid document is a report, not a tool error")
	report = res.StructuredContent.(domain.Report)
	assert.False(t, report.Valid)
	assert.Equal(t, "PredicateFailed", report.Kind)
	assert.Contains(t, textOf(t, res), `"path":"hpos-config.json: .v1.settings.admin.email"`)

	res = callTool(t, s, "get_report", map[string]any{"id": report.ID})
	assert.False(t, res.IsError)
	assert.Equal(t, report.ID, res.StructuredContent.(domain.Report).ID)
}

func TestValidateConfig_MissingDocument(t *testing.T) {
	s := NewServer(hposconfig.NewService(), nil)

	res := callTool(t, s, "validate_config", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "document is required")
}

func TestGetReport_NotFound(t *testing.T) {
	s := NewServer(hposconfig.NewService(), nil)

	res := callTool(t, s, "get_report", map[string]any{"id": "missing"})
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), domain.ErrReportNotFound.Error())
}

func TestGetSchema(t *testing.T) {
	s := NewServer(hposconfig.NewService(), nil)

	res := callTool(t, s, "get_schema", nil)
	assert.False(t, res.IsError)
	text := textOf(t, res)
	assert.Contains(t, text, "email: !pred is_email")
	assert.Contains(t, text, "seed: !type string")
}
