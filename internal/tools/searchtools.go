package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"jiramcp/internal/jira"
)

func (p *Provider) registerSearchTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("jira_search_issues",
		mcp.WithDescription("Search issues with a JQL query. Returns a page of flattened issues plus the total match count."),
		mcp.WithString("jql", mcp.Required(), mcp.Description("JQL query, e.g. project = PROJ AND status = \"In Progress\"")),
		mcp.WithArray("fields", mcp.Description("Field ids to fetch per issue; defaults to the standard set"),
			mcp.WithStringItems()),
		mcp.WithNumber("start_at", mcp.Description("Zero-based index of the first result")),
		mcp.WithNumber("max_results", mcp.Description("Page size, capped at 100; defaults to 50")),
	), p.handleSearchIssues)
}

func (p *Provider) handleSearchIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jql, err := request.RequireString("jql")
	if err != nil {
		return validationError("jql argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	result, err := c.SearchIssues(ctx, jira.SearchInput{
		JQL:        jql,
		Fields:     request.GetStringSlice("fields", nil),
		StartAt:    request.GetInt("start_at", 0),
		MaxResults: request.GetInt("max_results", 0),
	}, p.acField())
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}
