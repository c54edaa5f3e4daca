package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (p *Provider) registerUserTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("jira_whoami",
		mcp.WithDescription("Return the authenticated account's profile. Useful for verifying credentials."),
	), p.handleWhoami)

	s.AddTool(mcp.NewTool("jira_list_users",
		mcp.WithDescription("List the user accounts on the site."),
		mcp.WithNumber("start_at", mcp.Description("Zero-based index of the first user")),
		mcp.WithNumber("max_results", mcp.Description("Page size; defaults to 50")),
	), p.handleListUsers)

	s.AddTool(mcp.NewTool("jira_find_users",
		mcp.WithDescription("Search users by display name or email."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Name or email fragment to match")),
		mcp.WithNumber("max_results", mcp.Description("Page size; defaults to 50")),
	), p.handleFindUsers)
}

func (p *Provider) handleWhoami(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	me, err := c.Myself(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(me), nil
}

func (p *Provider) handleListUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	users, err := c.ListUsers(ctx,
		request.GetInt("start_at", 0), request.GetInt("max_results", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"users": users}), nil
}

func (p *Provider) handleFindUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return validationError("query argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	users, err := c.FindUsers(ctx, query, request.GetInt("max_results", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"users": users}), nil
}
