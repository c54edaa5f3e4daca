package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (p *Provider) registerProjectTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("jira_list_projects",
		mcp.WithDescription("List the projects visible to the authenticated account."),
		mcp.WithNumber("start_at", mcp.Description("Zero-based index of the first project")),
		mcp.WithNumber("max_results", mcp.Description("Page size; defaults to 50")),
	), p.handleListProjects)

	s.AddTool(mcp.NewTool("jira_get_project",
		mcp.WithDescription("Fetch a project by key or id."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project key or id")),
	), p.handleGetProject)

	s.AddTool(mcp.NewTool("jira_list_versions",
		mcp.WithDescription("List the fix versions of a project."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project key or id")),
	), p.handleListVersions)

	s.AddTool(mcp.NewTool("jira_create_version",
		mcp.WithDescription("Create a fix version in a project."),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Numeric project id")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Version name")),
		mcp.WithString("description", mcp.Description("Version description")),
		mcp.WithString("release_date", mcp.Description("Planned release date, YYYY-MM-DD")),
	), p.handleCreateVersion)

	s.AddTool(mcp.NewTool("jira_list_issue_types",
		mcp.WithDescription("List the issue types defined on the site."),
	), p.handleListIssueTypes)

	s.AddTool(mcp.NewTool("jira_list_statuses",
		mcp.WithDescription("List the workflow statuses defined on the site."),
	), p.handleListStatuses)

	s.AddTool(mcp.NewTool("jira_list_priorities",
		mcp.WithDescription("List the issue priorities defined on the site."),
	), p.handleListPriorities)

	s.AddTool(mcp.NewTool("jira_list_fields",
		mcp.WithDescription("List all issue fields, including custom fields and their ids."),
	), p.handleListFields)

	s.AddTool(mcp.NewTool("jira_list_labels",
		mcp.WithDescription("List the labels in use on the site."),
		mcp.WithNumber("start_at", mcp.Description("Zero-based index of the first label")),
		mcp.WithNumber("max_results", mcp.Description("Page size; defaults to 50")),
	), p.handleListLabels)
}

func (p *Provider) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	projects, total, err := c.ListProjects(ctx,
		request.GetInt("start_at", 0), request.GetInt("max_results", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"total": total, "projects": projects}), nil
}

func (p *Provider) handleGetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := request.RequireString("project")
	if err != nil {
		return validationError("project argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	result, err := c.GetProject(ctx, project)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}

func (p *Provider) handleListVersions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := request.RequireString("project")
	if err != nil {
		return validationError("project argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	versions, err := c.ListVersions(ctx, project)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"versions": versions}), nil
}

func (p *Provider) handleCreateVersion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := request.RequireInt("project_id")
	if err != nil {
		return validationError("project_id argument is required"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return validationError("name argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	version, err := c.CreateVersion(ctx, projectID, name,
		request.GetString("description", ""), request.GetString("release_date", ""))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(version), nil
}

func (p *Provider) handleListIssueTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	types, err := c.ListIssueTypes(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"issueTypes": types}), nil
}

func (p *Provider) handleListStatuses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	statuses, err := c.ListStatuses(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"statuses": statuses}), nil
}

func (p *Provider) handleListPriorities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	priorities, err := c.ListPriorities(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"priorities": priorities}), nil
}

func (p *Provider) handleListFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	fields, err := c.ListFields(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"fields": fields}), nil
}

func (p *Provider) handleListLabels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	labels, total, err := c.ListLabels(ctx,
		request.GetInt("start_at", 0), request.GetInt("max_results", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"total": total, "labels": labels}), nil
}
