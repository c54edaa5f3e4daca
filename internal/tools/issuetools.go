package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"jiramcp/internal/jira"
)

func (p *Provider) registerIssueTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("jira_get_issue",
		mcp.WithDescription("Fetch a Jira issue by key. Returns a flat object with rich-text fields converted to plain text."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key, e.g. PROJ-123")),
		mcp.WithArray("fields", mcp.Description("Field ids to fetch; defaults to the standard set"),
			mcp.WithStringItems()),
	), p.handleGetIssue)

	s.AddTool(mcp.NewTool("jira_create_issue",
		mcp.WithDescription("Create a Jira issue. Description is plain text and converted to Jira's document format."),
		mcp.WithString("project_key", mcp.Required(), mcp.Description("Project key, e.g. PROJ")),
		mcp.WithString("issue_type", mcp.Required(), mcp.Description("Issue type name, e.g. Task or Bug")),
		mcp.WithString("summary", mcp.Required(), mcp.Description("One-line summary")),
		mcp.WithString("description", mcp.Description("Plain-text description")),
		mcp.WithString("priority", mcp.Description("Priority name")),
		mcp.WithArray("labels", mcp.Description("Labels to set"),
			mcp.WithStringItems()),
		mcp.WithString("assignee_id", mcp.Description("Assignee account id")),
		mcp.WithString("parent_key", mcp.Description("Parent issue key for subtasks")),
	), p.handleCreateIssue)

	s.AddTool(mcp.NewTool("jira_update_issue",
		mcp.WithDescription("Update fields on a Jira issue. Omitted arguments are left unchanged; an empty assignee_id unassigns."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("summary", mcp.Description("New summary")),
		mcp.WithString("description", mcp.Description("New plain-text description")),
		mcp.WithString("priority", mcp.Description("New priority name")),
		mcp.WithArray("labels", mcp.Description("Replacement label set"),
			mcp.WithStringItems()),
		mcp.WithString("assignee_id", mcp.Description("New assignee account id; empty string unassigns")),
	), p.handleUpdateIssue)

	s.AddTool(mcp.NewTool("jira_delete_issue",
		mcp.WithDescription("Delete a Jira issue. Destructive; requires confirm=true."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithBoolean("delete_subtasks", mcp.Description("Also delete the issue's subtasks")),
		mcp.WithBoolean("confirm", mcp.Description("Must be true to actually delete")),
	), p.handleDeleteIssue)

	s.AddTool(mcp.NewTool("jira_get_transitions",
		mcp.WithDescription("List the workflow transitions currently available on an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
	), p.handleGetTransitions)

	s.AddTool(mcp.NewTool("jira_transition_issue",
		mcp.WithDescription("Move an issue through a workflow transition, by transition id or by name."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("transition", mcp.Required(), mcp.Description("Transition id or name, matched case-insensitively")),
	), p.handleTransitionIssue)

	s.AddTool(mcp.NewTool("jira_assign_issue",
		mcp.WithDescription("Assign an issue to an account, or unassign it with an empty account_id."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("account_id", mcp.Description("Assignee account id; empty unassigns")),
	), p.handleAssignIssue)

	s.AddTool(mcp.NewTool("jira_add_labels",
		mcp.WithDescription("Add labels to an issue without disturbing existing ones."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithArray("labels", mcp.Required(), mcp.Description("Labels to add"),
			mcp.WithStringItems()),
	), p.handleAddLabels)

	s.AddTool(mcp.NewTool("jira_remove_labels",
		mcp.WithDescription("Remove labels from an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithArray("labels", mcp.Required(), mcp.Description("Labels to remove"),
			mcp.WithStringItems()),
	), p.handleRemoveLabels)

	s.AddTool(mcp.NewTool("jira_add_watcher",
		mcp.WithDescription("Add a watcher to an issue by account id."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("account_id", mcp.Required(), mcp.Description("Watcher account id")),
	), p.handleAddWatcher)

	s.AddTool(mcp.NewTool("jira_list_watchers",
		mcp.WithDescription("List the accounts watching an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
	), p.handleListWatchers)

	s.AddTool(mcp.NewTool("jira_vote_issue",
		mcp.WithDescription("Add the caller's vote to an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
	), p.handleVoteIssue)

	s.AddTool(mcp.NewTool("jira_list_attachments",
		mcp.WithDescription("List the attachment metadata on an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
	), p.handleListAttachments)

	s.AddTool(mcp.NewTool("jira_link_issues",
		mcp.WithDescription("Create a typed link between two issues, e.g. Blocks or Relates."),
		mcp.WithString("link_type", mcp.Required(), mcp.Description("Link type name")),
		mcp.WithString("inward_key", mcp.Required(), mcp.Description("Inward issue key")),
		mcp.WithString("outward_key", mcp.Required(), mcp.Description("Outward issue key")),
		mcp.WithString("comment", mcp.Description("Optional plain-text comment to attach to the link")),
	), p.handleLinkIssues)

	s.AddTool(mcp.NewTool("jira_unlink_issues",
		mcp.WithDescription("Delete an issue link by id. Destructive; requires confirm=true."),
		mcp.WithString("link_id", mcp.Required(), mcp.Description("Issue link id")),
		mcp.WithBoolean("confirm", mcp.Description("Must be true to actually delete the link")),
	), p.handleUnlinkIssues)

	s.AddTool(mcp.NewTool("jira_list_link_types",
		mcp.WithDescription("List the issue link relationship definitions."),
	), p.handleListLinkTypes)

	s.AddTool(mcp.NewTool("jira_get_remote_links",
		mcp.WithDescription("List the remote web links on an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
	), p.handleGetRemoteLinks)

	s.AddTool(mcp.NewTool("jira_add_remote_link",
		mcp.WithDescription("Attach a web link to an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Link URL")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Link title")),
	), p.handleAddRemoteLink)
}

func (p *Provider) handleGetIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	issue, err := c.GetIssue(ctx, key, request.GetStringSlice("fields", nil), p.acField())
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(issue), nil
}

func (p *Provider) handleCreateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectKey, err := request.RequireString("project_key")
	if err != nil {
		return validationError("project_key argument is required"), nil
	}
	issueType, err := request.RequireString("issue_type")
	if err != nil {
		return validationError("issue_type argument is required"), nil
	}
	summary, err := request.RequireString("summary")
	if err != nil {
		return validationError("summary argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	created, err := c.CreateIssue(ctx, jira.CreateIssueInput{
		ProjectKey:  projectKey,
		IssueType:   issueType,
		Summary:     summary,
		Description: request.GetString("description", ""),
		Priority:    request.GetString("priority", ""),
		Labels:      request.GetStringSlice("labels", nil),
		AssigneeID:  request.GetString("assignee_id", ""),
		ParentKey:   request.GetString("parent_key", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(created), nil
}

func (p *Provider) handleUpdateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	args := request.GetArguments()

	var in jira.UpdateIssueInput
	if v, ok := args["summary"].(string); ok {
		in.Summary = &v
	}
	if v, ok := args["description"].(string); ok {
		in.Description = &v
	}
	if v, ok := args["priority"].(string); ok {
		in.Priority = &v
	}
	if _, ok := args["labels"]; ok {
		in.Labels = request.GetStringSlice("labels", []string{})
	}
	if v, ok := args["assignee_id"].(string); ok {
		in.AssigneeID = &v
	}

	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.UpdateIssue(ctx, key, in); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "ok", "key": key}), nil
}

func (p *Provider) handleDeleteIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	if !request.GetBool("confirm", false) {
		return confirmationRequired("deleting issue " + key), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.DeleteIssue(ctx, key, request.GetBool("delete_subtasks", false)); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "deleted", "key": key}), nil
}

func (p *Provider) handleGetTransitions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	transitions, err := c.GetTransitions(ctx, key)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"transitions": transitions}), nil
}

func (p *Provider) handleTransitionIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	transition, err := request.RequireString("transition")
	if err != nil {
		return validationError("transition argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.TransitionIssue(ctx, key, transition); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "ok", "key": key}), nil
}

func (p *Provider) handleAssignIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.AssignIssue(ctx, key, request.GetString("account_id", "")); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "ok", "key": key}), nil
}

func (p *Provider) handleAddLabels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return p.handleEditLabels(ctx, request, (*jira.Client).AddLabels)
}

func (p *Provider) handleRemoveLabels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return p.handleEditLabels(ctx, request, (*jira.Client).RemoveLabels)
}

func (p *Provider) handleEditLabels(ctx context.Context, request mcp.CallToolRequest,
	edit func(*jira.Client, context.Context, string, []string) error) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	labels := request.GetStringSlice("labels", nil)
	if len(labels) == 0 {
		return validationError("labels argument is required and must not be empty"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := edit(c, ctx, key, labels); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "ok", "key": key, "labels": labels}), nil
}

func (p *Provider) handleAddWatcher(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	accountID, err := request.RequireString("account_id")
	if err != nil {
		return validationError("account_id argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.AddWatcher(ctx, key, accountID); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "ok", "key": key}), nil
}

func (p *Provider) handleListWatchers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	watchers, err := c.ListWatchers(ctx, key)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"watchers": watchers}), nil
}

func (p *Provider) handleVoteIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.VoteIssue(ctx, key); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "ok", "key": key}), nil
}

func (p *Provider) handleListAttachments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	attachments, err := c.ListAttachments(ctx, key)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"attachments": attachments}), nil
}

func (p *Provider) handleLinkIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	linkType, err := request.RequireString("link_type")
	if err != nil {
		return validationError("link_type argument is required"), nil
	}
	inwardKey, err := request.RequireString("inward_key")
	if err != nil {
		return validationError("inward_key argument is required"), nil
	}
	outwardKey, err := request.RequireString("outward_key")
	if err != nil {
		return validationError("outward_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.LinkIssues(ctx, linkType, inwardKey, outwardKey, request.GetString("comment", "")); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "ok"}), nil
}

func (p *Provider) handleUnlinkIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	linkID, err := request.RequireString("link_id")
	if err != nil {
		return validationError("link_id argument is required"), nil
	}
	if !request.GetBool("confirm", false) {
		return confirmationRequired("removing issue link " + linkID), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.UnlinkIssues(ctx, linkID); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "deleted", "link_id": linkID}), nil
}

func (p *Provider) handleListLinkTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	linkTypes, err := c.ListLinkTypes(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"linkTypes": linkTypes}), nil
}

func (p *Provider) handleGetRemoteLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	links, err := c.GetRemoteLinks(ctx, key)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"remoteLinks": links}), nil
}

func (p *Provider) handleAddRemoteLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	linkURL, err := request.RequireString("url")
	if err != nil {
		return validationError("url argument is required"), nil
	}
	title, err := request.RequireString("title")
	if err != nil {
		return validationError("title argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	created, err := c.AddRemoteLink(ctx, key, linkURL, title)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(created), nil
}
