package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (p *Provider) registerCommentTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("jira_get_comments",
		mcp.WithDescription("List the comments on an issue, oldest first, with bodies flattened to plain text."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithNumber("start_at", mcp.Description("Zero-based index of the first comment")),
		mcp.WithNumber("max_results", mcp.Description("Page size; defaults to 50")),
	), p.handleGetComments)

	s.AddTool(mcp.NewTool("jira_add_comment",
		mcp.WithDescription("Add a plain-text comment to an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Comment text")),
	), p.handleAddComment)

	s.AddTool(mcp.NewTool("jira_update_comment",
		mcp.WithDescription("Replace the body of an existing comment."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("comment_id", mcp.Required(), mcp.Description("Comment id")),
		mcp.WithString("body", mcp.Required(), mcp.Description("New comment text")),
	), p.handleUpdateComment)

	s.AddTool(mcp.NewTool("jira_delete_comment",
		mcp.WithDescription("Delete a comment. Destructive; requires confirm=true."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("comment_id", mcp.Required(), mcp.Description("Comment id")),
		mcp.WithBoolean("confirm", mcp.Description("Must be true to actually delete")),
	), p.handleDeleteComment)

	s.AddTool(mcp.NewTool("jira_get_worklogs",
		mcp.WithDescription("List the worklog entries on an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
	), p.handleGetWorklogs)

	s.AddTool(mcp.NewTool("jira_add_worklog",
		mcp.WithDescription("Log time on an issue."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("time_spent", mcp.Required(), mcp.Description("Duration in Jira notation, e.g. 3h 30m")),
		mcp.WithString("comment", mcp.Description("Plain-text worklog comment")),
		mcp.WithString("started", mcp.Description("Work start time, RFC3339 with milliseconds; defaults to now")),
	), p.handleAddWorklog)

	s.AddTool(mcp.NewTool("jira_delete_worklog",
		mcp.WithDescription("Delete a worklog entry. Destructive; requires confirm=true."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Issue key")),
		mcp.WithString("worklog_id", mcp.Required(), mcp.Description("Worklog id")),
		mcp.WithBoolean("confirm", mcp.Description("Must be true to actually delete")),
	), p.handleDeleteWorklog)
}

func (p *Provider) handleGetComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	comments, total, err := c.GetComments(ctx, key,
		request.GetInt("start_at", 0), request.GetInt("max_results", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"total": total, "comments": comments}), nil
}

func (p *Provider) handleAddComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	body, err := request.RequireString("body")
	if err != nil {
		return validationError("body argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	comment, err := c.AddComment(ctx, key, body)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(comment), nil
}

func (p *Provider) handleUpdateComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	commentID, err := request.RequireString("comment_id")
	if err != nil {
		return validationError("comment_id argument is required"), nil
	}
	body, err := request.RequireString("body")
	if err != nil {
		return validationError("body argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	comment, err := c.UpdateComment(ctx, key, commentID, body)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(comment), nil
}

func (p *Provider) handleDeleteComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	commentID, err := request.RequireString("comment_id")
	if err != nil {
		return validationError("comment_id argument is required"), nil
	}
	if !request.GetBool("confirm", false) {
		return confirmationRequired("deleting comment " + commentID), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.DeleteComment(ctx, key, commentID); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "deleted", "comment_id": commentID}), nil
}

func (p *Provider) handleGetWorklogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	worklogs, err := c.GetWorklogs(ctx, key)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"worklogs": worklogs}), nil
}

func (p *Provider) handleAddWorklog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	timeSpent, err := request.RequireString("time_spent")
	if err != nil {
		return validationError("time_spent argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	created, err := c.AddWorklog(ctx, key, timeSpent,
		request.GetString("comment", ""), request.GetString("started", ""))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(created), nil
}

func (p *Provider) handleDeleteWorklog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("issue_key")
	if err != nil {
		return validationError("issue_key argument is required"), nil
	}
	worklogID, err := request.RequireString("worklog_id")
	if err != nil {
		return validationError("worklog_id argument is required"), nil
	}
	if !request.GetBool("confirm", false) {
		return confirmationRequired("deleting worklog " + worklogID), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.DeleteWorklog(ctx, key, worklogID); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "deleted", "worklog_id": worklogID}), nil
}
