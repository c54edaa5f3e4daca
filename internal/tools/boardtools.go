package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"jiramcp/internal/jira"
)

func (p *Provider) registerBoardTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("jira_list_boards",
		mcp.WithDescription("List agile boards, optionally filtered to one project."),
		mcp.WithString("project", mcp.Description("Project key or id to filter by")),
		mcp.WithNumber("start_at", mcp.Description("Zero-based index of the first board")),
		mcp.WithNumber("max_results", mcp.Description("Page size; defaults to 50")),
	), p.handleListBoards)

	s.AddTool(mcp.NewTool("jira_get_board",
		mcp.WithDescription("Fetch an agile board by id."),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board id")),
	), p.handleGetBoard)

	s.AddTool(mcp.NewTool("jira_list_sprints",
		mcp.WithDescription("List the sprints on a board, optionally filtered by state."),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board id")),
		mcp.WithString("state", mcp.Description("Sprint state filter: future, active, or closed")),
		mcp.WithNumber("start_at", mcp.Description("Zero-based index of the first sprint")),
		mcp.WithNumber("max_results", mcp.Description("Page size; defaults to 50")),
	), p.handleListSprints)

	s.AddTool(mcp.NewTool("jira_get_sprint",
		mcp.WithDescription("Fetch a sprint by id."),
		mcp.WithNumber("sprint_id", mcp.Required(), mcp.Description("Sprint id")),
	), p.handleGetSprint)

	s.AddTool(mcp.NewTool("jira_get_sprint_issues",
		mcp.WithDescription("List the issues in a sprint, flattened like search results."),
		mcp.WithNumber("sprint_id", mcp.Required(), mcp.Description("Sprint id")),
		mcp.WithNumber("max_results", mcp.Description("Page size; defaults to 50")),
	), p.handleGetSprintIssues)

	s.AddTool(mcp.NewTool("jira_move_issues_to_sprint",
		mcp.WithDescription("Move issues into a sprint."),
		mcp.WithNumber("sprint_id", mcp.Required(), mcp.Description("Target sprint id")),
		mcp.WithArray("issue_keys", mcp.Required(), mcp.Description("Issue keys to move"),
			mcp.WithStringItems()),
	), p.handleMoveIssuesToSprint)

	s.AddTool(mcp.NewTool("jira_create_sprint",
		mcp.WithDescription("Create a sprint on a board."),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board id")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Sprint name")),
		mcp.WithString("start_date", mcp.Description("Start time, RFC3339")),
		mcp.WithString("end_date", mcp.Description("End time, RFC3339")),
		mcp.WithString("goal", mcp.Description("Sprint goal")),
	), p.handleCreateSprint)

	s.AddTool(mcp.NewTool("jira_update_sprint",
		mcp.WithDescription("Update a sprint. Setting state to active starts it; closed completes it."),
		mcp.WithNumber("sprint_id", mcp.Required(), mcp.Description("Sprint id")),
		mcp.WithString("name", mcp.Description("New sprint name")),
		mcp.WithString("state", mcp.Description("New state: future, active, or closed")),
		mcp.WithString("start_date", mcp.Description("New start time, RFC3339")),
		mcp.WithString("end_date", mcp.Description("New end time, RFC3339")),
		mcp.WithString("goal", mcp.Description("New sprint goal")),
	), p.handleUpdateSprint)
}

func (p *Provider) handleListBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	boards, total, err := c.ListBoards(ctx, request.GetString("project", ""),
		request.GetInt("start_at", 0), request.GetInt("max_results", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"total": total, "boards": boards}), nil
}

func (p *Provider) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return validationError("board_id argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	board, err := c.GetBoard(ctx, boardID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(board), nil
}

func (p *Provider) handleListSprints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return validationError("board_id argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	sprints, err := c.ListSprints(ctx, boardID, request.GetString("state", ""),
		request.GetInt("start_at", 0), request.GetInt("max_results", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"sprints": sprints}), nil
}

func (p *Provider) handleGetSprint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sprintID, err := request.RequireInt("sprint_id")
	if err != nil {
		return validationError("sprint_id argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	sprint, err := c.GetSprint(ctx, sprintID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(sprint), nil
}

func (p *Provider) handleGetSprintIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sprintID, err := request.RequireInt("sprint_id")
	if err != nil {
		return validationError("sprint_id argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	result, err := c.GetSprintIssues(ctx, sprintID, request.GetInt("max_results", 0), p.acField())
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}

func (p *Provider) handleMoveIssuesToSprint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sprintID, err := request.RequireInt("sprint_id")
	if err != nil {
		return validationError("sprint_id argument is required"), nil
	}
	issueKeys := request.GetStringSlice("issue_keys", nil)
	if len(issueKeys) == 0 {
		return validationError("issue_keys argument is required and must not be empty"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	if err := c.MoveIssuesToSprint(ctx, sprintID, issueKeys); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"status": "ok", "sprint_id": sprintID, "moved": issueKeys}), nil
}

func (p *Provider) handleCreateSprint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, err := request.RequireInt("board_id")
	if err != nil {
		return validationError("board_id argument is required"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return validationError("name argument is required"), nil
	}
	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	sprint, err := c.CreateSprint(ctx, boardID, name,
		request.GetString("start_date", ""), request.GetString("end_date", ""),
		request.GetString("goal", ""))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(sprint), nil
}

func (p *Provider) handleUpdateSprint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sprintID, err := request.RequireInt("sprint_id")
	if err != nil {
		return validationError("sprint_id argument is required"), nil
	}
	args := request.GetArguments()

	var in jira.UpdateSprintInput
	if v, ok := args["name"].(string); ok {
		in.Name = &v
	}
	if v, ok := args["state"].(string); ok {
		in.State = &v
	}
	if v, ok := args["start_date"].(string); ok {
		in.StartDate = &v
	}
	if v, ok := args["end_date"].(string); ok {
		in.EndDate = &v
	}
	if v, ok := args["goal"].(string); ok {
		in.Goal = &v
	}

	c, eres := p.client(ctx)
	if eres != nil {
		return eres.result(), nil
	}
	sprint, err := c.UpdateSprint(ctx, sprintID, in)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(sprint), nil
}
