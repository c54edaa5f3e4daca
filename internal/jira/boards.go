package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Agile endpoints live under a separate REST prefix but share the site
// base URL and credential.

// ListBoards returns agile boards, optionally filtered to one project.
func (c *Client) ListBoards(ctx context.Context, projectKeyOrID string, startAt, maxResults int) ([]Board, int, error) {
	query := url.Values{}
	if projectKeyOrID != "" {
		query.Set("projectKeyOrId", projectKeyOrID)
	}
	if startAt > 0 {
		query.Set("startAt", strconv.Itoa(startAt))
	}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}

	var raw struct {
		Total  int     `json:"total"`
		Values []Board `json:"values"`
	}
	if err := c.get(ctx, agilePrefix+"/board", query, &raw); err != nil {
		return nil, 0, err
	}
	return raw.Values, raw.Total, nil
}

// GetBoard fetches one board by id.
func (c *Client) GetBoard(ctx context.Context, boardID int) (*Board, error) {
	var board Board
	if err := c.get(ctx, fmt.Sprintf("%s/board/%d", agilePrefix, boardID), nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// ListSprints returns a board's sprints, optionally filtered by state
// ("active", "future", "closed", or comma-joined combinations).
func (c *Client) ListSprints(ctx context.Context, boardID int, state string, startAt, maxResults int) ([]Sprint, error) {
	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}
	if startAt > 0 {
		query.Set("startAt", strconv.Itoa(startAt))
	}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}

	var raw struct {
		Values []Sprint `json:"values"`
	}
	if err := c.get(ctx, fmt.Sprintf("%s/board/%d/sprint", agilePrefix, boardID), query, &raw); err != nil {
		return nil, err
	}
	return raw.Values, nil
}

// GetSprint fetches one sprint by id.
func (c *Client) GetSprint(ctx context.Context, sprintID int) (*Sprint, error) {
	var sprint Sprint
	if err := c.get(ctx, fmt.Sprintf("%s/sprint/%d", agilePrefix, sprintID), nil, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// GetSprintIssues returns the issues in a sprint, reshaped like search
// results.
func (c *Client) GetSprintIssues(ctx context.Context, sprintID int, maxResults int, acField string) (*SearchResult, error) {
	query := url.Values{
		"fields": {strings.Join(issueFieldList(nil, acField), ",")},
	}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}

	var raw struct {
		Total      int                      `json:"total"`
		StartAt    int                      `json:"startAt"`
		MaxResults int                      `json:"maxResults"`
		Issues     []map[string]interface{} `json:"issues"`
	}
	if err := c.get(ctx, fmt.Sprintf("%s/sprint/%d/issue", agilePrefix, sprintID), query, &raw); err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, 0, len(raw.Issues))
	for _, issue := range raw.Issues {
		items = append(items, reshapeIssue(issue, acField))
	}
	return &SearchResult{
		Total:      raw.Total,
		StartAt:    raw.StartAt,
		MaxResults: raw.MaxResults,
		Items:      items,
	}, nil
}

// MoveIssuesToSprint places issues into a sprint.
func (c *Client) MoveIssuesToSprint(ctx context.Context, sprintID int, issueKeys []string) error {
	body := map[string]interface{}{"issues": issueKeys}
	return c.post(ctx, fmt.Sprintf("%s/sprint/%d/issue", agilePrefix, sprintID), body, nil)
}

// CreateSprint creates a future sprint on a board. Dates are optional
// Jira timestamps.
func (c *Client) CreateSprint(ctx context.Context, boardID int, name, startDate, endDate, goal string) (*Sprint, error) {
	body := map[string]interface{}{
		"originBoardId": boardID,
		"name":          name,
	}
	if startDate != "" {
		body["startDate"] = startDate
	}
	if endDate != "" {
		body["endDate"] = endDate
	}
	if goal != "" {
		body["goal"] = goal
	}
	var sprint Sprint
	if err := c.post(ctx, agilePrefix+"/sprint", body, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// UpdateSprintInput carries partial sprint updates; nil means unchanged.
type UpdateSprintInput struct {
	Name      *string
	State     *string // "active" starts the sprint, "closed" completes it
	StartDate *string
	EndDate   *string
	Goal      *string
}

// UpdateSprint applies a partial update to a sprint.
func (c *Client) UpdateSprint(ctx context.Context, sprintID int, in UpdateSprintInput) (*Sprint, error) {
	body := map[string]interface{}{}
	if in.Name != nil {
		body["name"] = *in.Name
	}
	if in.State != nil {
		body["state"] = *in.State
	}
	if in.StartDate != nil {
		body["startDate"] = *in.StartDate
	}
	if in.EndDate != nil {
		body["endDate"] = *in.EndDate
	}
	if in.Goal != nil {
		body["goal"] = *in.Goal
	}
	var sprint Sprint
	if err := c.post(ctx, fmt.Sprintf("%s/sprint/%d", agilePrefix, sprintID), body, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}
