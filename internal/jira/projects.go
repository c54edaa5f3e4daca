package jira

import (
	"context"
	"net/url"
	"strconv"
)

// ListProjects returns the projects visible to the caller, paged.
func (c *Client) ListProjects(ctx context.Context, startAt, maxResults int) ([]Project, int, error) {
	query := url.Values{}
	if startAt > 0 {
		query.Set("startAt", strconv.Itoa(startAt))
	}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}

	var raw struct {
		Total  int       `json:"total"`
		Values []Project `json:"values"`
	}
	if err := c.get(ctx, apiPrefix+"/project/search", query, &raw); err != nil {
		return nil, 0, err
	}
	return raw.Values, raw.Total, nil
}

// GetProject fetches one project by key or id.
func (c *Client) GetProject(ctx context.Context, keyOrID string) (*Project, error) {
	var project Project
	if err := c.get(ctx, apiPrefix+"/project/"+url.PathEscape(keyOrID), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListVersions returns a project's versions (releases).
func (c *Client) ListVersions(ctx context.Context, projectKeyOrID string) ([]Version, error) {
	var versions []Version
	if err := c.get(ctx, apiPrefix+"/project/"+url.PathEscape(projectKeyOrID)+"/versions", nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// CreateVersion creates a release in a project. projectID is the numeric
// project id (not the key); releaseDate is optional YYYY-MM-DD.
func (c *Client) CreateVersion(ctx context.Context, projectID int, name, description, releaseDate string) (*Version, error) {
	body := map[string]interface{}{
		"projectId": projectID,
		"name":      name,
	}
	if description != "" {
		body["description"] = description
	}
	if releaseDate != "" {
		body["releaseDate"] = releaseDate
	}
	var version Version
	if err := c.post(ctx, apiPrefix+"/version", body, &version); err != nil {
		return nil, err
	}
	return &version, nil
}

// ListIssueTypes returns the issue types defined on the site.
func (c *Client) ListIssueTypes(ctx context.Context) ([]IssueType, error) {
	var types []IssueType
	if err := c.get(ctx, apiPrefix+"/issuetype", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// ListStatuses returns the workflow statuses defined on the site.
func (c *Client) ListStatuses(ctx context.Context) ([]StatusDef, error) {
	var statuses []StatusDef
	if err := c.get(ctx, apiPrefix+"/status", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// ListPriorities returns the priority levels defined on the site.
func (c *Client) ListPriorities(ctx context.Context) ([]Priority, error) {
	var priorities []Priority
	if err := c.get(ctx, apiPrefix+"/priority", nil, &priorities); err != nil {
		return nil, err
	}
	return priorities, nil
}

// ListFields returns every field the site knows, including custom
// fields. Useful for discovering the acceptance-criteria field id.
func (c *Client) ListFields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.get(ctx, apiPrefix+"/field", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// ListLabels returns the site's label values, paged.
func (c *Client) ListLabels(ctx context.Context, startAt, maxResults int) ([]string, int, error) {
	query := url.Values{}
	if startAt > 0 {
		query.Set("startAt", strconv.Itoa(startAt))
	}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}

	var raw struct {
		Total  int      `json:"total"`
		Values []string `json:"values"`
	}
	if err := c.get(ctx, apiPrefix+"/label", query, &raw); err != nil {
		return nil, 0, err
	}
	return raw.Values, raw.Total, nil
}
