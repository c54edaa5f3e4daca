package jira

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"jiramcp/internal/apierr"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 100
)

// SearchInput bounds a JQL search.
type SearchInput struct {
	JQL        string
	Fields     []string
	StartAt    int
	MaxResults int
}

// SearchResult is the reshaped search payload: total match count plus the
// requested page of flattened issues.
type SearchResult struct {
	Total      int                      `json:"total"`
	StartAt    int                      `json:"startAt"`
	MaxResults int                      `json:"maxResults"`
	Items      []map[string]interface{} `json:"items"`
}

// SearchIssues runs a JQL query. The result limit is clamped to
// [1, maxSearchLimit]; paging past the end returns an empty page.
func (c *Client) SearchIssues(ctx context.Context, in SearchInput, acField string) (*SearchResult, error) {
	if strings.TrimSpace(in.JQL) == "" {
		return nil, apierr.New(apierr.KindValidation, "jql query is empty")
	}
	limit := in.MaxResults
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if in.StartAt < 0 {
		return nil, apierr.New(apierr.KindValidation, "start_at must not be negative")
	}

	query := url.Values{
		"jql":        {in.JQL},
		"startAt":    {strconv.Itoa(in.StartAt)},
		"maxResults": {strconv.Itoa(limit)},
		"fields":     {strings.Join(issueFieldList(in.Fields, acField), ",")},
	}

	var raw struct {
		StartAt    int                      `json:"startAt"`
		MaxResults int                      `json:"maxResults"`
		Total      int                      `json:"total"`
		Issues     []map[string]interface{} `json:"issues"`
	}
	if err := c.get(ctx, apiPrefix+"/search", query, &raw); err != nil {
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
