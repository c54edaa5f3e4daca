package jira

import (
	"context"
	"net/url"
	"strconv"
)

// Comment is a reshaped issue comment with its rich-text body flattened
// to plain text.
type Comment struct {
	ID      string `json:"id"`
	Author  string `json:"author,omitempty"`
	Body    string `json:"body"`
	Created string `json:"created,omitempty"`
	Updated string `json:"updated,omitempty"`
}

// GetComments lists the comments on an issue, oldest first.
func (c *Client) GetComments(ctx context.Context, key string, startAt, maxResults int) ([]Comment, int, error) {
	query := url.Values{}
	if startAt > 0 {
		query.Set("startAt", strconv.Itoa(startAt))
	}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}

	var raw struct {
		Total    int                      `json:"total"`
		Comments []map[string]interface{} `json:"comments"`
	}
	if err := c.get(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/comment", query, &raw); err != nil {
		return nil, 0, err
	}

	out := make([]Comment, 0, len(raw.Comments))
	for _, m := range raw.Comments {
		out = append(out, reshapeComment(m))
	}
	return out, raw.Total, nil
}

func reshapeComment(m map[string]interface{}) Comment {
	comment := Comment{
		ID:      stringValue(m["id"]),
		Body:    textFromADF(m["body"]),
		Created: stringValue(m["created"]),
		Updated: stringValue(m["updated"]),
	}
	if author, ok := m["author"].(map[string]interface{}); ok {
		comment.Author = stringValue(author["displayName"])
	}
	return comment
}

// AddComment appends a plain-text comment, converted to rich text on the
// wire, and returns the created comment.
func (c *Client) AddComment(ctx context.Context, key, body string) (*Comment, error) {
	payload := map[string]interface{}{"body": adfFromText(body)}
	var raw map[string]interface{}
	if err := c.post(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/comment", payload, &raw); err != nil {
		return nil, err
	}
	comment := reshapeComment(raw)
	return &comment, nil
}

// UpdateComment replaces a comment's body.
func (c *Client) UpdateComment(ctx context.Context, key, commentID, body string) (*Comment, error) {
	payload := map[string]interface{}{"body": adfFromText(body)}
	var raw map[string]interface{}
	path := apiPrefix + "/issue/" + url.PathEscape(key) + "/comment/" + url.PathEscape(commentID)
	if err := c.put(ctx, path, payload, &raw); err != nil {
		return nil, err
	}
	comment := reshapeComment(raw)
	return &comment, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, key, commentID string) error {
	return c.delete(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/comment/"+url.PathEscape(commentID), nil)
}

// Worklog is a reshaped worklog entry.
type Worklog struct {
	ID               string `json:"id"`
	Author           string `json:"author,omitempty"`
	Comment          string `json:"comment,omitempty"`
	TimeSpent        string `json:"timeSpent,omitempty"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Started          string `json:"started,omitempty"`
}

// GetWorklogs lists the worklog entries on an issue.
func (c *Client) GetWorklogs(ctx context.Context, key string) ([]Worklog, error) {
	var raw struct {
		Worklogs []map[string]interface{} `json:"worklogs"`
	}
	if err := c.get(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/worklog", nil, &raw); err != nil {
		return nil, err
	}

	out := make([]Worklog, 0, len(raw.Worklogs))
	for _, m := range raw.Worklogs {
		wl := Worklog{
			ID:        stringValue(m["id"]),
			Comment:   textFromADF(m["comment"]),
			TimeSpent: stringValue(m["timeSpent"]),
			Started:   stringValue(m["started"]),
		}
		if secs, ok := m["timeSpentSeconds"].(float64); ok {
			wl.TimeSpentSeconds = int(secs)
		}
		if author, ok := m["author"].(map[string]interface{}); ok {
			wl.Author = stringValue(author["displayName"])
		}
		out = append(out, wl)
	}
	return out, nil
}

// AddWorklog records time spent on an issue. timeSpent uses Jira
// duration syntax ("2h 30m"); started is optional RFC3339-ish Jira time.
func (c *Client) AddWorklog(ctx context.Context, key, timeSpent, comment, started string) (map[string]interface{}, error) {
	payload := map[string]interface{}{"timeSpent": timeSpent}
	if comment != "" {
		payload["comment"] = adfFromText(comment)
	}
	if started != "" {
		payload["started"] = started
	}
	var raw map[string]interface{}
	if err := c.post(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/worklog", payload, &raw); err != nil {
		return nil, err
	}
	return map[string]interface{}{"id": stringValue(raw["id"])}, nil
}

// DeleteWorklog removes a worklog entry.
func (c *Client) DeleteWorklog(ctx context.Context, key, worklogID string) error {
	return c.delete(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/worklog/"+url.PathEscape(worklogID), nil)
}
