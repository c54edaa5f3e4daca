package jira

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"jiramcp/internal/apierr"
)

// defaultIssueFields is the field set issue reads request when the caller
// does not narrow it. The acceptance-criteria custom field joins the list
// when configured.
var defaultIssueFields = []string{
	"summary", "description", "status", "assignee", "reporter",
	"priority", "issuetype", "labels", "created", "updated", "project",
}

func issueFieldList(requested []string, acField string) []string {
	fields := requested
	if len(fields) == 0 {
		fields = defaultIssueFields
	}
	if acField != "" && !contains(fields, acField) {
		fields = append(append([]string{}, fields...), acField)
	}
	return fields
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GetIssue fetches one issue by key and reshapes it to the flat tool
// contract. acField is the optional acceptance-criteria custom field id.
func (c *Client) GetIssue(ctx context.Context, key string, fields []string, acField string) (map[string]interface{}, error) {
	query := url.Values{"fields": {strings.Join(issueFieldList(fields, acField), ",")}}

	var raw map[string]interface{}
	if err := c.get(ctx, apiPrefix+"/issue/"+url.PathEscape(key), query, &raw); err != nil {
		return nil, err
	}
	return reshapeIssue(raw, acField), nil
}

// reshapeIssue maps the subset of raw issue fields the tools promise into
// a flat object. Rich-text fields flatten to plain text;
// acceptanceCriteria is always present and null when not configured or
// not set on the issue.
func reshapeIssue(raw map[string]interface{}, acField string) map[string]interface{} {
	fields, _ := raw["fields"].(map[string]interface{})

	out := map[string]interface{}{
		"id":                 stringValue(raw["id"]),
		"key":                stringValue(raw["key"]),
		"summary":            stringValue(fields["summary"]),
		"description":        textFromADF(fields["description"]),
		"status":             nestedString(fields["status"], "name"),
		"assignee":           nestedString(fields["assignee"], "displayName"),
		"reporter":           nestedString(fields["reporter"], "displayName"),
		"priority":           nestedString(fields["priority"], "name"),
		"issueType":          nestedString(fields["issuetype"], "name"),
		"labels":             stringSlice(fields["labels"]),
		"created":            stringValue(fields["created"]),
		"updated":            stringValue(fields["updated"]),
		"project":            nestedString(fields["project"], "key"),
		"acceptanceCriteria": nil,
	}
	if acField != "" {
		if v, ok := fields[acField]; ok && v != nil {
			out["acceptanceCriteria"] = textFromADF(v)
		}
	}
	return out
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func nestedString(v interface{}, key string) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return nil
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// CreateIssueInput carries the writable fields for issue creation.
// Description is plain text and converted to ADF on the way out.
type CreateIssueInput struct {
	ProjectKey  string
	IssueType   string
	Summary     string
	Description string
	Priority    string
	Labels      []string
	AssigneeID  string
	ParentKey   string
}

// CreateIssue creates an issue and returns its id and key.
func (c *Client) CreateIssue(ctx context.Context, in CreateIssueInput) (map[string]interface{}, error) {
	fields := map[string]interface{}{
		"project":   map[string]string{"key": in.ProjectKey},
		"issuetype": map[string]string{"name": in.IssueType},
		"summary":   in.Summary,
	}
	if in.Description != "" {
		fields["description"] = adfFromText(in.Description)
	}
	if in.Priority != "" {
		fields["priority"] = map[string]string{"name": in.Priority}
	}
	if len(in.Labels) > 0 {
		fields["labels"] = in.Labels
	}
	if in.AssigneeID != "" {
		fields["assignee"] = map[string]string{"accountId": in.AssigneeID}
	}
	if in.ParentKey != "" {
		fields["parent"] = map[string]string{"key": in.ParentKey}
	}

	var created struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := c.post(ctx, apiPrefix+"/issue", map[string]interface{}{"fields": fields}, &created); err != nil {
		return nil, err
	}
	return map[string]interface{}{"id": created.ID, "key": created.Key}, nil
}

// UpdateIssueInput carries the partial field set for an issue update.
// Nil pointers mean "leave unchanged".
type UpdateIssueInput struct {
	Summary     *string
	Description *string
	Priority    *string
	Labels      []string // non-nil replaces the whole label set
	AssigneeID  *string
}

// UpdateIssue applies a partial update. At least one field must be set.
func (c *Client) UpdateIssue(ctx context.Context, key string, in UpdateIssueInput) error {
	fields := map[string]interface{}{}
	if in.Summary != nil {
		fields["summary"] = *in.Summary
	}
	if in.Description != nil {
		fields["description"] = adfFromText(*in.Description)
	}
	if in.Priority != nil {
		fields["priority"] = map[string]string{"name": *in.Priority}
	}
	if in.Labels != nil {
		fields["labels"] = in.Labels
	}
	if in.AssigneeID != nil {
		if *in.AssigneeID == "" {
			fields["assignee"] = nil // explicit unassign
		} else {
			fields["assignee"] = map[string]string{"accountId": *in.AssigneeID}
		}
	}
	if len(fields) == 0 {
		return apierr.New(apierr.KindValidation, "no fields to update")
	}
	return c.put(ctx, apiPrefix+"/issue/"+url.PathEscape(key), map[string]interface{}{"fields": fields}, nil)
}

// DeleteIssue deletes an issue, optionally cascading to its subtasks.
func (c *Client) DeleteIssue(ctx context.Context, key string, deleteSubtasks bool) error {
	query := url.Values{"deleteSubtasks": {strconv.FormatBool(deleteSubtasks)}}
	return c.delete(ctx, apiPrefix+"/issue/"+url.PathEscape(key), query)
}

// GetTransitions lists the workflow transitions currently available.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]Transition, error) {
	var resp struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := c.get(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/transitions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transitions, nil
}

// TransitionIssue moves an issue through the named or id'd transition.
// When a name is given it is matched case-insensitively against the
// available transitions, so callers don't need to know workflow ids.
func (c *Client) TransitionIssue(ctx context.Context, key, idOrName string) error {
	transitionID := idOrName
	if _, err := strconv.Atoi(idOrName); err != nil {
		transitions, err := c.GetTransitions(ctx, key)
		if err != nil {
			return err
		}
		transitionID = ""
		available := make([]string, 0, len(transitions))
		for _, tr := range transitions {
			available = append(available, tr.Name)
			if strings.EqualFold(tr.Name, idOrName) {
				transitionID = tr.ID
				break
			}
		}
		if transitionID == "" {
			return apierr.New(apierr.KindValidation,
				"no transition named %q on %s; available: %s", idOrName, key, strings.Join(available, ", "))
		}
	}
	body := map[string]interface{}{
		"transition": map[string]string{"id": transitionID},
	}
	return c.post(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/transitions", body, nil)
}

// AssignIssue sets the assignee by account id; an empty id unassigns.
func (c *Client) AssignIssue(ctx context.Context, key, accountID string) error {
	var body map[string]interface{}
	if accountID == "" {
		body = map[string]interface{}{"accountId": nil}
	} else {
		body = map[string]interface{}{"accountId": accountID}
	}
	return c.put(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/assignee", body, nil)
}

// AddLabels appends labels to an issue without disturbing existing ones.
func (c *Client) AddLabels(ctx context.Context, key string, labels []string) error {
	return c.editLabels(ctx, key, "add", labels)
}

// RemoveLabels removes labels from an issue.
func (c *Client) RemoveLabels(ctx context.Context, key string, labels []string) error {
	return c.editLabels(ctx, key, "remove", labels)
}

func (c *Client) editLabels(ctx context.Context, key, op string, labels []string) error {
	if len(labels) == 0 {
		return apierr.New(apierr.KindValidation, "labels list is empty")
	}
	ops := make([]map[string]string, 0, len(labels))
	for _, label := range labels {
		ops = append(ops, map[string]string{op: label})
	}
	body := map[string]interface{}{
		"update": map[string]interface{}{"labels": ops},
	}
	return c.put(ctx, apiPrefix+"/issue/"+url.PathEscape(key), body, nil)
}

// AddWatcher adds a watcher by account id.
func (c *Client) AddWatcher(ctx context.Context, key, accountID string) error {
	// The watchers endpoint takes the bare account id as its JSON body.
	return c.post(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/watchers", accountID, nil)
}

// ListWatchers returns the accounts watching an issue.
func (c *Client) ListWatchers(ctx context.Context, key string) ([]User, error) {
	var resp struct {
		Watchers []User `json:"watchers"`
	}
	if err := c.get(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/watchers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Watchers, nil
}

// VoteIssue adds the caller's vote to an issue.
func (c *Client) VoteIssue(ctx context.Context, key string) error {
	return c.post(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/votes", nil, nil)
}

// ListAttachments returns the attachment metadata on an issue.
func (c *Client) ListAttachments(ctx context.Context, key string) ([]Attachment, error) {
	var raw map[string]interface{}
	query := url.Values{"fields": {"attachment"}}
	if err := c.get(ctx, apiPrefix+"/issue/"+url.PathEscape(key), query, &raw); err != nil {
		return nil, err
	}
	fields, _ := raw["fields"].(map[string]interface{})
	items, _ := fields["attachment"].([]interface{})

	out := make([]Attachment, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		att := Attachment{
			ID:       stringValue(m["id"]),
			Filename: stringValue(m["filename"]),
			MimeType: stringValue(m["mimeType"]),
			Created:  stringValue(m["created"]),
		}
		if size, ok := m["size"].(float64); ok {
			att.Size = int64(size)
		}
		if author, ok := m["author"].(map[string]interface{}); ok {
			att.Author = &User{
				AccountID:   stringValue(author["accountId"]),
				DisplayName: stringValue(author["displayName"]),
			}
		}
		out = append(out, att)
	}
	return out, nil
}

// LinkIssues creates a typed link between two issues.
func (c *Client) LinkIssues(ctx context.Context, linkType, inwardKey, outwardKey, comment string) error {
	body := map[string]interface{}{
		"type":         map[string]string{"name": linkType},
		"inwardIssue":  map[string]string{"key": inwardKey},
		"outwardIssue": map[string]string{"key": outwardKey},
	}
	if comment != "" {
		body["comment"] = map[string]interface{}{"body": adfFromText(comment)}
	}
	return c.post(ctx, apiPrefix+"/issueLink", body, nil)
}

// UnlinkIssues deletes an issue link by id.
func (c *Client) UnlinkIssues(ctx context.Context, linkID string) error {
	return c.delete(ctx, apiPrefix+"/issueLink/"+url.PathEscape(linkID), nil)
}

// ListLinkTypes returns the link relationship definitions.
func (c *Client) ListLinkTypes(ctx context.Context) ([]IssueLinkType, error) {
	var resp struct {
		IssueLinkTypes []IssueLinkType `json:"issueLinkTypes"`
	}
	if err := c.get(ctx, apiPrefix+"/issueLinkType", nil, &resp); err != nil {
		return nil, err
	}
	return resp.IssueLinkTypes, nil
}

// GetRemoteLinks lists the remote (web) links on an issue.
func (c *Client) GetRemoteLinks(ctx context.Context, key string) ([]map[string]interface{}, error) {
	var raw []map[string]interface{}
	if err := c.get(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/remotelink", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, link := range raw {
		entry := map[string]interface{}{"id": link["id"]}
		if obj, ok := link["object"].(map[string]interface{}); ok {
			entry["url"] = stringValue(obj["url"])
			entry["title"] = stringValue(obj["title"])
		}
		out = append(out, entry)
	}
	return out, nil
}

// AddRemoteLink attaches a web link to an issue.
func (c *Client) AddRemoteLink(ctx context.Context, key, linkURL, title string) (map[string]interface{}, error) {
	body := map[string]interface{}{
		"object": map[string]string{"url": linkURL, "title": title},
	}
	var created map[string]interface{}
	if err := c.post(ctx, apiPrefix+"/issue/"+url.PathEscape(key)+"/remotelink", body, &created); err != nil {
		return nil, err
	}
	return map[string]interface{}{"id": created["id"]}, nil
}
