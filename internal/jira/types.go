package jira

// Typed response shapes for the endpoints whose bodies are stable enough
// to decode directly. Issues decode into maps instead: their field set is
// partly dynamic (custom fields, ADF documents) and is reshaped by hand.

// User is a Jira account.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active"`
	TimeZone     string `json:"timeZone,omitempty"`
	AccountType  string `json:"accountType,omitempty"`
}

// Project is a Jira project summary.
type Project struct {
	ID             string `json:"id"`
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	ProjectTypeKey string `json:"projectTypeKey,omitempty"`
	Lead           *User  `json:"lead,omitempty"`
	Archived       bool   `json:"archived,omitempty"`
}

// Version is a project version (release).
type Version struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Archived    bool   `json:"archived"`
	Released    bool   `json:"released"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	ProjectID   int    `json:"projectId,omitempty"`
}

// Board is an agile board.
type Board struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Location BoardLocation `json:"location,omitempty"`
}

// BoardLocation ties a board to its project.
type BoardLocation struct {
	ProjectKey  string `json:"projectKey,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
}

// Sprint is an agile sprint.
type Sprint struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	State         string `json:"state"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	CompleteDate  string `json:"completeDate,omitempty"`
	Goal          string `json:"goal,omitempty"`
	OriginBoardID int    `json:"originBoardId,omitempty"`
}

// IssueType describes an issue type available in a project or site.
type IssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Subtask     bool   `json:"subtask"`
}

// StatusDef is a workflow status definition.
type StatusDef struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category *StatusCategory `json:"statusCategory,omitempty"`
}

// StatusCategory groups statuses (To Do / In Progress / Done).
type StatusCategory struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Priority is an issue priority level.
type Priority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Field describes a field known to the site, including custom fields.
type Field struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// IssueLinkType is a link relationship definition.
type IssueLinkType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// Transition is a workflow transition currently available on an issue.
type Transition struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	To   *StatusDef `json:"to,omitempty"`
}

// Attachment is an issue attachment summary.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size"`
	Created  string `json:"created,omitempty"`
	Author   *User  `json:"author,omitempty"`
}
