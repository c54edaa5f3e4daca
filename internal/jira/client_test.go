package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiramcp/internal/apierr"
	"jiramcp/internal/auth"
)

func basicCred(baseURL string) *auth.BasicCredential {
	return &auth.BasicCredential{
		BaseURL:  baseURL,
		Email:    "a@acme.com",
		APIToken: auth.NewRedactedToken("T"),
	}
}

func TestGetIssueBasicAuth(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery url.Values
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":  "10001",
			"key": "PROJ-1",
			"fields": map[string]interface{}{
				"summary": "Fix the flaky login",
				"description": map[string]interface{}{
					"type": "doc", "version": 1,
					"content": []interface{}{
						map[string]interface{}{
							"type": "paragraph",
							"content": []interface{}{
								map[string]interface{}{"type": "text", "text": "Steps to reproduce"},
							},
						},
					},
				},
				"status":   map[string]interface{}{"name": "In Progress"},
				"assignee": map[string]interface{}{"displayName": "Alice"},
				"labels":   []interface{}{"auth", "flaky"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(basicCred(srv.URL))
	issue, err := c.GetIssue(context.Background(), "PROJ-1", nil, "")
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "exactly one GET")
	assert.Equal(t, "/rest/api/3/issue/PROJ-1", gotPath)

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("a@acme.com:T"))
	assert.Equal(t, wantAuth, gotAuth)
	assert.Contains(t, gotQuery.Get("fields"), "summary")

	assert.Equal(t, "PROJ-1", issue["key"])
	assert.Equal(t, "Fix the flaky login", issue["summary"])
	assert.Equal(t, "Steps to reproduce", issue["description"])
	assert.Equal(t, "In Progress", issue["status"])
	assert.Equal(t, "Alice", issue["assignee"])
	assert.Equal(t, []string{"auth", "flaky"}, issue["labels"])

	// No acceptance-criteria field configured: key present, value null.
	v, present := issue["acceptanceCriteria"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestGetIssueAcceptanceCriteria(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("fields"), "customfield_10100")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"key": "PROJ-2",
			"fields": map[string]interface{}{
				"summary":           "Story",
				"customfield_10100": "Given X when Y then Z",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(basicCred(srv.URL))
	issue, err := c.GetIssue(context.Background(), "PROJ-2", nil, "customfield_10100")
	require.NoError(t, err)
	assert.Equal(t, "Given X when Y then Z", issue["acceptanceCriteria"])
}

func TestOAuthClientBase(t *testing.T) {
	cred := &auth.OAuthCredential{
		ClientID:    "cid",
		AccessToken: auth.NewRedactedToken("bearer-token"),
		CloudID:     "cloud-42",
	}
	c := NewClient(cred)
	assert.Equal(t, "https://api.atlassian.com/ex/jira/cloud-42", c.baseURL)
	assert.Equal(t, "Bearer bearer-token", c.authHeader)
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   apierr.Kind
	}{
		{401, apierr.KindUnauthorized},
		{403, apierr.KindForbidden},
		{404, apierr.KindNotFound},
		{429, apierr.KindRateLimited},
		{502, apierr.KindServerError},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"errorMessages": []string{"upstream says no"},
			})
		}))

		c := NewClient(basicCred(srv.URL))
		_, err := c.GetIssue(context.Background(), "PROJ-1", nil, "")
		require.Error(t, err)
		assert.Equal(t, tt.want, apierr.KindOf(err))
		assert.Contains(t, err.Error(), "upstream says no")
		srv.Close()
	}
}

func TestUnauthorizedGuidanceByCredentialType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(basicCred(srv.URL))
	_, err := c.GetIssue(context.Background(), "PROJ-1", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API token")

	oc := NewClient(&auth.OAuthCredential{
		AccessToken: auth.NewRedactedToken("x"),
		CloudID:     "c",
	}, WithBaseURL(srv.URL))
	_, err = oc.GetIssue(context.Background(), "PROJ-1", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh")
}

func TestSearchIssues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "project = PROJ", q.Get("jql"))
		assert.Equal(t, "100", q.Get("maxResults"), "limit clamped to the maximum")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"startAt": 0, "maxResults": 100, "total": 2,
			"issues": []interface{}{
				map[string]interface{}{"key": "PROJ-1", "fields": map[string]interface{}{"summary": "one"}},
				map[string]interface{}{"key": "PROJ-2", "fields": map[string]interface{}{"summary": "two"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(basicCred(srv.URL))
	result, err := c.SearchIssues(context.Background(), SearchInput{
		JQL:        "project = PROJ",
		MaxResults: 5000,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "PROJ-1", result.Items[0]["key"])
}

func TestSearchIssuesValidation(t *testing.T) {
	c := NewClient(basicCred("https://unused.example"))

	_, err := c.SearchIssues(context.Background(), SearchInput{JQL: "   "}, "")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))

	_, err = c.SearchIssues(context.Background(), SearchInput{JQL: "x", StartAt: -1}, "")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestTransitionIssueByName(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"transitions": []interface{}{
					map[string]interface{}{"id": "21", "name": "In Progress"},
					map[string]interface{}{"id": "31", "name": "Done"},
				},
			})
			return
		}
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		transition := body["transition"].(map[string]interface{})
		assert.Equal(t, "31", transition["id"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(basicCred(srv.URL))
	require.NoError(t, c.TransitionIssue(context.Background(), "PROJ-1", "done"))
	assert.Equal(t, []string{
		"GET /rest/api/3/issue/PROJ-1/transitions",
		"POST /rest/api/3/issue/PROJ-1/transitions",
	}, paths)
}

func TestTransitionIssueUnknownName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"transitions": []interface{}{
				map[string]interface{}{"id": "21", "name": "In Progress"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(basicCred(srv.URL))
	err := c.TransitionIssue(context.Background(), "PROJ-1", "Blocked")
	require.Error(t, err)
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
	assert.Contains(t, err.Error(), "In Progress")
}

func TestAddCommentConvertsToADF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		doc := body["body"].(map[string]interface{})
		assert.Equal(t, "doc", doc["type"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "5001",
			"body":    body["body"],
			"author":  map[string]interface{}{"displayName": "Bot"},
			"created": "2026-01-01T00:00:00.000+0000",
		})
	}))
	defer srv.Close()

	c := NewClient(basicCred(srv.URL))
	comment, err := c.AddComment(context.Background(), "PROJ-1", "looks good")
	require.NoError(t, err)
	assert.Equal(t, "5001", comment.ID)
	assert.Equal(t, "looks good", comment.Body)
	assert.Equal(t, "Bot", comment.Author)
}

func TestMyself(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/myself", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"accountId":    "acc-1",
			"displayName":  "Alice",
			"emailAddress": "a@acme.com",
			"active":       true,
		})
	}))
	defer srv.Close()

	c := NewClient(basicCred(srv.URL))
	me, err := c.Myself(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc-1", me.AccountID)
	assert.Equal(t, "Alice", me.DisplayName)
	assert.True(t, me.Active)
}
