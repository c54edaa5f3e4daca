package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiramcp/internal/auth"
	"jiramcp/internal/config"
)

func newTestServer(t *testing.T, transport string) *Server {
	t.Helper()
	session := auth.NewSession(auth.NewStore(nil), auth.NewOAuthClient())
	return New(config.ServerConfig{
		Transport: transport,
		Host:      "localhost",
		Port:      8585,
	}, session)
}

func TestUnknownTransportFails(t *testing.T) {
	s := newTestServer(t, "telnet")
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telnet")
}

func TestToolsAreRegistered(t *testing.T) {
	s := newTestServer(t, config.TransportStdio)

	raw := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))

	names := make(map[string]bool, len(resp.Result.Tools))
	for _, tool := range resp.Result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"jira_auth_status", "jira_set_auth", "jira_get_issue",
		"jira_search_issues", "jira_add_comment", "jira_list_projects",
		"jira_list_boards", "jira_whoami", "jira_delete_issue",
	} {
		assert.True(t, names[want], "tool %s should be registered", want)
	}
}
