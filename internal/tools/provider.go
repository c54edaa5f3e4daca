package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"jiramcp/internal/auth"
	"jiramcp/internal/jira"
)

// Provider wires every Jira tool onto an MCP server. It owns no state of
// its own: the session manager is the single credential authority, and a
// fresh Jira client is built per call from whatever Resolve returns.
type Provider struct {
	session *auth.Session

	// acField returns the acceptance-criteria custom field id, re-read
	// per call so environment changes take effect without a restart.
	acField func() string

	// clientOpts is appended to every Jira client, letting tests point
	// handlers at an httptest server.
	clientOpts []jira.Option
}

// NewProvider creates a tool provider over the given session.
func NewProvider(session *auth.Session) *Provider {
	return &Provider{
		session: session,
		acField: auth.AcceptanceCriteriaField,
	}
}

// WithClientOptions sets extra Jira client options (tests only).
func (p *Provider) WithClientOptions(opts ...jira.Option) *Provider {
	p.clientOpts = opts
	return p
}

// Register declares every tool on the server.
func (p *Provider) Register(s *server.MCPServer) {
	p.registerAuthTools(s)
	p.registerIssueTools(s)
	p.registerSearchTools(s)
	p.registerCommentTools(s)
	p.registerProjectTools(s)
	p.registerBoardTools(s)
	p.registerUserTools(s)
}

// client resolves a credential and builds a Jira client for one call.
// A resolution failure comes back as a ready-made error result so the
// handler can return it directly.
func (p *Provider) client(ctx context.Context) (*jira.Client, *errResult) {
	cred, err := p.session.Resolve(ctx)
	if err != nil {
		return nil, &errResult{err: err}
	}
	return jira.NewClient(cred, p.clientOpts...), nil
}
