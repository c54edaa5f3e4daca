package tools

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"jiramcp/internal/auth"
	"jiramcp/pkg/logging"
)

// defaultOAuthScopes is requested when the caller does not narrow the
// scope list. offline_access is required for a refresh token.
var defaultOAuthScopes = []string{
	"read:jira-work", "write:jira-work", "read:jira-user", "offline_access",
}

func (p *Provider) registerAuthTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("jira_auth_status",
		mcp.WithDescription("Show the current Jira authentication status: method, source, and expiry. Never returns secrets."),
	), p.handleAuthStatus)

	s.AddTool(mcp.NewTool("jira_set_auth",
		mcp.WithDescription("Set a basic-auth credential (site URL, email, API token) for this process, optionally persisting it to the OS keychain."),
		mcp.WithString("base_url", mcp.Required(), mcp.Description("Jira site URL, e.g. https://acme.atlassian.net")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Account email the API token belongs to")),
		mcp.WithString("api_token", mcp.Required(), mcp.Description("Jira API token")),
		mcp.WithBoolean("persist", mcp.Description("Also store the credential in the OS keychain so it survives restarts")),
	), p.handleSetAuth)

	s.AddTool(mcp.NewTool("jira_clear_auth",
		mcp.WithDescription("Clear the active credential from memory and from the OS keychain."),
	), p.handleClearAuth)

	s.AddTool(mcp.NewTool("jira_get_oauth_url",
		mcp.WithDescription("Build the Atlassian OAuth 2.0 authorization URL to open in a browser."),
		mcp.WithString("client_id", mcp.Required(), mcp.Description("OAuth app client id")),
		mcp.WithString("redirect_uri", mcp.Required(), mcp.Description("Registered redirect URI")),
		mcp.WithString("state", mcp.Description("Anti-forgery state; generated when omitted")),
		mcp.WithArray("scopes", mcp.Description("OAuth scopes; defaults to read/write Jira work plus offline_access"),
			mcp.WithStringItems()),
	), p.handleGetOAuthURL)

	s.AddTool(mcp.NewTool("jira_exchange_oauth_code",
		mcp.WithDescription("Exchange an OAuth authorization code for tokens, resolve the Jira cloud ID, and activate the credential."),
		mcp.WithString("client_id", mcp.Required(), mcp.Description("OAuth app client id")),
		mcp.WithString("client_secret", mcp.Required(), mcp.Description("OAuth app client secret")),
		mcp.WithString("code", mcp.Required(), mcp.Description("Authorization code from the redirect")),
		mcp.WithString("redirect_uri", mcp.Required(), mcp.Description("Redirect URI used in the authorization request")),
		mcp.WithString("site_url", mcp.Description("Site URL to select when the token can access several sites")),
		mcp.WithBoolean("persist", mcp.Description("Also store the credential in the OS keychain")),
	), p.handleExchangeOAuthCode)

	s.AddTool(mcp.NewTool("jira_set_oauth_tokens",
		mcp.WithDescription("Activate an OAuth credential from tokens obtained elsewhere."),
		mcp.WithString("client_id", mcp.Required(), mcp.Description("OAuth app client id")),
		mcp.WithString("client_secret", mcp.Required(), mcp.Description("OAuth app client secret")),
		mcp.WithString("access_token", mcp.Required(), mcp.Description("Current access token")),
		mcp.WithString("cloud_id", mcp.Required(), mcp.Description("Jira cloud ID the token is scoped to")),
		mcp.WithString("refresh_token", mcp.Description("Refresh token, enables automatic refresh")),
		mcp.WithNumber("expires_in", mcp.Description("Access token lifetime in seconds from now")),
		mcp.WithBoolean("persist", mcp.Description("Also store the credential in the OS keychain")),
	), p.handleSetOAuthTokens)

	s.AddTool(mcp.NewTool("jira_refresh_oauth_token",
		mcp.WithDescription("Force a refresh of the active OAuth credential's access token."),
	), p.handleRefreshOAuthToken)

	s.AddTool(mcp.NewTool("jira_list_accessible_sites",
		mcp.WithDescription("List the Jira sites the active OAuth access token can reach."),
	), p.handleListAccessibleSites)
}

func (p *Provider) handleAuthStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(p.session.Status()), nil
}

func (p *Provider) handleSetAuth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	baseURL, err := request.RequireString("base_url")
	if err != nil {
		return validationError("base_url argument is required"), nil
	}
	email, err := request.RequireString("email")
	if err != nil {
		return validationError("email argument is required"), nil
	}
	apiToken, err := request.RequireString("api_token")
	if err != nil {
		return validationError("api_token argument is required"), nil
	}
	persist := request.GetBool("persist", false)

	normalized, err := auth.NormalizeBaseURL(baseURL)
	if err != nil {
		return errorResult(err), nil
	}
	cred := &auth.BasicCredential{
		BaseURL:  normalized,
		Email:    email,
		APIToken: auth.NewRedactedToken(apiToken),
	}
	if err := p.session.Store().Set(cred, persist); err != nil {
		// The in-memory credential is set; only persistence failed.
		return errorResult(err), nil
	}
	logging.Info("Auth", "basic credential set for %s", normalized)
	return jsonResult(map[string]interface{}{
		"status":    "ok",
		"base_url":  normalized,
		"email":     email,
		"persisted": persist,
	}), nil
}

func (p *Provider) handleClearAuth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p.session.Store().Clear()
	logging.Info("Auth", "credential cleared")
	return jsonResult(map[string]interface{}{"status": "ok"}), nil
}

func (p *Provider) handleGetOAuthURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clientID, err := request.RequireString("client_id")
	if err != nil {
		return validationError("client_id argument is required"), nil
	}
	redirectURI, err := request.RequireString("redirect_uri")
	if err != nil {
		return validationError("redirect_uri argument is required"), nil
	}
	state := request.GetString("state", "")
	if state == "" {
		state = uuid.NewString()
	}
	scopes := request.GetStringSlice("scopes", defaultOAuthScopes)

	authURL, err := p.session.OAuth().AuthorizationURL(clientID, redirectURI, state, scopes)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{
		"authorization_url": authURL,
		"state":             state,
	}), nil
}

func (p *Provider) handleExchangeOAuthCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clientID, err := request.RequireString("client_id")
	if err != nil {
		return validationError("client_id argument is required"), nil
	}
	clientSecret, err := request.RequireString("client_secret")
	if err != nil {
		return validationError("client_secret argument is required"), nil
	}
	code, err := request.RequireString("code")
	if err != nil {
		return validationError("code argument is required"), nil
	}
	redirectURI, err := request.RequireString("redirect_uri")
	if err != nil {
		return validationError("redirect_uri argument is required"), nil
	}
	siteURL := request.GetString("site_url", "")
	persist := request.GetBool("persist", false)

	oauthClient := p.session.OAuth()
	secret := auth.NewRedactedToken(clientSecret)

	tok, err := oauthClient.ExchangeCode(ctx, clientID, secret, code, redirectURI)
	if err != nil {
		return errorResult(err), nil
	}
	site, err := oauthClient.ResolveCloudID(ctx, auth.NewRedactedToken(tok.AccessToken), siteURL)
	if err != nil {
		return errorResult(err), nil
	}

	cred := &auth.OAuthCredential{
		ClientID:     clientID,
		ClientSecret: secret,
		CloudID:      site.CloudID,
	}
	cred.ApplyRefresh(tok, timeNow())

	if err := p.session.Store().Set(cred, persist); err != nil {
		return errorResult(err), nil
	}
	logging.Info("Auth", "OAuth credential activated for site %s", site.URL)
	return jsonResult(map[string]interface{}{
		"status":     "ok",
		"cloud_id":   site.CloudID,
		"site_url":   site.URL,
		"expires_at": expiryString(cred),
		"persisted":  persist,
	}), nil
}

func (p *Provider) handleSetOAuthTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clientID, err := request.RequireString("client_id")
	if err != nil {
		return validationError("client_id argument is required"), nil
	}
	clientSecret, err := request.RequireString("client_secret")
	if err != nil {
		return validationError("client_secret argument is required"), nil
	}
	accessToken, err := request.RequireString("access_token")
	if err != nil {
		return validationError("access_token argument is required"), nil
	}
	cloudID, err := request.RequireString("cloud_id")
	if err != nil {
		return validationError("cloud_id argument is required"), nil
	}
	persist := request.GetBool("persist", false)

	cred := &auth.OAuthCredential{
		ClientID:     clientID,
		ClientSecret: auth.NewRedactedToken(clientSecret),
		AccessToken:  auth.NewRedactedToken(accessToken),
		RefreshToken: auth.NewRedactedToken(request.GetString("refresh_token", "")),
		CloudID:      cloudID,
	}
	if expiresIn := request.GetInt("expires_in", 0); expiresIn > 0 {
		cred.ExpiresAt = timeNow().Add(secondsDuration(expiresIn))
	}

	if err := p.session.Store().Set(cred, persist); err != nil {
		return errorResult(err), nil
	}
	logging.Info("Auth", "OAuth credential set for cloud %s", cloudID)
	return jsonResult(map[string]interface{}{
		"status":     "ok",
		"cloud_id":   cloudID,
		"expires_at": expiryString(cred),
		"persisted":  persist,
	}), nil
}

func (p *Provider) handleRefreshOAuthToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cred, err := p.session.RefreshNow(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{
		"status":     "ok",
		"expires_at": expiryString(cred),
	}), nil
}

func (p *Provider) handleListAccessibleSites(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cred, err := p.session.Resolve(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	oc, ok := cred.(*auth.OAuthCredential)
	if !ok {
		return validationError("the active credential is not OAuth; accessible sites only apply to OAuth tokens"), nil
	}
	sites, err := p.session.OAuth().AccessibleSites(ctx, oc.AccessToken)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]interface{}{"sites": sites}), nil
}
