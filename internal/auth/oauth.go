package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"jiramcp/internal/apierr"
)

// Atlassian OAuth 2.0 (3LO) endpoints.
const (
	defaultAuthorizeURL = "https://auth.atlassian.com/authorize"
	defaultTokenURL     = "https://auth.atlassian.com/oauth/token"
	defaultResourcesURL = "https://api.atlassian.com/oauth/token/accessible-resources"

	// oauthAudience is the fixed audience parameter Atlassian requires on
	// authorization requests.
	oauthAudience = "api.atlassian.com"
)

// TokenResponse is the reshaped result of a token-endpoint exchange or
// refresh. RefreshToken may be empty if the server rotated nothing.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // seconds
}

// Site is one Jira site accessible to an OAuth token.
type Site struct {
	CloudID string   `json:"id"`
	URL     string   `json:"url"`
	Name    string   `json:"name"`
	Scopes  []string `json:"scopes,omitempty"`
}

// OAuthClient drives the Atlassian authorization-code and refresh-token
// grants. It holds no credential state of its own.
type OAuthClient struct {
	authorizeURL string
	tokenURL     string
	resourcesURL string
	httpClient   *http.Client
}

// NewOAuthClient creates an OAuth client against the Atlassian endpoints.
func NewOAuthClient() *OAuthClient {
	return &OAuthClient{
		authorizeURL: defaultAuthorizeURL,
		tokenURL:     defaultTokenURL,
		resourcesURL: defaultResourcesURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewOAuthClientWithEndpoints creates an OAuth client against custom
// endpoints. Used by tests to point at httptest servers.
func NewOAuthClientWithEndpoints(authorizeURL, tokenURL, resourcesURL string, hc *http.Client) *OAuthClient {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &OAuthClient{
		authorizeURL: authorizeURL,
		tokenURL:     tokenURL,
		resourcesURL: resourcesURL,
		httpClient:   hc,
	}
}

// AuthorizationURL builds the URL a user visits to grant access. The
// state value is the caller's anti-forgery token and is embedded
// verbatim.
func (c *OAuthClient) AuthorizationURL(clientID, redirectURI, state string, scopes []string) (string, error) {
	if clientID == "" {
		return "", apierr.New(apierr.KindValidation, "client_id is required")
	}
	if redirectURI == "" {
		return "", apierr.New(apierr.KindValidation, "redirect_uri is required")
	}
	cfg := oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.authorizeURL,
			TokenURL: c.tokenURL,
		},
	}
	return cfg.AuthCodeURL(state,
		oauth2.SetAuthURLParam("audience", oauthAudience),
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.AccessTypeOffline,
	), nil
}

// ExchangeCode trades an authorization code for tokens.
func (c *OAuthClient) ExchangeCode(ctx context.Context, clientID string, clientSecret RedactedToken, code, redirectURI string) (*TokenResponse, error) {
	return c.postTokenRequest(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {clientID},
		"client_secret": {clientSecret.Value()},
		"code":          {code},
		"redirect_uri":  {redirectURI},
	})
}

// Refresh trades a refresh token for a new access token via the standard
// refresh_token grant. The response may or may not rotate the refresh
// token; callers keep the old one when it does not.
func (c *OAuthClient) Refresh(ctx context.Context, clientID string, clientSecret, refreshToken RedactedToken) (*TokenResponse, error) {
	return c.postTokenRequest(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {clientID},
		"client_secret": {clientSecret.Value()},
		"refresh_token": {refreshToken.Value()},
	})
}

func (c *OAuthClient) postTokenRequest(ctx context.Context, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token endpoint request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The error body may describe the grant failure but never echoes
		// secrets; Atlassian returns {"error","error_description"}.
		var oauthErr struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &oauthErr)
		if oauthErr.Error != "" {
			return nil, fmt.Errorf("token endpoint returned %d: %s (%s)", resp.StatusCode, oauthErr.Error, oauthErr.Description)
		}
		return nil, fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}
	return &TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    tok.ExpiresIn,
	}, nil
}

// AccessibleSites lists the Jira sites the access token can reach.
func (c *OAuthClient) AccessibleSites(ctx context.Context, accessToken RedactedToken) ([]Site, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resourcesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build accessible-resources request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken.Value())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("accessible-resources request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.FromStatus(resp.StatusCode, "accessible-resources lookup failed")
	}

	var sites []Site
	if err := json.NewDecoder(resp.Body).Decode(&sites); err != nil {
		return nil, fmt.Errorf("failed to decode accessible-resources response: %w", err)
	}
	return sites, nil
}

// ResolveCloudID determines which accessible site an exchanged token
// should be scoped to. With exactly one site and no requested URL, that
// site wins. Otherwise the requested site URL is normalized and matched
// against the list; failure enumerates the available sites so the caller
// can correct the URL.
func (c *OAuthClient) ResolveCloudID(ctx context.Context, accessToken RedactedToken, siteURL string) (*Site, error) {
	sites, err := c.AccessibleSites(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return nil, apierr.New(apierr.KindNotFound, "this token has access to no Jira sites; grant the app access to a site and re-authorize")
	}
	if siteURL == "" {
		if len(sites) == 1 {
			return &sites[0], nil
		}
		return nil, apierr.New(apierr.KindValidation,
			"multiple Jira sites are accessible, specify site_url; available: %s", siteList(sites))
	}

	want, err := NormalizeBaseURL(siteURL)
	if err != nil {
		return nil, err
	}
	for i := range sites {
		got, err := NormalizeBaseURL(sites[i].URL)
		if err != nil {
			continue
		}
		if strings.EqualFold(got, want) {
			return &sites[i], nil
		}
	}
	return nil, apierr.New(apierr.KindNotFound,
		"no accessible Jira site matches %s; available: %s", want, siteList(sites))
}

func siteList(sites []Site) string {
	urls := make([]string, 0, len(sites))
	for _, s := range sites {
		urls = append(urls, s.URL)
	}
	return strings.Join(urls, ", ")
}
