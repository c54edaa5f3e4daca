package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jiramcp/internal/apierr"
	"jiramcp/internal/auth"
)

// oauthAPIBase is the Atlassian API gateway prefix for OAuth-scoped
// calls; the cloud ID selects the site.
const oauthAPIBase = "https://api.atlassian.com/ex/jira"

const (
	apiPrefix   = "/rest/api/3"
	agilePrefix = "/rest/agile/1.0"
)

// Client issues requests against one Jira site with one resolved
// credential. Handlers build a fresh Client per tool call; it carries no
// cross-call state.
type Client struct {
	baseURL    string
	authHeader string
	credKind   string // "basic" or "oauth", drives 401 guidance
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the computed base URL, letting tests point an
// OAuth credential at an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// NewClient builds a client scoped to the given credential. Basic
// credentials call the site URL directly with an HTTP basic-auth header;
// OAuth credentials call the Atlassian gateway under their cloud ID with
// a bearer header.
func NewClient(cred auth.Credential, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	switch v := cred.(type) {
	case *auth.BasicCredential:
		c.baseURL = v.BaseURL
		c.credKind = "basic"
		raw := v.Email + ":" + v.APIToken.Value()
		c.authHeader = "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
	case *auth.OAuthCredential:
		c.baseURL = oauthAPIBase + "/" + v.CloudID
		c.credKind = "oauth"
		c.authHeader = "Bearer " + v.AccessToken.Value()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Wrap(err, apierr.KindUnknown, "request to Jira failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return apierr.Wrap(err, apierr.KindUnknown, "failed to read Jira response: %v", err)
	}

	if resp.StatusCode >= 400 {
		return c.statusError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apierr.Wrap(err, apierr.KindUnknown, "failed to decode Jira response: %v", err)
	}
	return nil
}

// statusError converts an error response into a classified error,
// folding in Jira's own error messages when the body carries them.
func (c *Client) statusError(status int, body []byte) error {
	msg := extractErrorMessage(body)
	if status == 401 {
		if c.credKind == "oauth" {
			if msg != "" {
				msg += "; "
			}
			msg += "the OAuth access token was rejected, refresh it or re-run the authorization flow"
		} else {
			if msg != "" {
				msg += "; "
			}
			msg += "the API token was rejected, verify the email and issue a new token"
		}
	}
	return apierr.FromStatus(status, msg)
}

// extractErrorMessage pulls a human-readable message out of Jira's error
// body shape: {"errorMessages":[...],"errors":{field:msg}}.
func extractErrorMessage(body []byte) string {
	var parsed struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	parts := append([]string{}, parsed.ErrorMessages...)
	for field, m := range parsed.Errors {
		parts = append(parts, field+": "+m)
	}
	return strings.Join(parts, "; ")
}
