package auth

import (
	"net/url"
	"strings"
	"time"

	"jiramcp/internal/apierr"
)

// Credential is the authenticated identity used to call Jira. It is a
// closed sum with exactly two variants: *BasicCredential and
// *OAuthCredential. The unexported marker method keeps the set closed so
// a type switch over both variants is exhaustive.
type Credential interface {
	isCredential()

	// Summary returns a loggable one-line description with no secrets.
	Summary() string
}

// BasicCredential authenticates with a Jira site URL, account email, and
// API token. It is immutable once created and never refreshed.
type BasicCredential struct {
	// BaseURL is the normalized site URL: scheme + host + path, no
	// trailing slash.
	BaseURL string

	Email    string
	APIToken RedactedToken
}

func (*BasicCredential) isCredential() {}

func (c *BasicCredential) Summary() string {
	return "basic auth for " + c.Email + " at " + c.BaseURL
}

// OAuthCredential authenticates with an Atlassian OAuth 2.0 (3LO) access
// token scoped to one cloud ID. Access token, refresh token, and expiry
// are replaced in place by refresh; the other fields never change after
// creation.
type OAuthCredential struct {
	ClientID     string
	ClientSecret RedactedToken
	AccessToken  RedactedToken

	// RefreshToken is optional; when empty the credential cannot be
	// refreshed and will simply go stale.
	RefreshToken RedactedToken

	CloudID string

	// ExpiresAt is the absolute expiry instant; the zero value means the
	// expiry is unknown and no proactive refresh happens.
	ExpiresAt time.Time
}

func (*OAuthCredential) isCredential() {}

func (c *OAuthCredential) Summary() string {
	return "oauth for cloud " + c.CloudID
}

// NearExpiry reports whether the credential expires within margin of now.
// Credentials without a known expiry never report near-expiry.
func (c *OAuthCredential) NearExpiry(now time.Time, margin time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.Add(margin).After(c.ExpiresAt)
}

// ApplyRefresh replaces the mutable token fields from a token-endpoint
// response. The old refresh token is kept when the server did not issue a
// new one. Client ID, client secret, and cloud ID are never touched.
func (c *OAuthCredential) ApplyRefresh(tok *TokenResponse, now time.Time) {
	c.AccessToken = NewRedactedToken(tok.AccessToken)
	if tok.RefreshToken != "" {
		c.RefreshToken = NewRedactedToken(tok.RefreshToken)
	}
	if tok.ExpiresIn > 0 {
		c.ExpiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	} else {
		c.ExpiresAt = time.Time{}
	}
}

// NormalizeBaseURL validates and canonicalizes a Jira site URL to
// scheme + host + path with any trailing slash stripped. Malformed input
// fails with a validation error before any network I/O.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apierr.New(apierr.KindValidation, "base URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", apierr.Wrap(err, apierr.KindValidation, "invalid base URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apierr.New(apierr.KindValidation, "base URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return "", apierr.New(apierr.KindValidation, "base URL %q has no host", raw)
	}
	normalized := u.Scheme + "://" + u.Host + u.Path
	return strings.TrimRight(normalized, "/"), nil
}
