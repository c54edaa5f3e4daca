package auth

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"jiramcp/internal/apierr"
	"jiramcp/pkg/logging"
)

// refreshWindow is how far before expiry an OAuth access token is
// proactively refreshed. This is the only clock-skew compensation in the
// system; the token endpoint's expiry is taken at face value.
const refreshWindow = 5 * time.Minute

// Session is the single owner of credential resolution. Every tool
// handler calls Resolve before touching Jira; the result is a usable
// credential or a typed MissingAuth error.
//
// Source priority when no in-memory credential is set: OAuth environment
// variables, then basic-auth environment variables, then the OS secret
// vault. Environment and vault results are re-derived on every call;
// only an explicit Store.Set populates the in-memory slot.
type Session struct {
	store *Store
	oauth *OAuthClient

	// Injectable for tests.
	now func() time.Time
	env envFunc

	refreshGroup singleflight.Group
}

// NewSession creates a session manager over the given store and OAuth
// client.
func NewSession(store *Store, oauth *OAuthClient) *Session {
	return &Session{
		store: store,
		oauth: oauth,
		now:   time.Now,
		env:   os.Getenv,
	}
}

// Store exposes the underlying credential store for the auth-management
// tools (set/clear/status).
func (s *Session) Store() *Store {
	return s.store
}

// OAuth exposes the OAuth client for the bootstrap tools (authorization
// URL, code exchange, accessible sites).
func (s *Session) OAuth() *OAuthClient {
	return s.oauth
}

// Resolve produces a ready-to-use credential for one tool call.
//
// An in-memory OAuth credential that is within refreshWindow of expiry
// and holds a refresh token is refreshed first; refresh failure is
// logged and swallowed because the existing token may still be accepted
// for a few more minutes. The refreshed tokens replace the in-memory
// credential's fields in place.
func (s *Session) Resolve(ctx context.Context) (Credential, error) {
	if cred := s.store.Get(); cred != nil {
		if oc, ok := cred.(*OAuthCredential); ok {
			s.maybeRefresh(ctx, oc)
		}
		return cred, nil
	}

	if oc := oauthFromEnv(s.env); oc != nil {
		return oc, nil
	}
	bc, err := basicFromEnv(s.env)
	if err != nil {
		return nil, err
	}
	if bc != nil {
		return bc, nil
	}

	if cred := s.store.Durable(); cred != nil {
		return cred, nil
	}

	return nil, apierr.New(apierr.KindMissingAuth,
		"no Jira credential configured; set JIRA_BASE_URL/JIRA_EMAIL/JIRA_API_TOKEN, the JIRA_OAUTH_* variables, or use the jira_set_auth tool")
}

// maybeRefresh refreshes oc when it is near expiry and refreshable.
// Concurrent calls deciding to refresh the same credential collapse into
// one token-endpoint request; the single result is applied once.
func (s *Session) maybeRefresh(ctx context.Context, oc *OAuthCredential) {
	if oc.RefreshToken.IsEmpty() || !oc.NearExpiry(s.now(), refreshWindow) {
		return
	}

	_, err, _ := s.refreshGroup.Do("refresh", func() (interface{}, error) {
		tok, err := s.oauth.Refresh(ctx, oc.ClientID, oc.ClientSecret, oc.RefreshToken)
		if err != nil {
			return nil, err
		}
		s.store.mu.Lock()
		oc.ApplyRefresh(tok, s.now())
		s.store.mu.Unlock()
		logging.Debug("Auth", "refreshed OAuth access token, new expiry %v", oc.ExpiresAt)
		return nil, nil
	})
	if err != nil {
		// The held token may still be accepted for a few more minutes.
		logging.Warn("Auth", "OAuth token refresh failed, continuing with current token: %v", err)
	}
}

// RefreshNow forces a refresh of the in-memory OAuth credential,
// regardless of expiry. Unlike the resolve-time refresh, failure is
// surfaced: the caller asked for a refresh explicitly.
func (s *Session) RefreshNow(ctx context.Context) (*OAuthCredential, error) {
	cred := s.store.Get()
	oc, ok := cred.(*OAuthCredential)
	if !ok || oc == nil {
		return nil, apierr.New(apierr.KindMissingAuth, "no in-memory OAuth credential to refresh")
	}
	if oc.RefreshToken.IsEmpty() {
		return nil, apierr.New(apierr.KindValidation, "the current OAuth credential has no refresh token")
	}
	tok, err := s.oauth.Refresh(ctx, oc.ClientID, oc.ClientSecret, oc.RefreshToken)
	if err != nil {
		return nil, apierr.Wrap(err, apierr.KindUnauthorized, "OAuth token refresh failed: %v", err)
	}
	s.store.mu.Lock()
	oc.ApplyRefresh(tok, s.now())
	s.store.mu.Unlock()
	return oc, nil
}

// Status describes the current authentication state without exposing
// secrets.
type Status struct {
	Authenticated bool   `json:"authenticated"`
	Method        string `json:"method,omitempty"` // "basic" or "oauth"
	Source        string `json:"source,omitempty"` // "memory", "environment", "keychain"
	Detail        string `json:"detail,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

// Status reports where the next Resolve would get its credential from,
// following the same priority order.
func (s *Session) Status() Status {
	if cred := s.store.Get(); cred != nil {
		return statusFor(cred, "memory")
	}
	if oc := oauthFromEnv(s.env); oc != nil {
		return statusFor(oc, "environment")
	}
	if bc, err := basicFromEnv(s.env); err == nil && bc != nil {
		return statusFor(bc, "environment")
	}
	if cred := s.store.Durable(); cred != nil {
		return statusFor(cred, "keychain")
	}
	return Status{Authenticated: false, Detail: "no credential configured"}
}

func statusFor(cred Credential, source string) Status {
	st := Status{
		Authenticated: true,
		Source:        source,
		Detail:        cred.Summary(),
	}
	switch c := cred.(type) {
	case *BasicCredential:
		st.Method = "basic"
	case *OAuthCredential:
		st.Method = "oauth"
		if !c.ExpiresAt.IsZero() {
			st.ExpiresAt = c.ExpiresAt.UTC().Format(time.RFC3339)
		}
	}
	return st
}
