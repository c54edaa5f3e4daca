package auth

import (
	"os"
	"strings"
)

// Environment variable names for credential sources. Read on every
// resolve that finds no in-memory credential; environment credentials are
// deliberately never cached.
const (
	EnvBaseURL  = "JIRA_BASE_URL"
	EnvEmail    = "JIRA_EMAIL"
	EnvAPIToken = "JIRA_API_TOKEN"

	EnvOAuthClientID     = "JIRA_OAUTH_CLIENT_ID"
	EnvOAuthClientSecret = "JIRA_OAUTH_CLIENT_SECRET"
	EnvOAuthAccessToken  = "JIRA_OAUTH_ACCESS_TOKEN"
	EnvOAuthRefreshToken = "JIRA_OAUTH_REFRESH_TOKEN"
	EnvCloudID           = "JIRA_CLOUD_ID"

	// EnvAcceptanceCriteriaField optionally names a custom field id that
	// issue reads append to their default field list.
	EnvAcceptanceCriteriaField = "JIRA_ACCEPTANCE_CRITERIA_FIELD"
)

// envFunc is the environment lookup, injectable for tests.
type envFunc func(string) string

func envValue(env envFunc, key string) string {
	if env == nil {
		env = os.Getenv
	}
	return strings.TrimSpace(env(key))
}

// oauthFromEnv builds an OAuth credential when all mandatory variables
// are set. The refresh token is optional. Returns nil when the source is
// not fully specified.
func oauthFromEnv(env envFunc) *OAuthCredential {
	clientID := envValue(env, EnvOAuthClientID)
	clientSecret := envValue(env, EnvOAuthClientSecret)
	accessToken := envValue(env, EnvOAuthAccessToken)
	cloudID := envValue(env, EnvCloudID)
	if clientID == "" || clientSecret == "" || accessToken == "" || cloudID == "" {
		return nil
	}
	return &OAuthCredential{
		ClientID:     clientID,
		ClientSecret: NewRedactedToken(clientSecret),
		AccessToken:  NewRedactedToken(accessToken),
		RefreshToken: NewRedactedToken(envValue(env, EnvOAuthRefreshToken)),
		CloudID:      cloudID,
	}
}

// basicFromEnv builds a basic credential when all three variables are
// set. A malformed base URL is a hard validation error rather than a
// silent fall-through, since the intent to use basic auth is explicit.
func basicFromEnv(env envFunc) (*BasicCredential, error) {
	baseURL := envValue(env, EnvBaseURL)
	email := envValue(env, EnvEmail)
	token := envValue(env, EnvAPIToken)
	if baseURL == "" || email == "" || token == "" {
		return nil, nil
	}
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &BasicCredential{
		BaseURL:  normalized,
		Email:    email,
		APIToken: NewRedactedToken(token),
	}, nil
}

// AcceptanceCriteriaField returns the configured custom field id, or ""
// when unset.
func AcceptanceCriteriaField() string {
	return strings.TrimSpace(os.Getenv(EnvAcceptanceCriteriaField))
}
