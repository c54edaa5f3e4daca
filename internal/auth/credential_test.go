package auth

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiramcp/internal/apierr"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"trailing slash stripped", "https://x.atlassian.net/", "https://x.atlassian.net", false},
		{"no trailing slash unchanged", "https://x.atlassian.net", "https://x.atlassian.net", false},
		{"path preserved", "https://jira.corp.example/jira/", "https://jira.corp.example/jira", false},
		{"query and fragment dropped", "https://x.atlassian.net/?a=b#c", "https://x.atlassian.net", false},
		{"whitespace trimmed", "  https://x.atlassian.net ", "https://x.atlassian.net", false},
		{"empty", "", "", true},
		{"no scheme", "x.atlassian.net", "", true},
		{"bad scheme", "ftp://x.atlassian.net", "", true},
		{"garbage", "http://[::1]:namedport", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBaseURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeBaseURLEquivalence(t *testing.T) {
	a, err := NormalizeBaseURL("https://x.atlassian.net/")
	require.NoError(t, err)
	b, err := NormalizeBaseURL("https://x.atlassian.net")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRedactedToken(t *testing.T) {
	tok := NewRedactedToken("super-secret")

	assert.Equal(t, "[REDACTED]", tok.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", tok))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", tok))
	assert.NotContains(t, fmt.Sprintf("%#v", tok), "super-secret")
	assert.Equal(t, "super-secret", tok.Value())
	assert.False(t, tok.IsEmpty())
	assert.True(t, NewRedactedToken("").IsEmpty())

	data, err := json.Marshal(map[string]interface{}{"token": tok})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret")
}

func TestCredentialSerializationRoundtrip(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		in := &BasicCredential{
			BaseURL:  "https://acme.atlassian.net",
			Email:    "a@acme.com",
			APIToken: NewRedactedToken("T"),
		}
		blob, err := marshalCredential(in)
		require.NoError(t, err)

		out, ok := unmarshalCredential(blob).(*BasicCredential)
		require.True(t, ok)
		assert.Equal(t, in.BaseURL, out.BaseURL)
		assert.Equal(t, in.Email, out.Email)
		assert.Equal(t, "T", out.APIToken.Value())
	})

	t.Run("oauth", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		in := &OAuthCredential{
			ClientID:     "cid",
			ClientSecret: NewRedactedToken("cs"),
			AccessToken:  NewRedactedToken("at"),
			RefreshToken: NewRedactedToken("rt"),
			CloudID:      "cloud-1",
			ExpiresAt:    expiry,
		}
		blob, err := marshalCredential(in)
		require.NoError(t, err)

		out, ok := unmarshalCredential(blob).(*OAuthCredential)
		require.True(t, ok)
		assert.Equal(t, "cid", out.ClientID)
		assert.Equal(t, "cs", out.ClientSecret.Value())
		assert.Equal(t, "at", out.AccessToken.Value())
		assert.Equal(t, "rt", out.RefreshToken.Value())
		assert.Equal(t, "cloud-1", out.CloudID)
		assert.True(t, expiry.Equal(out.ExpiresAt))
	})

	t.Run("corrupt blob treated as absent", func(t *testing.T) {
		assert.Nil(t, unmarshalCredential("not json"))
		assert.Nil(t, unmarshalCredential(`{"type":"unknown"}`))
		assert.Nil(t, unmarshalCredential(`{"type":"basic"}`))
		assert.Nil(t, unmarshalCredential(`{"type":"oauth","access_token":""}`))
	})
}

func TestNearExpiry(t *testing.T) {
	now := time.Now()
	margin := 5 * time.Minute

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"unknown expiry never near", time.Time{}, false},
		{"an hour away", now.Add(time.Hour), false},
		{"just outside the window", now.Add(6 * time.Minute), false},
		{"inside the window", now.Add(2 * time.Minute), true},
		{"already expired", now.Add(-time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &OAuthCredential{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, c.NearExpiry(now, margin))
		})
	}
}

func TestApplyRefresh(t *testing.T) {
	now := time.Now()
	c := &OAuthCredential{
		ClientID:     "cid",
		ClientSecret: NewRedactedToken("cs"),
		AccessToken:  NewRedactedToken("old-access"),
		RefreshToken: NewRedactedToken("old-refresh"),
		CloudID:      "cloud-1",
		ExpiresAt:    now.Add(time.Minute),
	}

	c.ApplyRefresh(&TokenResponse{AccessToken: "new-access", ExpiresIn: 3600}, now)
	assert.Equal(t, "new-access", c.AccessToken.Value())
	assert.Equal(t, "old-refresh", c.RefreshToken.Value(), "refresh token kept when none issued")
	assert.WithinDuration(t, now.Add(time.Hour), c.ExpiresAt, time.Second)

	c.ApplyRefresh(&TokenResponse{AccessToken: "newer", RefreshToken: "rotated", ExpiresIn: 60}, now)
	assert.Equal(t, "rotated", c.RefreshToken.Value())
	assert.Equal(t, "cid", c.ClientID)
	assert.Equal(t, "cloud-1", c.CloudID)
}
