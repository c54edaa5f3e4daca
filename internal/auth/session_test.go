package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jiramcp/internal/apierr"
)

// mockVault implements Vault in memory for tests.
type mockVault struct {
	blob   string
	hasVal bool
}

func (v *mockVault) Get() (string, error) {
	if !v.hasVal {
		return "", assert.AnError
	}
	return v.blob, nil
}

func (v *mockVault) Set(value string) error {
	v.blob = value
	v.hasVal = true
	return nil
}

func (v *mockVault) Delete() error {
	v.blob = ""
	v.hasVal = false
	return nil
}

func envMap(m map[string]string) envFunc {
	return func(key string) string { return m[key] }
}

func basicEnv() map[string]string {
	return map[string]string{
		EnvBaseURL:  "https://acme.atlassian.net",
		EnvEmail:    "a@acme.com",
		EnvAPIToken: "T",
	}
}

func oauthEnv() map[string]string {
	return map[string]string{
		EnvOAuthClientID:     "cid",
		EnvOAuthClientSecret: "csecret",
		EnvOAuthAccessToken:  "atoken",
		EnvCloudID:           "cloud-1",
	}
}

// tokenEndpoint spins up a token endpoint returning the given response
// and counts refresh calls.
func tokenEndpoint(t *testing.T, status int, body map[string]interface{}, calls *atomic.Int32) *OAuthClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return NewOAuthClientWithEndpoints(srv.URL+"/authorize", srv.URL+"/token", srv.URL+"/resources", srv.Client())
}

func TestResolvePriority(t *testing.T) {
	vault := &mockVault{}
	store := NewStore(vault)
	session := NewSession(store, NewOAuthClient())

	// All four sources populated at once.
	env := basicEnv()
	for k, v := range oauthEnv() {
		env[k] = v
	}
	session.env = envMap(env)

	durable := &BasicCredential{BaseURL: "https://old.atlassian.net", Email: "old@acme.com", APIToken: NewRedactedToken("old")}
	blob, err := marshalCredential(durable)
	require.NoError(t, err)
	require.NoError(t, vault.Set(blob))

	inMem := &BasicCredential{BaseURL: "https://mem.atlassian.net", Email: "mem@acme.com", APIToken: NewRedactedToken("mem")}
	require.NoError(t, store.Set(inMem, false))

	// 1. In-memory wins.
	cred, err := session.Resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, Credential(inMem), cred)

	// 2. Without in-memory, OAuth env wins over basic env.
	store.Clear()
	require.NoError(t, vault.Set(blob)) // Clear wiped the vault too
	cred, err = session.Resolve(context.Background())
	require.NoError(t, err)
	oc, ok := cred.(*OAuthCredential)
	require.True(t, ok, "expected OAuth credential, got %T", cred)
	assert.Equal(t, "cloud-1", oc.CloudID)

	// 3. Without OAuth env, basic env wins over the vault.
	session.env = envMap(basicEnv())
	cred, err = session.Resolve(context.Background())
	require.NoError(t, err)
	bc, ok := cred.(*BasicCredential)
	require.True(t, ok, "expected basic credential, got %T", cred)
	assert.Equal(t, "https://acme.atlassian.net", bc.BaseURL)

	// 4. Without env, the vault credential resolves.
	session.env = envMap(nil)
	cred, err = session.Resolve(context.Background())
	require.NoError(t, err)
	bc, ok = cred.(*BasicCredential)
	require.True(t, ok)
	assert.Equal(t, "https://old.atlassian.net", bc.BaseURL)

	// 5. Nothing left: MissingAuth.
	require.NoError(t, vault.Delete())
	_, err = session.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, apierr.KindMissingAuth, apierr.KindOf(err))
}

func TestEnvCredentialNotCached(t *testing.T) {
	store := NewStore(nil)
	session := NewSession(store, NewOAuthClient())
	session.env = envMap(basicEnv())

	_, err := session.Resolve(context.Background())
	require.NoError(t, err)

	// Resolving from the environment must not populate the memory slot.
	assert.Nil(t, store.Get())

	session.env = envMap(nil)
	_, err = session.Resolve(context.Background())
	assert.Equal(t, apierr.KindMissingAuth, apierr.KindOf(err))
}

func TestRefreshWindow(t *testing.T) {
	var calls atomic.Int32
	oauthClient := tokenEndpoint(t, http.StatusOK, map[string]interface{}{
		"access_token":  "fresh-token",
		"refresh_token": "fresh-refresh",
		"expires_in":    3600,
	}, &calls)

	now := time.Now()

	t.Run("far from expiry: no refresh", func(t *testing.T) {
		calls.Store(0)
		store := NewStore(nil)
		cred := &OAuthCredential{
			ClientID:     "cid",
			ClientSecret: NewRedactedToken("cs"),
			AccessToken:  NewRedactedToken("old"),
			RefreshToken: NewRedactedToken("rt"),
			CloudID:      "cloud-1",
			ExpiresAt:    now.Add(time.Hour),
		}
		require.NoError(t, store.Set(cred, false))
		session := NewSession(store, oauthClient)
		session.now = func() time.Time { return now }

		got, err := session.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(0), calls.Load())
		assert.Equal(t, "old", got.(*OAuthCredential).AccessToken.Value())
	})

	t.Run("within window: one refresh, tokens replaced in place", func(t *testing.T) {
		calls.Store(0)
		store := NewStore(nil)
		cred := &OAuthCredential{
			ClientID:     "cid",
			ClientSecret: NewRedactedToken("cs"),
			AccessToken:  NewRedactedToken("old"),
			RefreshToken: NewRedactedToken("rt"),
			CloudID:      "cloud-1",
			ExpiresAt:    now.Add(2 * time.Minute),
		}
		require.NoError(t, store.Set(cred, false))
		session := NewSession(store, oauthClient)
		session.now = func() time.Time { return now }

		got, err := session.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())

		oc := got.(*OAuthCredential)
		assert.Same(t, cred, oc) // mutated in place, not replaced
		assert.Equal(t, "fresh-token", oc.AccessToken.Value())
		assert.Equal(t, "fresh-refresh", oc.RefreshToken.Value())
		assert.WithinDuration(t, now.Add(time.Hour), oc.ExpiresAt, time.Second)
		assert.Equal(t, "cid", oc.ClientID)
		assert.Equal(t, "cloud-1", oc.CloudID)
	})

	t.Run("no refresh token: no refresh attempted", func(t *testing.T) {
		calls.Store(0)
		store := NewStore(nil)
		cred := &OAuthCredential{
			ClientID:    "cid",
			AccessToken: NewRedactedToken("old"),
			CloudID:     "cloud-1",
			ExpiresAt:   now.Add(-time.Minute), // already expired
		}
		require.NoError(t, store.Set(cred, false))
		session := NewSession(store, oauthClient)
		session.now = func() time.Time { return now }

		got, err := session.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(0), calls.Load())
		assert.Equal(t, "old", got.(*OAuthCredential).AccessToken.Value())
	})
}

func TestRefreshFailureTolerated(t *testing.T) {
	var calls atomic.Int32
	oauthClient := tokenEndpoint(t, http.StatusBadRequest, map[string]interface{}{
		"error":             "invalid_grant",
		"error_description": "refresh token revoked",
	}, &calls)

	now := time.Now()
	store := NewStore(nil)
	cred := &OAuthCredential{
		ClientID:     "cid",
		ClientSecret: NewRedactedToken("cs"),
		AccessToken:  NewRedactedToken("still-held"),
		RefreshToken: NewRedactedToken("rt"),
		CloudID:      "cloud-1",
		ExpiresAt:    now.Add(time.Minute),
	}
	require.NoError(t, store.Set(cred, false))
	session := NewSession(store, oauthClient)
	session.now = func() time.Time { return now }

	got, err := session.Resolve(context.Background())
	require.NoError(t, err, "refresh failure must not fail the call")
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "still-held", got.(*OAuthCredential).AccessToken.Value())
}

func TestRefreshKeepsOldRefreshToken(t *testing.T) {
	var calls atomic.Int32
	oauthClient := tokenEndpoint(t, http.StatusOK, map[string]interface{}{
		"access_token": "fresh-token",
		"expires_in":   3600,
		// no refresh_token in the response
	}, &calls)

	now := time.Now()
	store := NewStore(nil)
	cred := &OAuthCredential{
		ClientID:     "cid",
		ClientSecret: NewRedactedToken("cs"),
		AccessToken:  NewRedactedToken("old"),
		RefreshToken: NewRedactedToken("keep-me"),
		CloudID:      "cloud-1",
		ExpiresAt:    now.Add(time.Minute),
	}
	require.NoError(t, store.Set(cred, false))
	session := NewSession(store, oauthClient)
	session.now = func() time.Time { return now }

	_, err := session.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "keep-me", cred.RefreshToken.Value())
	assert.Equal(t, "fresh-token", cred.AccessToken.Value())
}

func TestClearThenResolve(t *testing.T) {
	vault := &mockVault{}
	store := NewStore(vault)
	session := NewSession(store, NewOAuthClient())
	session.env = envMap(nil)

	cred := &BasicCredential{BaseURL: "https://acme.atlassian.net", Email: "a@acme.com", APIToken: NewRedactedToken("T")}
	require.NoError(t, store.Set(cred, true))
	assert.True(t, vault.hasVal)

	store.Clear()

	assert.False(t, vault.hasVal, "clear must remove the durable copy")
	_, err := session.Resolve(context.Background())
	assert.Equal(t, apierr.KindMissingAuth, apierr.KindOf(err))
}

func TestSetPersistWithoutVault(t *testing.T) {
	store := NewStore(nil)
	cred := &BasicCredential{BaseURL: "https://acme.atlassian.net", Email: "a@acme.com", APIToken: NewRedactedToken("T")}

	err := store.Set(cred, true)
	require.Error(t, err)
	assert.Equal(t, apierr.KindPersistenceUnavailable, apierr.KindOf(err))

	// The in-memory slot is still set; only the persistence promise failed.
	assert.Same(t, Credential(cred), store.Get())
}

func TestRefreshNow(t *testing.T) {
	var calls atomic.Int32
	oauthClient := tokenEndpoint(t, http.StatusOK, map[string]interface{}{
		"access_token": "forced",
		"expires_in":   60,
	}, &calls)

	store := NewStore(nil)
	session := NewSession(store, oauthClient)

	t.Run("no credential", func(t *testing.T) {
		_, err := session.RefreshNow(context.Background())
		assert.Equal(t, apierr.KindMissingAuth, apierr.KindOf(err))
	})

	t.Run("forces refresh regardless of expiry", func(t *testing.T) {
		cred := &OAuthCredential{
			ClientID:     "cid",
			ClientSecret: NewRedactedToken("cs"),
			AccessToken:  NewRedactedToken("old"),
			RefreshToken: NewRedactedToken("rt"),
			CloudID:      "cloud-1",
			ExpiresAt:    time.Now().Add(10 * time.Hour),
		}
		require.NoError(t, store.Set(cred, false))

		got, err := session.RefreshNow(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "forced", got.AccessToken.Value())
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestStatus(t *testing.T) {
	vault := &mockVault{}
	store := NewStore(vault)
	session := NewSession(store, NewOAuthClient())
	session.env = envMap(nil)

	st := session.Status()
	assert.False(t, st.Authenticated)

	session.env = envMap(basicEnv())
	st = session.Status()
	assert.True(t, st.Authenticated)
	assert.Equal(t, "basic", st.Method)
	assert.Equal(t, "environment", st.Source)

	expiry := time.Now().Add(time.Hour)
	require.NoError(t, store.Set(&OAuthCredential{
		ClientID:    "cid",
		AccessToken: NewRedactedToken("a"),
		CloudID:     "cloud-1",
		ExpiresAt:   expiry,
	}, false))
	st = session.Status()
	assert.Equal(t, "oauth", st.Method)
	assert.Equal(t, "memory", st.Source)
	assert.Equal(t, expiry.UTC().Format(time.RFC3339), st.ExpiresAt)
}
