package auth

import (
	"encoding/json"
	"time"

	"github.com/zalando/go-keyring"
)

// Fixed address of the single persisted credential in the OS secret
// vault. Intentionally singular: there is no multi-profile support.
const (
	vaultService = "jiramcp"
	vaultAccount = "credential"
)

// Vault is an opaque get/set/delete-by-key capability over the OS secret
// store. A nil Vault at a call site means durable storage is unavailable
// on this host; every caller must branch on that explicitly.
type Vault interface {
	Get() (string, error)
	Set(value string) error
	Delete() error
}

// systemVault persists through the platform keychain (macOS Keychain,
// Windows Credential Manager, libsecret on Linux).
type systemVault struct{}

// SystemVault returns the OS keychain-backed vault.
func SystemVault() Vault {
	return systemVault{}
}

func (systemVault) Get() (string, error) {
	return keyring.Get(vaultService, vaultAccount)
}

func (systemVault) Set(value string) error {
	return keyring.Set(vaultService, vaultAccount, value)
}

func (systemVault) Delete() error {
	err := keyring.Delete(vaultService, vaultAccount)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}

// storedCredential is the serialized vault blob. Unlike the in-memory
// types it carries secrets in plain form; it exists only on the
// marshal/unmarshal path to and from the keychain.
type storedCredential struct {
	Type string `json:"type"` // "basic" or "oauth"

	// Basic fields
	BaseURL  string `json:"base_url,omitempty"`
	Email    string `json:"email,omitempty"`
	APIToken string `json:"api_token,omitempty"`

	// OAuth fields
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	CloudID      string `json:"cloud_id,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"` // unix seconds, 0 = unknown
}

// marshalCredential serializes a credential for vault storage.
func marshalCredential(cred Credential) (string, error) {
	var sc storedCredential
	switch c := cred.(type) {
	case *BasicCredential:
		sc = storedCredential{
			Type:     "basic",
			BaseURL:  c.BaseURL,
			Email:    c.Email,
			APIToken: c.APIToken.Value(),
		}
	case *OAuthCredential:
		sc = storedCredential{
			Type:         "oauth",
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret.Value(),
			AccessToken:  c.AccessToken.Value(),
			RefreshToken: c.RefreshToken.Value(),
			CloudID:      c.CloudID,
		}
		if !c.ExpiresAt.IsZero() {
			sc.ExpiresAt = c.ExpiresAt.Unix()
		}
	}
	data, err := json.Marshal(sc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalCredential deserializes a vault blob. Corrupt or foreign data
// returns nil: callers treat it as absent and fall through to other
// credential sources.
func unmarshalCredential(blob string) Credential {
	var sc storedCredential
	if err := json.Unmarshal([]byte(blob), &sc); err != nil {
		return nil
	}
	switch sc.Type {
	case "basic":
		if sc.BaseURL == "" || sc.Email == "" || sc.APIToken == "" {
			return nil
		}
		return &BasicCredential{
			BaseURL:  sc.BaseURL,
			Email:    sc.Email,
			APIToken: NewRedactedToken(sc.APIToken),
		}
	case "oauth":
		if sc.AccessToken == "" || sc.CloudID == "" {
			return nil
		}
		cred := &OAuthCredential{
			ClientID:     sc.ClientID,
			ClientSecret: NewRedactedToken(sc.ClientSecret),
			AccessToken:  NewRedactedToken(sc.AccessToken),
			RefreshToken: NewRedactedToken(sc.RefreshToken),
			CloudID:      sc.CloudID,
		}
		if sc.ExpiresAt > 0 {
			cred.ExpiresAt = time.Unix(sc.ExpiresAt, 0)
		}
		return cred
	default:
		return nil
	}
}
