package auth

import (
	"sync"

	"jiramcp/internal/apierr"
	"jiramcp/pkg/logging"
)

// Store holds the process-wide credential slot: at most one active
// credential in memory, optionally mirrored to the OS secret vault.
type Store struct {
	mu    sync.RWMutex
	mem   Credential
	vault Vault // nil when durable storage is unavailable
}

// NewStore creates a credential store. vault may be nil, in which case
// persistence requests fail with PersistenceUnavailable and durable
// lookups report absent.
func NewStore(vault Vault) *Store {
	return &Store{vault: vault}
}

// Get returns the in-memory credential, or nil when unauthenticated.
func (s *Store) Get() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem
}

// Set installs a credential in memory. When persist is true the
// credential is additionally written to the vault; if the vault is
// unavailable or the write fails, the in-memory slot is still set and the
// returned error reports the broken persistence promise.
func (s *Store) Set(cred Credential, persist bool) error {
	s.mu.Lock()
	s.mem = cred
	s.mu.Unlock()

	if !persist {
		return nil
	}
	if s.vault == nil {
		return apierr.New(apierr.KindPersistenceUnavailable, "durable credential storage is not available on this host")
	}
	blob, err := marshalCredential(cred)
	if err != nil {
		return apierr.Wrap(err, apierr.KindPersistenceUnavailable, "failed to serialize credential for storage")
	}
	if err := s.vault.Set(blob); err != nil {
		return apierr.Wrap(err, apierr.KindPersistenceUnavailable, "failed to write credential to secret storage")
	}
	logging.Debug("Auth", "credential persisted to secret storage")
	return nil
}

// Clear removes the in-memory credential unconditionally and deletes the
// durable copy when a vault is present. Vault deletion is best-effort:
// a missing or broken vault never fails a clear.
func (s *Store) Clear() {
	s.mu.Lock()
	s.mem = nil
	s.mu.Unlock()

	if s.vault == nil {
		return
	}
	if err := s.vault.Delete(); err != nil {
		logging.Warn("Auth", "failed to delete credential from secret storage: %v", err)
	}
}

// Durable returns the credential persisted in the vault, or nil when the
// vault is unavailable, empty, or holds data that does not deserialize as
// a credential.
func (s *Store) Durable() Credential {
	if s.vault == nil {
		return nil
	}
	blob, err := s.vault.Get()
	if err != nil {
		return nil
	}
	return unmarshalCredential(blob)
}
