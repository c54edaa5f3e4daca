// Package auth is the credential and session core.
//
// It owns the single process-wide credential slot (Store), its optional
// OS-keychain persistence (Vault), the Atlassian OAuth 2.0 three-legged
// flows (OAuthClient), and the per-call resolution policy (Session).
//
// A credential is one of two closed variants: BasicCredential (site URL,
// email, API token; immutable) or OAuthCredential (client pair, tokens,
// cloud ID, expiry; mutated in place by refresh). Session.Resolve picks
// the active credential in a fixed priority order and transparently
// refreshes OAuth access tokens that are within five minutes of expiry.
// Refresh failure during resolution is never fatal to the call: the
// still-held token is returned and the failure is logged, because a
// slightly stale token is usually still accepted by Jira.
//
// Secrets are carried as RedactedToken throughout so fmt, logging, and
// JSON serialization can never leak them; only the vault serializer and
// the HTTP header builders unwrap the real values.
package auth
