package tools

import (
	"time"

	"jiramcp/internal/auth"
)

// timeNow is a seam for tests.
var timeNow = time.Now

func secondsDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func expiryString(cred *auth.OAuthCredential) string {
	if cred.ExpiresAt.IsZero() {
		return ""
	}
	return cred.ExpiresAt.UTC().Format(time.RFC3339)
}
