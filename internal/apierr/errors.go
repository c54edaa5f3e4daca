package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so tool callers can react programmatically.
// Every tool result error carries exactly one Kind.
type Kind string

const (
	// KindMissingAuth means no credential source resolved.
	KindMissingAuth Kind = "MissingAuth"

	// KindUnauthorized means a credential was present but Jira rejected it (HTTP 401).
	KindUnauthorized Kind = "Unauthorized"

	// KindForbidden means the credential is valid but lacks permission (HTTP 403).
	KindForbidden Kind = "Forbidden"

	// KindNotFound means the target resource is absent or invisible (HTTP 404).
	KindNotFound Kind = "NotFound"

	// KindRateLimited means Jira throttled the request (HTTP 429). Not retried here.
	KindRateLimited Kind = "RateLimited"

	// KindServerError means an upstream 5xx fault.
	KindServerError Kind = "ServerError"

	// KindValidation means the input failed its declared constraints; no network call was made.
	KindValidation Kind = "ValidationError"

	// KindConfirmationRequired means a destructive tool was invoked without confirm=true.
	KindConfirmationRequired Kind = "ConfirmationRequired"

	// KindPersistenceUnavailable means durable credential storage was requested but absent.
	KindPersistenceUnavailable Kind = "PersistenceUnavailable"

	// KindUnknown is the catch-all for non-HTTP failures.
	KindUnknown Kind = "UnknownError"
)

// Error is a classified error. Message must never contain credential
// material; callers log and serialize it verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error, keeping it on the unwrap chain.
func Wrap(err error, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from an error chain, defaulting to KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FromStatus maps a Jira HTTP status code to a classified error.
// statusMessage is included verbatim; it comes from Jira's error body,
// never from credential material.
func FromStatus(status int, statusMessage string) *Error {
	switch {
	case status == 401:
		return New(KindUnauthorized, "Jira rejected the credential (401): %s", statusMessage)
	case status == 403:
		return New(KindForbidden, "permission denied (403): %s", statusMessage)
	case status == 404:
		return New(KindNotFound, "resource not found (404): %s", statusMessage)
	case status == 429:
		return New(KindRateLimited, "rate limited by Jira (429), retry later: %s", statusMessage)
	case status >= 500:
		return New(KindServerError, "Jira server error (%d): %s", status, statusMessage)
	default:
		return New(KindUnknown, "unexpected Jira response (%d): %s", status, statusMessage)
	}
}
