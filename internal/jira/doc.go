// Package jira is the REST glue between resolved credentials and Jira
// Cloud. A Client is built per tool call from the credential the session
// manager resolved: basic credentials hit the site URL with an HTTP
// basic-auth header, OAuth credentials hit the Atlassian gateway under
// their cloud ID with a bearer header.
//
// Each wrapper issues one request (occasionally two, e.g. transition by
// name) against a fixed method/path template and reshapes the response
// into the flat object its tool promises. Rich text crosses the boundary
// as plain text: writes wrap it into Atlassian Document Format, reads
// flatten the document back out. HTTP error statuses map onto the
// apierr taxonomy; nothing here retries or caches.
package jira
