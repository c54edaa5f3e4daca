package jira

import (
	"context"
	"net/url"
	"strconv"
)

// Myself returns the profile of the authenticated identity.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, apiPrefix+"/myself", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers pages through all known users, including app accounts.
func (c *Client) ListUsers(ctx context.Context, startAt, maxResults int) ([]User, error) {
	query := url.Values{}
	if startAt > 0 {
		query.Set("startAt", strconv.Itoa(startAt))
	}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}
	var users []User
	if err := c.get(ctx, apiPrefix+"/users/search", query, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindUsers searches users by display name or email fragment.
func (c *Client) FindUsers(ctx context.Context, queryString string, maxResults int) ([]User, error) {
	query := url.Values{"query": {queryString}}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}
	var users []User
	if err := c.get(ctx, apiPrefix+"/user/search", query, &users); err != nil {
		return nil, err
	}
	return users, nil
}
