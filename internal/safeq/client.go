// Package safeq implements a typed HTTP client for the SafeQ print-management
// server REST API. Listing calls return explicit errors on transport or HTTP
// failure so callers can distinguish "no data" from "call failed".
package safeq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 30 * time.Second

	apiKeyHeader = "X-Api-Key"
)

// Config holds the SafeQ server connection settings.
type Config struct {
	// ServerURL is the base URL of the SafeQ server (e.g. "https://safeq.example.com").
	ServerURL string
	// APIKey is sent with every request.
	APIKey string
	// Timeout for a single request. Zero means the default of 30 seconds.
	Timeout time.Duration
}

// Client is the SafeQ server API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a SafeQ client from the given connection settings.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Test verifies the SafeQ API connection by listing groups.
func (c *Client) Test(ctx context.Context) error {
	if c == nil {
		return ErrClientNotInitialized
	}

	groups, err := c.Groups(ctx, "", 1)
	if err != nil {
		return err
	}

	log.Info().Int("group_count", len(groups)).Msg("SafeQ API connection test successful")

	return nil
}

// LookupUser searches for a single user by username within a provider.
// Returns ErrUserNotFound when the search matches no account; any other
// error indicates a transport or server failure.
func (c *Client) LookupUser(ctx context.Context, username, provider string) (*User, error) {
	q := url.Values{}
	q.Set("username", username)

	if provider != "" {
		q.Set("providerid", provider)
	}

	var resp struct {
		Users []userWire `json:"users"`
	}

	if err := c.get(ctx, "/api/v1/users", q, &resp); err != nil {
		return nil, err
	}

	for _, w := range resp.Users {
		if u, ok := w.canonical(); ok && u.UserName == username {
			return &u, nil
		}
	}

	return nil, ErrUserNotFound
}

// UserGroups lists the groups the given user belongs to.
func (c *Client) UserGroups(ctx context.Context, username string) ([]Group, error) {
	var resp struct {
		Groups []groupWire `json:"groups"`
	}

	p := "/api/v1/users/" + url.PathEscape(username) + "/groups"
	if err := c.get(ctx, p, nil, &resp); err != nil {
		return nil, err
	}

	return canonicalGroups(resp.Groups), nil
}

// Groups lists groups, optionally scoped to a provider.
func (c *Client) Groups(ctx context.Context, provider string, maxRecords int) ([]Group, error) {
	q := url.Values{}
	if provider != "" {
		q.Set("providerid", provider)
	}

	if maxRecords > 0 {
		q.Set("maxrecords", strconv.Itoa(maxRecords))
	}

	var resp struct {
		Groups []groupWire `json:"groups"`
	}

	if err := c.get(ctx, "/api/v1/groups", q, &resp); err != nil {
		return nil, err
	}

	return canonicalGroups(resp.Groups), nil
}

// Users lists users, optionally scoped to a provider.
func (c *Client) Users(ctx context.Context, provider string, maxRecords int) ([]User, error) {
	q := url.Values{}
	if provider != "" {
		q.Set("providerid", provider)
	}

	if maxRecords > 0 {
		q.Set("maxrecords", strconv.Itoa(maxRecords))
	}

	var resp struct {
		Users []userWire `json:"users"`
	}

	if err := c.get(ctx, "/api/v1/users", q, &resp); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(resp.Users))

	for _, w := range resp.Users {
		if u, ok := w.canonical(); ok {
			users = append(users, u)
		}
	}

	return users, nil
}

// Documents lists print job records.
func (c *Client) Documents(ctx context.Context, maxRecords int) ([]Document, error) {
	q := url.Values{}
	if maxRecords > 0 {
		q.Set("maxrecords", strconv.Itoa(maxRecords))
	}

	var resp struct {
		Documents []Document `json:"documents"`
	}

	if err := c.get(ctx, "/api/v1/documents", q, &resp); err != nil {
		return nil, err
	}

	return resp.Documents, nil
}

// CreateUser creates a user account on the SafeQ server.
func (c *Client) CreateUser(ctx context.Context, user User) error {
	body, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	return c.do(ctx, http.MethodPost, "/api/v1/users", nil, bytes.NewReader(body), nil)
}

// DeleteUser removes a user account from the SafeQ server.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	p := "/api/v1/users/" + url.PathEscape(username)

	return c.do(ctx, http.MethodDelete, p, nil, nil, nil)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body io.Reader,
	out interface{},
) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("SafeQ request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("SafeQ returned status %d for %s %s", resp.StatusCode, method, path)
	}

	if out == nil {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode SafeQ response: %w", err)
	}

	return nil
}

func canonicalGroups(wires []groupWire) []Group {
	groups := make([]Group, 0, len(wires))

	for _, w := range wires {
		if g, ok := w.canonical(); ok {
			groups = append(groups, g)
		}
	}

	return groups
}
