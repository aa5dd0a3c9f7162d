// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parallel is the HTTP client core for the Parallel.ai search and
// task endpoints. All network I/O for both commands funnels through Client;
// request building and response normalization live in internal/search and
// internal/task.
package parallel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/parallel-research/internal/httputil"
)

// DefaultBaseURL is the production API host. The CLI can override it via
// config for testing against a staging deployment.
const DefaultBaseURL = "https://api.parallel.ai"

// BetaHeader is the opt-in header name for beta task features.
const BetaHeader = "parallel-beta"

// BetaMCPServers is the beta flag required for requests that attach MCP
// tool servers or an auth session.
const BetaMCPServers = "mcp-server-2025-07-17"

// Client talks to the Parallel.ai API. The zero value is not usable; fill in
// at least APIKey and HTTPClient.
type Client struct {
	// BaseURL is the API host without a trailing slash. Empty means
	// DefaultBaseURL.
	BaseURL string

	// APIKey is sent as the x-api-key header on every request.
	APIKey string

	// UserAgent is sent as the User-Agent header.
	UserAgent string

	// HTTPClient performs the requests.
	HTTPClient *http.Client
}

// PostJSON sends payload as a JSON body to path and decodes the success
// response into out. Extra headers (e.g. the beta opt-in) are applied on top
// of the standard set.
func (c *Client) PostJSON(ctx context.Context, path string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.do(req, out)
}

// GetJSON sends a GET to path and decodes the success response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) url(path string) string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + path
}

// do executes the request and maps outcomes onto the error kinds: connection
// failures become TransportError, non-2xx statuses become RemoteError, and
// undecodable success bodies become MalformedResponse.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("x-api-key", c.APIKey)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(req.Context(), c.HTTPClient, req, 0)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Malformedf("decoding response body: %v", err)
	}
	return nil
}

// remoteError decodes the service's error envelope. Bodies that are not the
// documented {"error": {"code", "message"}} shape still produce a RemoteError
// carrying the raw body text.
func remoteError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &RemoteError{
			Status:  resp.StatusCode,
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &RemoteError{Status: resp.StatusCode, Message: msg}
}
