package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client sends JSON requests to one service through a middleware chain.
type Client struct {
	base    string
	handler Handler
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, handler Handler) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), handler: handler}
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.base }

// endpoint joins path segments onto the base URL and appends query.
func (c *Client) endpoint(query url.Values, segments ...string) string {
	u := c.base
	for _, s := range segments {
		u += "/" + url.PathEscape(s)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// createRequest builds a request with a JSON body when in is non-nil.
func createRequest(ctx context.Context, method, urlStr string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("url", urlStr).Msg("Failed to create HTTP request object")
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends the request and decodes a 2xx JSON body into out. Non-2xx statuses
// become *StatusError. out may be nil.
func (c *Client) do(ctx context.Context, method, urlStr string, in, out any) error {
	req, err := createRequest(ctx, method, urlStr, in)
	if err != nil {
		return err
	}
	resp, err := c.handler(req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := readErrorBody(resp)
		se := decodeError(resp, body, statusKind(resp.StatusCode))
		log.Debug().Str("method", method).Str("url", urlStr).Int("status", resp.StatusCode).Str("message", se.Message).Msg("HTTP request returned non-OK status")
		return se
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode response from %s: %w", urlStr, err)
	}
	return nil
}
