// Package bandwidth is a thin facade over the Bandwidth v1 REST API:
// application and number provisioning, message send/list, and media storage.
package bandwidth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/soyeahso/textline/internal/domain"
	"github.com/soyeahso/textline/internal/logging"
)

const requestTimeout = 30 * time.Second

var (
	// ErrUnavailable marks network failures and provider 5xx responses.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrRejected marks provider 4xx responses (bad number, bad request).
	ErrRejected = errors.New("provider rejected request")
)

// APIError is a non-2xx provider response. It unwraps to ErrUnavailable or
// ErrRejected depending on the status class.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bandwidth: status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status >= 500 {
		return ErrUnavailable
	}
	return ErrRejected
}

// Client calls the Bandwidth API on behalf of one set of credentials.
// Clients are cheap; one is built per request from the session's
// credentials via a Factory.
type Client struct {
	creds   domain.Credentials
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

// Factory builds a Client for the given per-tenant credentials, filling
// any unset field from the process-wide defaults.
type Factory func(creds domain.Credentials) *Client

// NewFactory returns a Factory over the given defaults. The underlying
// HTTP client is shared across all built clients.
func NewFactory(defaults domain.Credentials, baseURL string, log *logging.Logger) Factory {
	httpClient := &http.Client{Timeout: requestTimeout}
	sub := log.Sub("bandwidth")
	baseURL = strings.TrimSuffix(baseURL, "/")

	return func(creds domain.Credentials) *Client {
		merged := creds
		if merged.UserID == "" {
			merged.UserID = defaults.UserID
		}
		if merged.APIToken == "" {
			merged.APIToken = defaults.APIToken
		}
		if merged.APISecret == "" {
			merged.APISecret = defaults.APISecret
		}
		return &Client{creds: merged, baseURL: baseURL, http: httpClient, log: sub}
	}
}

// UserID returns the effective provider account id for this client.
func (c *Client) UserID() string { return c.creds.UserID }

// userURL builds an absolute URL under /users/<userId>.
func (c *Client) userURL(path string) string {
	return c.baseURL + "/users/" + c.creds.UserID + path
}

// doJSON performs a request with an optional JSON body and decodes a JSON
// response into out (when non-nil). It returns the response for callers
// that need headers (e.g. Location).
func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decoding provider response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp, nil
}

// do sends an authenticated request and classifies failures. The caller
// owns the response body on success.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(c.creds.APIToken, c.creds.APISecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
		c.log.Warn().Int("status", resp.StatusCode).Str("url", req.URL.Path).Msg("provider error")
		return nil, apiErr
	}
	return resp, nil
}

// idFromLocation extracts the trailing resource id from a Location header.
func idFromLocation(resp *http.Response) (string, error) {
	loc := resp.Header.Get("Location")
	if loc == "" {
		return "", fmt.Errorf("%w: missing Location header", ErrUnavailable)
	}
	parts := strings.Split(loc, "/")
	return parts[len(parts)-1], nil
}
