package apiclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crewdesk/crewdesk/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// DefaultTimeout bounds every upstream request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client performs JSON requests against the upstream REST API. It issues
// exactly one network call per invocation and never retries; retry policy,
// if any, belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an API client for the given base URL. A timeout of zero uses
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Do performs one request and decodes the JSON response into out when out is
// non-nil. Non-2xx responses are normalized into errcodes errors: the
// server-supplied message field is preferred, then the status text, then a
// generic "HTTP <code>" string.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WithStack(err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return errors.WithStack(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errcodes.NetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return errcodes.FromResponse(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errcodes.NetworkError(err)
	}

	return nil
}
