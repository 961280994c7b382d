package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxResponseBytes caps how much of a relay response is read.
const maxResponseBytes = 64 << 10

// Client posts submissions to a relay endpoint.
type Client struct {
	// Endpoint is the absolute URL of the relay.
	Endpoint string
	// HTTPClient performs the request. Defaults to http.DefaultClient. No
	// timeout is applied beyond the client's own.
	HTTPClient *http.Client
}

// NewClient creates a Client for the given relay URL.
func NewClient(endpoint string) *Client {
	return &Client{Endpoint: endpoint}
}

// Send validates s and, if valid, performs a single POST with the JSON body
// {"email", "message"}. A non-2xx response yields a *StatusError. There is
// no retry.
func (c *Client) Send(ctx context.Context, s Submission) (*Response, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("contact: encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("contact: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contact: send: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("contact: read response: %w", err)
	}
	var out Response
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: out.Error}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("contact: decode response: %w", decodeErr)
	}
	return &out, nil
}
