package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

const defaultTimeout = 15 * time.Second

// HTTPClient scores submissions against a remote similarity service.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) HTTPClientOption {
	return func(c *HTTPClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func NewHTTPClient(baseURL string, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type scoreRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Score submits the paper for similarity analysis. Every transport or
// protocol failure maps to CodeUnavailable so the caller can apply its
// outage policy; this client never fabricates an "original" verdict.
func (c *HTTPClient) Score(ctx context.Context, title, content string, author domain.AuthorAddress) (*Result, error) {
	payload, err := json.Marshal(scoreRequest{
		Title:   title,
		Content: content,
		Author:  author.String(),
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode scoring request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/check_plagiarism", bytes.NewReader(payload))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build scoring request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scoring service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("scoring service answered %d", resp.StatusCode))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scoring service answered malformed body")
	}
	return &result, nil
}
