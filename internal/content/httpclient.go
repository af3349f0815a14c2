package content

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

// HTTPClient stores paper bodies in a remote content service.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

type HTTPClientOption func(*HTTPClient)

func WithHTTPClient(hc *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

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

type storeRequest struct {
	BucketHash    string `json:"bucketHash"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	AuthorAddress string `json:"authorAddress"`
	Timestamp     int64  `json:"timestamp"`
}

type addVersionRequest struct {
	BucketHash string `json:"bucketHash"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}

func (c *HTTPClient) Put(ctx context.Context, bucketID domain.BucketID, title, content, author string, timestamp time.Time) error {
	return c.post(ctx, "/api/store_paper", storeRequest{
		BucketHash:    bucketID.String(),
		Title:         title,
		Content:       content,
		AuthorAddress: author,
		Timestamp:     timestamp.Unix(),
	})
}

func (c *HTTPClient) AppendVersion(ctx context.Context, bucketID domain.BucketID, content string, timestamp time.Time) error {
	return c.post(ctx, "/api/add_version", addVersionRequest{
		BucketHash: bucketID.String(),
		Content:    content,
		Timestamp:  timestamp.Unix(),
	})
}

func (c *HTTPClient) Get(ctx context.Context, bucketID domain.BucketID) (*Bundle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/get_paper_content?bucketHash="+bucketID.String(), nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build content request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "content service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, dErrors.New(dErrors.CodeNotFound, "content not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("content service answered %d", resp.StatusCode))
	}

	var bundle Bundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "content service answered malformed body")
	}
	return &bundle, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode content request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build content request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "content service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("content service answered %d", resp.StatusCode))
	}
	return nil
}
