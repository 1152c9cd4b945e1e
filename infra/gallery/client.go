package gallery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/CrestNiraj12/terminalgallery/infra/logging"
)

const (
	userAgent    = "terminalgallery/1 (+https://github.com/CrestNiraj12/terminalgallery)"
	maxBodyBytes = 8 << 20
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API %s %s returned %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client is a thin HTTP wrapper for the gallery functions API.
// It handles base URL construction and throttles reads.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a gallery API client. Reads are spaced at least interval
// apart; an interval of zero disables throttling.
func NewClient(baseURL string, timeout, interval time.Duration) *Client {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Get performs a throttled GET request.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

// Post performs a POST request with the given body and extra headers.
func (c *Client) Post(ctx context.Context, path string, body io.Reader, header http.Header) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body, header)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, header http.Header) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	logging.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: snippet}
	}
	return data, nil
}
