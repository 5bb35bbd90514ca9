package navtree

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fieldex/fieldex/internal/fetch"
	"github.com/hashicorp/go-retryablehttp"
)

// Fetcher retrieves host pages for menu extraction. Unlike the record
// path, page fetches retry on transient failures.
type Fetcher struct {
	client    *retryablehttp.Client
	userAgent string
}

// NewFetcher creates a page fetcher.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.RetryWaitMin = 1 * time.Second
	c.RetryWaitMax = 10 * time.Second
	c.Logger = nil
	c.HTTPClient.Timeout = timeout

	return &Fetcher{client: c, userAgent: userAgent}
}

// FetchPage retrieves a page's HTML, charset-normalized.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxHTMLSize+1))
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}
	return fetch.Normalize(body), nil
}
