package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// Client wraps resty for record XML retrieval. Retries are disabled:
// a fetch failure is surfaced once, verbatim, and the caller decides
// what to do with it.
type Client struct {
	resty *resty.Client
}

// New creates a record fetch client.
func New(timeout time.Duration, userAgent string) *Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/xml, application/xml, */*")
	return &Client{resty: rc}
}

// SetCookie forwards a session cookie header to every request. The host
// authenticates by session; the service never logs in on its own.
func (c *Client) SetCookie(cookie string) {
	if cookie != "" {
		c.resty.SetHeader("Cookie", cookie)
	}
}

// FetchXML retrieves the XML view behind a record page URL. The returned
// string is charset-normalized UTF-8.
func (c *Client) FetchXML(ctx context.Context, pageURL string) (string, error) {
	resp, err := c.resty.R().SetContext(ctx).Get(XMLURL(pageURL))
	if err != nil {
		return "", fmt.Errorf("failed to fetch record: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("failed to fetch record: HTTP %d", resp.StatusCode())
	}

	body := resp.Body()
	if mt := mimetype.Detect(body); mt.Is("text/html") {
		return "", fmt.Errorf("host returned an HTML page instead of record XML")
	}
	return Normalize(body), nil
}

// Normalize converts a payload to UTF-8 using detected charset, falling
// back to the raw bytes when detection or conversion fails.
func Normalize(data []byte) string {
	detected := detectCharset(data)
	if detected == "utf-8" {
		return string(data)
	}
	reader, err := charset.NewReader(bytes.NewReader(data), detected)
	if err != nil {
		return string(data)
	}
	converted, err := io.ReadAll(reader)
	if err != nil {
		return string(data)
	}
	return string(converted)
}

func detectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}
