// Package httputil provides the shared HTTP client and input sanitization
// utilities. The client skips TLS certificate verification because the
// upstream sites and third-party resolver endpoints routinely present
// invalid certificates.
package httputil

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxBodySize caps response reads; playlist and page bodies are small.
const maxBodySize = 10 * 1024 * 1024

// Response is a fully-read HTTP response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        string
}

// Client wraps http.Client with browser-like defaults and per-request
// header overrides. Anti-leech headers (Referer, Origin) are passed per
// call rather than mutated on a shared session, so no save/restore
// discipline is needed.
type Client struct {
	http *http.Client
}

// NewClient creates a client with the site's default headers and a fixed
// timeout. TLS verification is intentionally disabled.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
}

// Get fetches a URL and returns the read response. extra headers override
// the defaults for this request only.
func (c *Client) Get(rawURL string, extra map[string]string) (*Response, error) {
	return c.do(http.MethodGet, rawURL, extra)
}

// Head issues a HEAD request, following redirects. Used to probe candidate
// media URLs without downloading them.
func (c *Client) Head(rawURL string, extra map[string]string) (*Response, error) {
	return c.do(http.MethodHead, rawURL, extra)
}

func (c *Client) do(method, rawURL string, extra map[string]string) (*Response, error) {
	req, err := http.NewRequest(method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	var body []byte
	if method != http.MethodHead {
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
	}, nil
}
