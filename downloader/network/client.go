package network

import (
	"caextractor/downloader/core"
	"caextractor/logging"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout applies when no timeout is configured
const DefaultTimeout = 30 * time.Second

// DefaultDownloadURL is the EU trusted list browser download endpoint
const DefaultDownloadURL = "https://eidas.ec.europa.eu/efda/tl-browser/api/v1/browser/download/{country}"

// CountryPlaceholder is replaced by the country code in download URL templates
const CountryPlaceholder = "{country}"

// Client handles network operations
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new Client instance.
// A zero timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithUserAgent creates a Client that sends a custom User-Agent header
func NewClientWithUserAgent(timeout time.Duration, userAgent string) *Client {
	c := NewClient(timeout)
	c.userAgent = userAgent
	return c
}

// BuildURL substitutes the country code verbatim into the template
func BuildURL(template, country string) (string, error) {
	if country == "" {
		return "", core.UsageError("country code must not be empty")
	}
	if template == "" {
		template = DefaultDownloadURL
	}
	if !strings.Contains(template, CountryPlaceholder) {
		return "", core.UsageError("download URL %q has no %s placeholder", template, CountryPlaceholder)
	}
	return strings.ReplaceAll(template, CountryPlaceholder, country), nil
}

// Fetch issues a single GET and returns the response body.
// The caller must close the returned reader.
func (c *Client) Fetch(url string) (io.ReadCloser, error) {
	logging.LogDebug("📡 Initiating network request to %s", url)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, core.TransportError("failed to create request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.TransportError("network request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, core.TransportError("server returned non-OK status: %s", resp.Status)
	}

	logging.LogDebug("✅ Response received: %s (Content-Length: %d)", resp.Status, resp.ContentLength)
	return resp.Body, nil
}
