package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"
)

// TransportError describes an expected transport-level failure for one URL:
// DNS failure, connection refusal, timeout, or a non-2xx response. These are
// ordinary per-page outcomes, recovered by dropping the URL from the run.
type TransportError struct {
	// URL is the URL whose fetch failed.
	URL string

	// Reason is a short human-readable failure description.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Fetcher performs blocking HTTP GET requests for single pages.
//
// Design decision: We require an external *http.Client because the caller
// owns transport policy (timeout, redirects, TLS) and tests can inject an
// httptest client. The Fetcher adds only crawl-specific concerns: headers,
// the body size cap, and charset decoding.
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits how many response bytes are read per page.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// defaultMaxBodySize caps response bodies at 5MB unless configured.
const defaultMaxBodySize = 5 * 1024 * 1024

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "pagesift/1.0 (+https://github.com/pagesift/pagesift)",
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves one page and returns its body decoded to UTF-8.
// Network failures and non-2xx responses return a *TransportError; the
// fetcher never retries and never panics on expected transport conditions.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &TransportError{URL: pageURL, Reason: "invalid request", Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: pageURL, Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{
			URL:    pageURL,
			Reason: fmt.Sprintf("unexpected status %s", resp.Status),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", &TransportError{URL: pageURL, Reason: "reading body failed", Err: err}
	}

	// An empty body is a successful fetch of an empty document. It must
	// skip charset detection, which needs at least one byte of input.
	if len(raw) == 0 {
		return "", nil
	}

	// Decode to UTF-8 based on the declared charset before parsing;
	// the reader falls back to UTF-8 when no charset is declared.
	decoded, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &TransportError{URL: pageURL, Reason: "charset detection failed", Err: err}
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", &TransportError{URL: pageURL, Reason: "decoding body failed", Err: err}
	}

	return string(body), nil
}
