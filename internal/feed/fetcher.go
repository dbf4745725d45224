package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Sentinel errors for a failed import. Both abort the whole import; handlers map them to 400.
var (
	ErrDownload   = errors.New("cannot download")
	ErrInvalidXML = errors.New("invalid XML")
)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultMaxBytes     = 10 << 20
)

// Fetcher downloads feed documents with a bounded timeout and size. It makes exactly one attempt per call.
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher returns a Fetcher. Non-positive timeout or maxBytes select the defaults (15s, 10 MiB).
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		MaxBytes: maxBytes,
	}
}

// Fetch GETs rawURL and returns the body. Every failure, including a non-2xx status, wraps ErrDownload.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: unsupported URL %q", ErrDownload, rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml;q=0.9, */*;q=0.1")
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if int64(len(body)) > f.MaxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrDownload, f.MaxBytes)
	}
	return body, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.HTTPClient.CloseIdleConnections()
}
