package httpclient

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

const acceptEncoding = "gzip, br"

// DefaultMaxBodyBytes caps how much of a body is kept in memory. Bytes past
// the cap are still counted in Response.Size.
const DefaultMaxBodyBytes = 32 << 20

// Response is a fully read HTTP response.
type Response struct {
	URL        *url.URL
	StatusCode int
	Header     http.Header
	Body       []byte
	// Size is the decoded body length, which may exceed len(Body).
	Size    int64
	Elapsed time.Duration
}

// Fetcher issues GET requests and reads whole responses.
type Fetcher struct {
	Client       *http.Client
	MaxBodyBytes int64
}

// NewFetcher builds a Fetcher on top of New(cfg).
func NewFetcher(cfg Config) *Fetcher {
	limit := cfg.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	return &Fetcher{Client: New(cfg), MaxBodyBytes: limit}
}

// Fetch performs a GET against target. Non-2xx statuses are not errors; only
// transport-level failures are.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, size, err := readBody(resp, f.limit())
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Size:       size,
		Elapsed:    time.Since(start),
	}, nil
}

// Status performs a GET against target and returns only the status code.
// The body is drained so the connection can be reused.
func (f *Fetcher) Status(ctx context.Context, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.limit()))
	return resp.StatusCode, nil
}

func (f *Fetcher) limit() int64 {
	if f.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return f.MaxBodyBytes
}

// readBody decodes and reads at most limit bytes. An empty body is empty
// content whatever Content-Encoding claims.
func readBody(resp *http.Response, limit int64) ([]byte, int64, error) {
	br := bufio.NewReader(resp.Body)
	if _, err := br.Peek(1); err == io.EOF {
		return []byte{}, 0, nil
	}
	r, err := decodeBody(resp.Header.Get("Content-Encoding"), br)
	if err != nil {
		return nil, 0, err
	}
	body, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, 0, err
	}
	rest, err := io.Copy(io.Discard, r)
	if err != nil {
		return nil, 0, err
	}
	return body, int64(len(body)) + rest, nil
}

// decodeBody undoes the content codings requested in acceptEncoding.
// Unknown codings are passed through untouched.
func decodeBody(encoding string, body io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case "br":
		return brotli.NewReader(body), nil
	default:
		return body, nil
	}
}
