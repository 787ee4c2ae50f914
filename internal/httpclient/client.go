package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds the primary fetch and every auxiliary probe.
const DefaultTimeout = 30 * time.Second

// DefaultMaxRedirects is the redirect budget when FollowRedirects is set.
const DefaultMaxRedirects = 10

// Config holds settings for the HTTP client.
type Config struct {
	Timeout         time.Duration
	Proxy           func(*http.Request) (*url.URL, error)
	Headers         http.Header
	Cookie          string
	UserAgent       string
	Insecure        bool
	Retries         int
	FollowRedirects bool
	MaxRedirects    int
	MaxBodyBytes    int64
}

// headerRoundTripper wraps a base RoundTripper to inject headers/cookies and
// perform simple retry logic.
type headerRoundTripper struct {
	base      http.RoundTripper
	headers   http.Header
	cookie    string
	userAgent string
	retries   int
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if h.base == nil {
		h.base = http.DefaultTransport
	}

	var resp *http.Response
	var err error

	for attempt := 0; ; attempt++ {
		// Clone the request to avoid mutations across retries
		r := req.Clone(req.Context())
		if req.Body != nil {
			if req.GetBody != nil {
				if body, berr := req.GetBody(); berr == nil {
					r.Body = body
				}
			} else {
				r.Body = req.Body
			}
		}

		for k, vs := range h.headers {
			r.Header.Del(k)
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
		if h.cookie != "" {
			r.Header.Set("Cookie", h.cookie)
		}
		if h.userAgent != "" && r.Header.Get("User-Agent") == "" {
			r.Header.Set("User-Agent", h.userAgent)
		}
		// Compression is negotiated by hand so the Content-Encoding header
		// survives for inspection; see decodeBody.
		if r.Header.Get("Accept-Encoding") == "" {
			r.Header.Set("Accept-Encoding", acceptEncoding)
		}

		resp, err = h.base.RoundTrip(r)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if attempt >= h.retries {
			if err != nil {
				return nil, err
			}
			return resp, nil
		}

		if resp != nil {
			_ = resp.Body.Close()
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(time.Duration(100*(1<<attempt)) * time.Millisecond):
		}
	}
}

// New returns a configured HTTP client. Redirects are followed only when
// cfg.FollowRedirects is set.
func New(cfg Config) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy:           cfg.Proxy,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure}, // #nosec G402
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:  true,
		DisableCompression: true,
	}

	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}

	client := &http.Client{
		Transport: &headerRoundTripper{
			base:      transport,
			headers:   cfg.Headers,
			cookie:    cfg.Cookie,
			userAgent: cfg.UserAgent,
			retries:   cfg.Retries,
		},
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !cfg.FollowRedirects {
				return http.ErrUseLastResponse
			}
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return client
}
