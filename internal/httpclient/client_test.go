package httpclient

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHeaderInjection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("expected header injected")
		}
		if r.Header.Get("Cookie") != "token=abc" {
			t.Errorf("expected cookie injected")
		}
		if r.Header.Get("User-Agent") != "seoaudit-test" {
			t.Errorf("expected user agent, got %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("Accept-Encoding") != acceptEncoding {
			t.Errorf("expected Accept-Encoding %q, got %q", acceptEncoding, r.Header.Get("Accept-Encoding"))
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	cfg := Config{
		Timeout:   1 * time.Second,
		Headers:   http.Header{"X-Test": []string{"1"}},
		Cookie:    "token=abc",
		UserAgent: "seoaudit-test",
	}
	client := New(cfg)
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
}

func TestRetry(t *testing.T) {
	t.Run("5xx", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(500)
				return
			}
			w.WriteHeader(200)
		}))
		defer srv.Close()

		client := New(Config{Timeout: 1 * time.Second, Retries: 2})
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("expected final 200, got %d", resp.StatusCode)
		}
		if attempts != 3 {
			t.Fatalf("expected 3 attempts, got %d", attempts)
		}
		resp.Body.Close()
	})

	t.Run("network error", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts == 1 {
				hj, _ := w.(http.Hijacker)
				conn, _, _ := hj.Hijack()
				conn.Close()
				return
			}
			w.WriteHeader(200)
		}))
		defer srv.Close()

		client := New(Config{Timeout: 1 * time.Second, Retries: 1})
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 2 {
			t.Fatalf("expected 2 attempts, got %d", attempts)
		}
		resp.Body.Close()
	})
}

func TestRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	manual := NewFetcher(Config{Timeout: time.Second})
	res, err := manual.Fetch(context.Background(), srv.URL+"/start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 without redirect following, got %d", res.StatusCode)
	}

	follow := NewFetcher(Config{Timeout: time.Second, FollowRedirects: true})
	res, err = follow.Fetch(context.Background(), srv.URL+"/start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected final 200, got %d", res.StatusCode)
	}
	if res.URL.Path != "/final" {
		t.Fatalf("expected final URL /final, got %s", res.URL)
	}
}

func TestFetchKeepsContentEncoding(t *testing.T) {
	page := strings.Repeat("<p>hello world</p>", 50)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte(page))
		_ = zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	res, err := NewFetcher(Config{Timeout: time.Second}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Header.Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected Content-Encoding gzip to survive, got %q", got)
	}
	if string(res.Body) != page {
		t.Fatalf("expected decoded body")
	}
	if res.Size != int64(len(page)) {
		t.Fatalf("expected size %d, got %d", len(page), res.Size)
	}
	if res.Elapsed <= 0 {
		t.Fatalf("expected positive elapsed time")
	}
}

func TestFetchEmptyEncodedBody(t *testing.T) {
	for _, tc := range []struct {
		encoding string
		status   int
	}{
		{"gzip", http.StatusNoContent},
		{"br", http.StatusOK},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", tc.encoding)
			w.WriteHeader(tc.status)
		}))

		res, err := NewFetcher(Config{Timeout: time.Second}).Fetch(context.Background(), srv.URL)
		srv.Close()
		if err != nil {
			t.Fatalf("%s: empty body must not fail the fetch: %v", tc.encoding, err)
		}
		if res.StatusCode != tc.status || len(res.Body) != 0 || res.Size != 0 {
			t.Fatalf("%s: unexpected response status=%d body=%d size=%d", tc.encoding, res.StatusCode, len(res.Body), res.Size)
		}
		if got := res.Header.Get("Content-Encoding"); got != tc.encoding {
			t.Fatalf("%s: expected Content-Encoding to survive, got %q", tc.encoding, got)
		}
	}
}

func TestFetchCountsBytesPastLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a"), 4096))
	}))
	defer srv.Close()

	f := NewFetcher(Config{Timeout: time.Second, MaxBodyBytes: 1024})
	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Body) != 1024 {
		t.Fatalf("expected body capped at 1024, got %d", len(res.Body))
	}
	if res.Size != 4096 {
		t.Fatalf("expected size 4096, got %d", res.Size)
	}
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	code, err := NewFetcher(Config{Timeout: time.Second}).Status(context.Background(), srv.URL+"/robots.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}

	srv.Close()
	if _, err := NewFetcher(Config{Timeout: time.Second}).Status(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error against closed server")
	}
}
