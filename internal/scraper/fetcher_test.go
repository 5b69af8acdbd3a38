package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmtrs/BM-telegram-price-tracker/internal/scraper"
)

func newFetcher(ts *httptest.Server, maxRetries int) *scraper.Fetcher {
	transport := &scraper.DirectTransport{Client: ts.Client()}
	return scraper.NewFetcher(transport, maxRetries, time.Millisecond, time.Second)
}

func TestFetchSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" || ua == "Go-http-client/1.1" {
			t.Errorf("expected a browser user agent, got %q", ua)
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer ts.Close()

	content, outcome := newFetcher(ts, 2).Fetch(context.Background(), ts.URL)
	if outcome != scraper.OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", outcome)
	}
	if content != "<html>ok</html>" {
		t.Fatalf("content = %q", content)
	}
}

func TestFetchRetriesUpToBound(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	content, outcome := newFetcher(ts, 2).Fetch(context.Background(), ts.URL)
	if outcome != scraper.OutcomeHTTPError {
		t.Fatalf("outcome = %v, want http_error", outcome)
	}
	if content != "" {
		t.Fatalf("content = %q, want empty", content)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("attempts = %d, want exactly maxRetries+1 = 3", got)
	}
}

func TestFetchClientErrorShortCircuits(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
		var attempts atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(status)
		}))

		_, outcome := newFetcher(ts, 2).Fetch(context.Background(), ts.URL)
		ts.Close()

		if outcome != scraper.OutcomeHTTPError {
			t.Fatalf("status %d: outcome = %v, want http_error", status, outcome)
		}
		if got := attempts.Load(); got != 1 {
			t.Fatalf("status %d: attempts = %d, want 1 (no retry)", status, got)
		}
	}
}

func TestFetchRecoversAfterTransientError(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer ts.Close()

	content, outcome := newFetcher(ts, 2).Fetch(context.Background(), ts.URL)
	if outcome != scraper.OutcomeSuccess || content != "recovered" {
		t.Fatalf("got (%q, %v), want recovery on second attempt", content, outcome)
	}
	if got := attempts.Load(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	transport := &scraper.DirectTransport{Client: ts.Client()}
	f := scraper.NewFetcher(transport, 1, time.Millisecond, 30*time.Millisecond)

	_, outcome := f.Fetch(context.Background(), ts.URL)
	if outcome != scraper.OutcomeTimeout {
		t.Fatalf("outcome = %v, want timeout", outcome)
	}
}

func TestFetchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening any more

	_, outcome := newFetcher(ts, 1).Fetch(context.Background(), ts.URL)
	if outcome != scraper.OutcomeTransportError {
		t.Fatalf("outcome = %v, want transport_error", outcome)
	}
}

func TestProxyTransportParams(t *testing.T) {
	var got struct{ apiKey, target, maxCost string }
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got.apiKey = q.Get("api_key")
		got.target = q.Get("url")
		got.maxCost = q.Get("max_cost")
		w.Write([]byte("proxied"))
	}))
	defer proxy.Close()

	transport := &scraper.ProxyTransport{
		Client:   proxy.Client(),
		APIKey:   "secret",
		MaxCost:  "1",
		Endpoint: proxy.URL,
	}
	f := scraper.NewFetcher(transport, 0, time.Millisecond, time.Second)

	content, outcome := f.Fetch(context.Background(), "https://shop.example/item?l=9")
	if outcome != scraper.OutcomeSuccess || content != "proxied" {
		t.Fatalf("got (%q, %v)", content, outcome)
	}
	if got.apiKey != "secret" || got.maxCost != "1" || got.target != "https://shop.example/item?l=9" {
		t.Fatalf("proxy params = %+v", got)
	}
}

func TestNewTransportFallsBackToDirect(t *testing.T) {
	if _, ok := scraper.NewTransport(&http.Client{}, "", "1").(*scraper.DirectTransport); !ok {
		t.Fatal("empty API key should select the direct transport")
	}
	if _, ok := scraper.NewTransport(&http.Client{}, "key", "1").(*scraper.ProxyTransport); !ok {
		t.Fatal("API key should select the proxy transport")
	}
}
