package scraper

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Outcome is the terminal result of a fetch. Fetch never returns an error;
// callers branch on the outcome instead.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeTimeout
	OutcomeHTTPError
	OutcomeTransportError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeTimeout:
		return "TIMEOUT"
	case OutcomeHTTPError:
		return "HTTP_ERROR"
	default:
		return "TRANSPORT_ERROR"
	}
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Transport issues one page-request attempt. Separating it from the retry
// loop lets tests swap in a stub and lets the proxy be a drop-in choice.
type Transport interface {
	Get(ctx context.Context, fullURL string) (*http.Response, error)
	Name() string
}

// DirectTransport fetches the page straight from the site with a browser
// User-Agent.
type DirectTransport struct {
	Client *http.Client
}

func (t *DirectTransport) Get(ctx context.Context, fullURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return t.Client.Do(req)
}

func (t *DirectTransport) Name() string { return "direct" }

// ProxyTransport routes the fetch through the ScraperAPI rendering proxy.
type ProxyTransport struct {
	Client  *http.Client
	APIKey  string
	MaxCost string
	// Endpoint overrides the proxy URL; empty means the public API.
	Endpoint string
}

const scraperAPIEndpoint = "https://api.scraperapi.com/"

func (t *ProxyTransport) Get(ctx context.Context, fullURL string) (*http.Response, error) {
	endpoint := t.Endpoint
	if endpoint == "" {
		endpoint = scraperAPIEndpoint
	}
	params := url.Values{}
	params.Set("api_key", t.APIKey)
	params.Set("url", fullURL)
	params.Set("max_cost", t.MaxCost)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return t.Client.Do(req)
}

func (t *ProxyTransport) Name() string { return "proxy" }

// NewTransport picks the proxy when an API key is configured and falls back
// to direct fetching otherwise.
func NewTransport(client *http.Client, apiKey, maxCost string) Transport {
	if apiKey != "" {
		return &ProxyTransport{Client: client, APIKey: apiKey, MaxCost: maxCost}
	}
	return &DirectTransport{Client: client}
}

// Fetcher wraps a Transport with bounded retries, a fixed inter-attempt
// delay and a per-attempt timeout.
type Fetcher struct {
	transport  Transport
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

func NewFetcher(transport Transport, maxRetries int, retryDelay, timeout time.Duration) *Fetcher {
	return &Fetcher{
		transport:  transport,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		timeout:    timeout,
	}
}

// nonRetryable client statuses: retrying will not change the answer.
func nonRetryable(status int) bool {
	return status == http.StatusUnauthorized ||
		status == http.StatusForbidden ||
		status == http.StatusNotFound
}

// Fetch retrieves fullURL, attempting up to maxRetries+1 times. It returns
// the page body on success; on failure the content is empty and the outcome
// describes the last attempt. A 401/403/404 stops the loop immediately.
func (f *Fetcher) Fetch(ctx context.Context, fullURL string) (string, Outcome) {
	outcome := OutcomeTransportError
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		log.Printf("[%s attempt %d] fetching %s", f.transport.Name(), attempt+1, fullURL)

		content, o, status := f.attempt(ctx, fullURL)
		if o == OutcomeSuccess {
			return content, OutcomeSuccess
		}
		outcome = o

		if o == OutcomeHTTPError && nonRetryable(status) {
			log.Printf("Client error %d for %s, not retrying", status, fullURL)
			return "", outcome
		}
		if ctx.Err() != nil {
			return "", outcome
		}
		if attempt < f.maxRetries {
			log.Printf("Retrying %s in %s", fullURL, f.retryDelay)
			select {
			case <-time.After(f.retryDelay):
			case <-ctx.Done():
				return "", outcome
			}
		}
	}
	log.Printf("All %d attempts failed for %s (%s)", f.maxRetries+1, fullURL, outcome)
	return "", outcome
}

func (f *Fetcher) attempt(ctx context.Context, fullURL string) (string, Outcome, int) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.transport.Get(attemptCtx, fullURL)
	if err != nil {
		if isTimeout(err) {
			log.Printf("Timeout fetching %s (after %s)", fullURL, f.timeout)
			return "", OutcomeTimeout, 0
		}
		log.Printf("Transport error fetching %s: %v", fullURL, err)
		return "", OutcomeTransportError, 0
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("HTTP %d fetching %s", resp.StatusCode, fullURL)
		return "", OutcomeHTTPError, resp.StatusCode
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", OutcomeTimeout, resp.StatusCode
		}
		log.Printf("Error reading body from %s: %v", fullURL, err)
		return "", OutcomeTransportError, resp.StatusCode
	}
	return string(body), OutcomeSuccess, resp.StatusCode
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
