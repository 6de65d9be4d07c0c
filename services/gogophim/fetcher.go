package gogophim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	// defaultAttemptTimeout bounds each individual route attempt, direct or
	// proxied. A full fetch can take up to (1 + len(proxies)) attempts.
	defaultAttemptTimeout = 8 * time.Second

	// maxBodyBytes caps how much of a response body is read. Catalog
	// responses are a few hundred KB at most; anything bigger is garbage.
	maxBodyBytes = 8 << 20
)

// Fetcher reaches the upstream API even when the direct route is blocked,
// by walking a fixed chain of CORS relays. Every call restarts from the
// top of the chain; which relay worked last time is deliberately not
// remembered, trading a little latency for no cross-call state.
type Fetcher struct {
	httpc   *http.Client
	proxies []ProxyRewrite
	timeout time.Duration
}

// NewFetcher creates a fetcher with the default relay chain. timeout <= 0
// selects the default per-attempt timeout.
func NewFetcher(httpc *http.Client, timeout time.Duration) *Fetcher {
	if httpc == nil {
		httpc = &http.Client{}
	}
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}
	return &Fetcher{httpc: httpc, proxies: defaultProxies, timeout: timeout}
}

// Fetch GETs targetURL and returns the decoded JSON payload. The direct
// route is tried first, then each relay in order; the first body that
// passes shape validation wins and the rest of the chain is skipped.
// Timeouts, transport errors, non-2xx statuses, parse failures and shape
// rejections all mean "advance to the next route". Only exhausting every
// route is an error, reported as ErrUnreachable wrapping the last failure.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (any, error) {
	payload, err := f.attempt(ctx, targetURL)
	if err == nil {
		return payload, nil
	}
	lastErr := err

	for i, rewrite := range f.proxies {
		payload, err = f.attempt(ctx, rewrite(targetURL))
		if err == nil {
			log.Printf("[gogophim] relay %d served %s", i+1, targetURL)
			return payload, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrUnreachable, lastErr)
}

// attempt issues one GET against a single route and validates the result.
func (f *Fetcher) attempt(ctx context.Context, rawURL string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, rawURL)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrNetwork, rawURL, resp.Status)
	}

	// Relays sometimes wrap the JSON in surrounding text, so read the body
	// whole and trim it rather than streaming the decoder.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var payload any
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: body is not json", ErrInvalidShape)
	}
	if !isValidPayload(payload) {
		return nil, fmt.Errorf("%w: no recognized envelope key", ErrInvalidShape)
	}
	return payload, nil
}
