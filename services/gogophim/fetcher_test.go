package gogophim

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// countingServer returns an httptest server that serves body with the given
// status and counts how many requests it saw.
func countingServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func rewriteTo(srv *httptest.Server) ProxyRewrite {
	return func(string) string { return srv.URL }
}

func TestFetchDirectSuccess(t *testing.T) {
	direct, directHits := countingServer(t, http.StatusOK, `{"items":[{"name":"x","slug":"x"}]}`)
	proxy, proxyHits := countingServer(t, http.StatusOK, `{"items":[]}`)

	f := NewFetcher(nil, time.Second)
	f.proxies = []ProxyRewrite{rewriteTo(proxy)}

	payload, err := f.Fetch(context.Background(), direct.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload == nil {
		t.Fatal("expected a payload")
	}
	if *directHits != 1 {
		t.Errorf("expected 1 direct hit, got %d", *directHits)
	}
	if *proxyHits != 0 {
		t.Errorf("direct call succeeded, proxies should not be tried, got %d hits", *proxyHits)
	}
}

func TestFetchFallsBackOnGarbageBody(t *testing.T) {
	// A 200 with an HTML captcha page must not be treated as success.
	direct, _ := countingServer(t, http.StatusOK, `<html>verify you are human</html>`)
	proxy1, proxy1Hits := countingServer(t, http.StatusOK, `{"items":[]}`)
	proxy2, proxy2Hits := countingServer(t, http.StatusOK, `{"items":[]}`)

	f := NewFetcher(nil, time.Second)
	f.proxies = []ProxyRewrite{rewriteTo(proxy1), rewriteTo(proxy2)}

	if _, err := f.Fetch(context.Background(), direct.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *proxy1Hits != 1 {
		t.Errorf("expected first proxy to be tried once, got %d", *proxy1Hits)
	}
	if *proxy2Hits != 0 {
		t.Errorf("first proxy succeeded, chain must short-circuit, got %d hits on second", *proxy2Hits)
	}
}

func TestFetchRejectsEnvelopelessJSON(t *testing.T) {
	// Valid JSON without any recognized envelope key is proxy noise.
	direct, _ := countingServer(t, http.StatusOK, `{"error":"quota exceeded"}`)
	proxy, _ := countingServer(t, http.StatusOK, `{"movie":{"name":"x"}}`)

	f := NewFetcher(nil, time.Second)
	f.proxies = []ProxyRewrite{rewriteTo(proxy)}

	payload, err := f.Fetch(context.Background(), direct.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("expected object payload, got %T", payload)
	}
	if _, ok := obj["movie"]; !ok {
		t.Error("expected the proxy's movie payload, not the direct garbage")
	}
}

func TestFetchExhaustsEveryRouteExactlyOnce(t *testing.T) {
	direct, directHits := countingServer(t, http.StatusBadGateway, "bad gateway")
	proxy1, proxy1Hits := countingServer(t, http.StatusOK, "not json at all")
	proxy2, proxy2Hits := countingServer(t, http.StatusTooManyRequests, `{"error":"slow down"}`)
	proxy3, proxy3Hits := countingServer(t, http.StatusOK, `{}`)

	f := NewFetcher(nil, time.Second)
	f.proxies = []ProxyRewrite{rewriteTo(proxy1), rewriteTo(proxy2), rewriteTo(proxy3)}

	_, err := f.Fetch(context.Background(), direct.URL)
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}

	for i, hits := range []*int32{directHits, proxy1Hits, proxy2Hits, proxy3Hits} {
		if *hits != 1 {
			t.Errorf("route %d: expected exactly 1 attempt, got %d", i, *hits)
		}
	}
}

func TestFetchTimeoutAdvancesToProxy(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(slow.Close)
	proxy, proxyHits := countingServer(t, http.StatusOK, `{"status":"success","items":[]}`)

	f := NewFetcher(nil, 50*time.Millisecond)
	f.proxies = []ProxyRewrite{rewriteTo(proxy)}

	if _, err := f.Fetch(context.Background(), slow.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *proxyHits != 1 {
		t.Errorf("expected timeout to advance to the proxy, got %d hits", *proxyHits)
	}
}

func TestFetchUnreachableCarriesLastError(t *testing.T) {
	direct, _ := countingServer(t, http.StatusInternalServerError, "boom")

	f := NewFetcher(nil, time.Second)
	f.proxies = nil

	_, err := f.Fetch(context.Background(), direct.URL)
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if err.Error() == ErrUnreachable.Error() {
		t.Error("expected the last route error to be included for diagnostics")
	}
}
