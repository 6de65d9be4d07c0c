package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

// pngHeader is a minimal valid PNG signature plus IHDR chunk start, enough
// for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestRelayServesImage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngHeader)
	}))
	defer upstream.Close()

	h := NewPosterHandler(upstream.Client())
	h.allowPrivate = true

	req := httptest.NewRequest(http.MethodGet, "/api/poster?url="+upstream.URL+"/p.png", nil)
	rec := httptest.NewRecorder()
	h.Relay(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), pngHeader) {
		t.Error("relayed body does not match upstream")
	}
}

func TestRelayRejectsNonImage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not a poster</html>"))
	}))
	defer upstream.Close()

	h := NewPosterHandler(upstream.Client())
	h.allowPrivate = true

	req := httptest.NewRequest(http.MethodGet, "/api/poster?url="+upstream.URL, nil)
	rec := httptest.NewRecorder()
	h.Relay(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestRelayRequiresURL(t *testing.T) {
	h := NewPosterHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/poster", nil)
	rec := httptest.NewRecorder()
	h.Relay(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRelayRejectsNonHTTPScheme(t *testing.T) {
	h := NewPosterHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/poster?url=file:///etc/passwd", nil)
	rec := httptest.NewRecorder()
	h.Relay(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRelayBlocksInternalAddresses(t *testing.T) {
	h := NewPosterHandler(nil)

	for _, target := range []string{
		"http://127.0.0.1/p.png",
		"http://192.168.1.10/p.png",
		"http://localhost/p.png",
		"http://mynas.local/p.png",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/poster?url="+target, nil)
		rec := httptest.NewRecorder()
		h.Relay(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d", target, rec.Code)
		}
	}
}
