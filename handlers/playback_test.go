package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chumstream/models"
	"chumstream/services/playback"
)

func TestResolvePrefersEmbed(t *testing.T) {
	h := NewPlaybackHandler(playback.NewManager(NewHLSSessionFactory()))

	body := strings.NewReader(`{"name":"Episode 1","link_embed":"http://embed","link_m3u8":"http://x.m3u8"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/playback/resolve", body)
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.PlaybackDecision
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Action != models.PlaybackOpenExternal || got.URL != "http://embed" {
		t.Errorf("unexpected decision: %+v", got)
	}
}

func TestResolveNoSource(t *testing.T) {
	h := NewPlaybackHandler(playback.NewManager(NewHLSSessionFactory()))

	req := httptest.NewRequest(http.MethodPost, "/api/playback/resolve", strings.NewReader(`{"name":"Episode 1"}`))
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)

	var got models.PlaybackDecision
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Action != models.PlaybackNoSource {
		t.Errorf("expected no_source, got %q", got.Action)
	}
}

func TestResolveRejectsUnknownFields(t *testing.T) {
	h := NewPlaybackHandler(playback.NewManager(NewHLSSessionFactory()))

	req := httptest.NewRequest(http.MethodPost, "/api/playback/resolve", strings.NewReader(`{"nope":1}`))
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	h := NewPlaybackHandler(playback.NewManager(NewHLSSessionFactory()))

	req := httptest.NewRequest(http.MethodPost, "/api/playback/start", strings.NewReader(`{"url":"http://x.m3u8"}`))
	rec := httptest.NewRecorder()
	h.Start(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Active(rec, httptest.NewRequest(http.MethodGet, "/api/playback", nil))
	var active map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&active); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if active["active"] != true || active["url"] != "http://x.m3u8" {
		t.Errorf("unexpected active state: %v", active)
	}

	rec = httptest.NewRecorder()
	h.Stop(rec, httptest.NewRequest(http.MethodPost, "/api/playback/stop", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stop: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Active(rec, httptest.NewRequest(http.MethodGet, "/api/playback", nil))
	active = nil
	if err := json.NewDecoder(rec.Body).Decode(&active); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if active["active"] != false {
		t.Errorf("expected idle after stop: %v", active)
	}
}

func TestStartRequiresURL(t *testing.T) {
	h := NewPlaybackHandler(playback.NewManager(NewHLSSessionFactory()))

	req := httptest.NewRequest(http.MethodPost, "/api/playback/start", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Start(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
