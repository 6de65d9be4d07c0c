package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"chumstream/models"
	"chumstream/services/playback"
)

type playbackManager interface {
	Start(manifestURL string) (*playback.Handle, error)
	Stop()
	Active() *playback.Handle
}

var _ playbackManager = (*playback.Manager)(nil)

type PlaybackHandler struct {
	Manager playbackManager
}

func NewPlaybackHandler(manager playbackManager) *PlaybackHandler {
	return &PlaybackHandler{Manager: manager}
}

// Resolve decides how an episode's sources should be played without
// starting anything: embed URLs open externally, HLS manifests play
// in-page, neither means the episode is dead.
func (h *PlaybackHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var source models.EpisodeSource
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&source); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, playback.ResolveSource(source))
}

// Start begins tracked HLS playback for a manifest, replacing any
// previous playback.
func (h *PlaybackHandler) Start(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	handle, err := h.Manager.Start(body.URL)
	if err != nil {
		if errors.Is(err, playback.ErrManifestURLRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         handle.ID,
		"url":        handle.Manifest,
		"started_at": handle.StartedAt,
	})
}

// Stop tears down the active playback. Stopping when idle is fine.
func (h *PlaybackHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.Manager.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// Active reports the current playback, if any.
func (h *PlaybackHandler) Active(w http.ResponseWriter, r *http.Request) {
	handle := h.Manager.Active()
	if handle == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":     true,
		"id":         handle.ID,
		"url":        handle.Manifest,
		"started_at": handle.StartedAt,
	})
}

// hlsSession is the server-side playback tracker. The browser owns the
// actual decode; the server only accounts for which manifest is live.
type hlsSession struct {
	manifest string
}

func (s *hlsSession) Attach(manifestURL string) error {
	s.manifest = manifestURL
	return nil
}

func (s *hlsSession) Release() {
	log.Printf("[playback] released session for %s", s.manifest)
}

// NewHLSSessionFactory returns the player factory main wires into the
// playback manager.
func NewHLSSessionFactory() playback.PlayerFactory {
	return func() playback.Player { return &hlsSession{} }
}
