package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chumstream/services/prefs"
)

type prefsService interface {
	Theme() string
	SetTheme(theme string) error
}

var _ prefsService = (*prefs.Service)(nil)

type PrefsHandler struct {
	Service prefsService
}

func NewPrefsHandler(service prefsService) *PrefsHandler {
	return &PrefsHandler{Service: service}
}

func (h *PrefsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"theme": h.Service.Theme()})
}

func (h *PrefsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.SetTheme(body.Theme); err != nil {
		if errors.Is(err, prefs.ErrInvalidTheme) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": h.Service.Theme()})
}
