package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"chumstream/models"
	"chumstream/services/catalog"
	"chumstream/services/gogophim"
)

const maxSuggestions = 8

type catalogSession interface {
	SetQuery(ctx context.Context, q models.CatalogQuery) (catalog.Snapshot, error)
	LoadMore(ctx context.Context) (catalog.Snapshot, error)
	Reset()
	Snapshot() catalog.Snapshot
}

var _ catalogSession = (*catalog.Session)(nil)

type movieClient interface {
	Search(ctx context.Context, keyword string) (gogophim.ListPage, error)
	Detail(ctx context.Context, slug string) (models.MovieDetail, error)
}

var _ movieClient = (*gogophim.Client)(nil)

type CatalogHandler struct {
	Session catalogSession
	Client  movieClient
}

func NewCatalogHandler(session catalogSession, client movieClient) *CatalogHandler {
	return &CatalogHandler{Session: session, Client: client}
}

// Browse replaces the session query from the request's filter params and
// returns the aggregated first pages. Filters are mutually exclusive;
// no filter at all means the latest feed.
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.Session.SetQuery(r.Context(), q)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// More loads one further page of the current query.
func (h *CatalogHandler) More(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Session.LoadMore(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Current returns the session state without touching the upstream.
func (h *CatalogHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

// Reset clears the session back to idle.
func (h *CatalogHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Session.Reset()
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

// Search runs a full search through the session. Search results arrive
// complete in one response and never paginate.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("q"))
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	snap, err := h.Session.SetQuery(r.Context(), models.CatalogQuery{
		Kind:  models.FilterSearch,
		Value: keyword,
	})
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Suggest returns a short list of matches for type-ahead. It bypasses the
// session so suggestions never disturb the browse state; queries under two
// characters return an empty list without an upstream call.
func (h *CatalogHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(keyword)) < 2 {
		writeJSON(w, http.StatusOK, map[string]any{"items": []models.CatalogItem{}})
		return
	}

	page, err := h.Client.Search(r.Context(), keyword)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	items := page.Items
	if len(items) > maxSuggestions {
		items = items[:maxSuggestions]
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Detail returns one movie's full record.
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}

	detail, err := h.Client.Detail(r.Context(), slug)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// queryFromParams builds a browse query from the filter params. Exactly
// one of category/genre/country/year may be set; none defaults to latest.
func queryFromParams(r *http.Request) (models.CatalogQuery, error) {
	params := r.URL.Query()
	kinds := []struct {
		param string
		kind  models.FilterKind
	}{
		{"category", models.FilterCategory},
		{"genre", models.FilterGenre},
		{"country", models.FilterCountry},
		{"year", models.FilterYear},
	}

	var q models.CatalogQuery
	found := 0
	for _, k := range kinds {
		if v := strings.TrimSpace(params.Get(k.param)); v != "" {
			q = models.CatalogQuery{Kind: k.kind, Value: v}
			found++
		}
	}
	switch found {
	case 0:
		return models.CatalogQuery{Kind: models.FilterCategory, Value: "phim-moi-cap-nhat"}, nil
	case 1:
		return q, nil
	default:
		return models.CatalogQuery{}, errors.New("filters are mutually exclusive; pass only one of category, genre, country, year")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUpstreamError maps service errors onto HTTP statuses: a busy
// session is a conflict, an unreachable or misbehaving upstream is a bad
// gateway, anything else is a plain 500.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrLoadInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, gogophim.ErrUnreachable),
		errors.Is(err, gogophim.ErrTimeout),
		errors.Is(err, gogophim.ErrNetwork),
		errors.Is(err, gogophim.ErrInvalidShape):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
