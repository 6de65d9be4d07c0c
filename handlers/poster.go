package handlers

import (
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"chumstream/utils"
)

// maxPosterBytes caps relayed artwork; anything bigger is not a poster.
const maxPosterBytes = 5 << 20

type PosterHandler struct {
	Client *http.Client

	// allowPrivate disables the internal-address guard; tests point the
	// relay at loopback servers.
	allowPrivate bool
}

func NewPosterHandler(client *http.Client) *PosterHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &PosterHandler{Client: client}
}

// Relay fetches a poster image server-side so the browser never talks to
// the upstream CDN directly. Only http(s) URLs to public hosts are
// fetched, and only responses that sniff as images are passed through.
func (h *PosterHandler) Relay(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "query parameter url is required")
		return
	}

	normalized, err := utils.NormalizeImageURL(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	target, err := url.Parse(normalized)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		writeError(w, http.StatusBadRequest, "url must be http or https")
		return
	}
	if !h.allowPrivate && !publicHost(target.Hostname()) {
		writeError(w, http.StatusForbidden, "refusing to fetch from an internal address")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		writeError(w, http.StatusBadGateway, "upstream returned "+resp.Status)
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterBytes+1))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if len(body) > maxPosterBytes {
		writeError(w, http.StatusBadGateway, "poster exceeds size limit")
		return
	}

	kind := mimetype.Detect(body)
	if !strings.HasPrefix(kind.String(), "image/") {
		writeError(w, http.StatusBadGateway, "upstream did not return an image")
		return
	}

	w.Header().Set("Content-Type", kind.String())
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// publicHost rejects hostnames that point at the server's own network.
// Literal IPs are checked directly; names are resolved first so a DNS
// entry for an internal address cannot slip through.
func publicHost(hostname string) bool {
	if hostname == "" || hostname == "localhost" || strings.HasSuffix(hostname, ".local") {
		return false
	}
	if ip := net.ParseIP(hostname); ip != nil {
		return !utils.IsPrivateAddr(ip)
	}
	addrs, err := net.LookupIP(hostname)
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		if utils.IsPrivateAddr(addr) {
			return false
		}
	}
	return true
}
