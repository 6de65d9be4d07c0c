package handlers

import (
	"net/http"

	"chumstream/models"
	"chumstream/services/featured"
)

type featuredService interface {
	Items() []models.CatalogItem
}

var _ featuredService = (*featured.Service)(nil)

type FeaturedHandler struct {
	Service featuredService
}

func NewFeaturedHandler(service featuredService) *FeaturedHandler {
	return &FeaturedHandler{Service: service}
}

// List returns the hero-rail items. The rail serves whatever the last
// refresh produced; an empty list just means no rail yet.
func (h *FeaturedHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": h.Service.Items()})
}
