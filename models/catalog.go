package models

// FilterKind identifies which single dimension a catalog query filters on.
type FilterKind string

const (
	FilterCategory FilterKind = "category"
	FilterGenre    FilterKind = "genre"
	FilterCountry  FilterKind = "country"
	FilterYear     FilterKind = "year"
	FilterSearch   FilterKind = "search"
)

// CatalogQuery describes one catalog request. Exactly one filter dimension
// is active at a time; a new query fully replaces the previous one.
type CatalogQuery struct {
	Kind  FilterKind `json:"kind"`
	Value string     `json:"value"`
	Page  int        `json:"page"`
}

// IsSearch reports whether the query is a free-text search. Search result
// sets are treated as complete after a single call and never auto-paginate.
func (q CatalogQuery) IsSearch() bool {
	return q.Kind == FilterSearch
}

// CatalogItem is the canonical list-view representation of a movie,
// regardless of which upstream dialect produced it. Absent fields are empty
// strings, never null, so clients never render the literal "null".
type CatalogItem struct {
	Name           string `json:"name"`
	OriginalName   string `json:"original_name"`
	Slug           string `json:"slug"`
	ThumbURL       string `json:"thumb_url"`
	PosterURL      string `json:"poster_url"`
	Quality        string `json:"quality"`
	Language       string `json:"language"`
	Year           string `json:"year"`
	CurrentEpisode string `json:"current_episode"`
}

// MovieDetail extends CatalogItem with the fields of a detail response.
type MovieDetail struct {
	CatalogItem
	Description  string        `json:"description"`
	CategoryTags []string      `json:"category_tags"`
	Servers      []ServerGroup `json:"servers"`
}

// ServerGroup is one hosting provider's list of episode sources.
type ServerGroup struct {
	ServerName string          `json:"server_name"`
	Episodes   []EpisodeSource `json:"episodes"`
}

// EpisodeSource is a single playable episode. Both URLs may be absent
// (dead episode), or one, or both; when both are present the embed link
// is preferred at playback time.
type EpisodeSource struct {
	DisplayName string `json:"name"`
	EmbedURL    string `json:"link_embed"`
	HLSURL      string `json:"link_m3u8"`
}

// Pagination carries the upstream-reported paging position for a list
// response. TotalPages drives the auto-aggregation loop.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}
