package gogophim

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"chumstream/models"
)

// The upstream runs three interchangeable deployments with different JSON
// dialects: (a) a bare array of {title, link, image} posts, (b) an
// {items: [...]} envelope with near-canonical field names, and (c) detail
// objects either bare or nested under a "movie" key. The normalizers below
// probe the structure and converge everything on the canonical model, so
// nothing downstream knows which deployment answered.

// ListPage is a normalized list response: the items of one page plus the
// upstream-reported paging position.
type ListPage struct {
	Items      []models.CatalogItem
	Pagination models.Pagination
}

var slugPattern = regexp.MustCompile(`/(?:m|s|phim)/([^/?#]+)`)

// NormalizeList maps a validated list payload of any dialect to catalog items.
func NormalizeList(payload any) ListPage {
	posts := rawPosts(payload)

	items := make([]models.CatalogItem, 0, len(posts))
	for _, p := range posts {
		raw, ok := p.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, itemFromRaw(raw))
	}

	return ListPage{Items: items, Pagination: paginationFromRaw(payload)}
}

// NormalizeDetail maps a validated detail payload to a MovieDetail. The
// requested slug fills in when the upstream omits one, keeping the routing
// key stable across dialects.
func NormalizeDetail(payload any, requestedSlug string) (models.MovieDetail, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return models.MovieDetail{}, fmt.Errorf("%w: detail payload is not an object", ErrInvalidShape)
	}
	// Detail data arrives either bare or nested under "movie".
	if movie, ok := obj["movie"].(map[string]any); ok {
		obj = movie
	}

	d := models.MovieDetail{
		CatalogItem:  itemFromRaw(obj),
		Description:  strField(obj, "description", "synopsis"),
		CategoryTags: categoryTags(obj),
		Servers:      serverGroups(obj),
	}
	if d.Slug == "" {
		d.Slug = requestedSlug
	}
	return d, nil
}

// rawPosts extracts the post list regardless of envelope: a bare array,
// {items: [...]}, {data: [...]}, or {data: {items: [...]}}.
func rawPosts(payload any) []any {
	switch v := payload.(type) {
	case []any:
		return v
	case map[string]any:
		if items, ok := v["items"].([]any); ok {
			return items
		}
		switch data := v["data"].(type) {
		case []any:
			return data
		case map[string]any:
			if items, ok := data["items"].([]any); ok {
				return items
			}
		}
	}
	return nil
}

// itemFromRaw maps one raw post to a catalog item, probing for dialect (a)
// ({title, link, image}) versus near-canonical fields.
func itemFromRaw(raw map[string]any) models.CatalogItem {
	_, hasLink := raw["link"]
	_, hasName := raw["name"]
	if hasLink || (!hasName && strField(raw, "title") != "") {
		return itemFromPost(raw)
	}
	return itemFromCanonical(raw)
}

// itemFromPost handles the bare-post dialect. These deployments carry no
// quality/language metadata, so the item gets the upstream's universal
// defaults, and the slug is derived from the detail-page link.
func itemFromPost(raw map[string]any) models.CatalogItem {
	title := strField(raw, "title")
	image := strField(raw, "image")

	slug := extractSlugFromLink(strField(raw, "link"))
	if slug == "" {
		slug = slugify(title)
	}

	return models.CatalogItem{
		Name:      title,
		Slug:      slug,
		ThumbURL:  image,
		PosterURL: image,
		Quality:   "HD",
		Language:  "Vietsub",
	}
}

func itemFromCanonical(raw map[string]any) models.CatalogItem {
	item := models.CatalogItem{
		Name:           strField(raw, "name", "title"),
		OriginalName:   strField(raw, "original_name"),
		Slug:           strField(raw, "slug"),
		ThumbURL:       strField(raw, "thumb_url", "image"),
		PosterURL:      strField(raw, "poster_url", "image"),
		Quality:        strField(raw, "quality"),
		Language:       strField(raw, "language"),
		Year:           strField(raw, "year"),
		CurrentEpisode: strField(raw, "current_episode"),
	}
	if item.PosterURL == "" {
		item.PosterURL = item.ThumbURL
	}
	if item.Slug == "" {
		if slug := extractSlugFromLink(strField(raw, "link")); slug != "" {
			item.Slug = slug
		} else {
			item.Slug = slugify(item.Name)
		}
	}
	return item
}

// extractSlugFromLink pulls the routing slug out of a detail-page URL.
// Recognized path prefixes are /m/, /s/ and /phim/; otherwise the trailing
// path segment is used.
func extractSlugFromLink(link string) string {
	if link == "" {
		return ""
	}
	if m := slugPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	// Trailing segment, with query and fragment stripped.
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	link = strings.TrimRight(link, "/")
	if i := strings.LastIndex(link, "/"); i >= 0 {
		link = link[i+1:]
	}
	return link
}

// slugify builds an ASCII slug from a title. Titles are frequently
// Vietnamese, so transliterate before folding to [a-z0-9-].
func slugify(s string) string {
	s = strings.ToLower(unidecode.Unidecode(s))
	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// paginationFromRaw reads the paging block from either dialect: a top-level
// "paginate" object or the nested data.params.pagination form.
func paginationFromRaw(payload any) models.Pagination {
	obj, ok := payload.(map[string]any)
	if !ok {
		return models.Pagination{CurrentPage: 1, TotalPages: 1}
	}

	if p, ok := obj["paginate"].(map[string]any); ok {
		return paginationFields(p)
	}
	if data, ok := obj["data"].(map[string]any); ok {
		if params, ok := data["params"].(map[string]any); ok {
			if p, ok := params["pagination"].(map[string]any); ok {
				return paginationFields(p)
			}
		}
	}
	return models.Pagination{CurrentPage: 1, TotalPages: 1}
}

func paginationFields(p map[string]any) models.Pagination {
	pg := models.Pagination{
		CurrentPage: intField(p, "current_page", "currentPage"),
		TotalPages:  intField(p, "total_page", "totalPages"),
	}
	if pg.CurrentPage < 1 {
		pg.CurrentPage = 1
	}
	if pg.TotalPages < 1 {
		pg.TotalPages = 1
	}
	return pg
}

// categoryTags flattens category data into an ordered tag list. Upstream
// sends either an array of {name} or a keyed map of groups each holding a
// "list" of {name}; group keys are numeric strings, so the map form is
// walked in numeric key order. Plain string tags are folded in as well.
func categoryTags(obj map[string]any) []string {
	tags := []string{}

	switch cat := obj["category"].(type) {
	case []any:
		for _, c := range cat {
			if m, ok := c.(map[string]any); ok {
				if name := strField(m, "name"); name != "" {
					tags = append(tags, name)
				}
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(cat))
		for k := range cat {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, errA := strconv.Atoi(keys[i])
			b, errB := strconv.Atoi(keys[j])
			if errA == nil && errB == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		for _, k := range keys {
			group, ok := cat[k].(map[string]any)
			if !ok {
				continue
			}
			list, ok := group["list"].([]any)
			if !ok {
				continue
			}
			for _, entry := range list {
				if m, ok := entry.(map[string]any); ok {
					if name := strField(m, "name"); name != "" {
						tags = append(tags, name)
					}
				}
			}
		}
	}

	if raw, ok := obj["tags"].([]any); ok {
		for _, t := range raw {
			if s, ok := t.(string); ok && s != "" {
				tags = append(tags, s)
			}
		}
	}

	return tags
}

// serverGroups normalizes either episode dialect into ordered server
// groups: the canonical {server_name, server_data} form or the raw
// {title, directLinks} link list. Missing provider and episode titles are
// synthesized from their 1-based position.
func serverGroups(obj map[string]any) []models.ServerGroup {
	groups := []models.ServerGroup{}

	rawServers, ok := obj["episodes"].([]any)
	if !ok {
		rawServers, _ = obj["linkList"].([]any)
	}

	for i, s := range rawServers {
		raw, ok := s.(map[string]any)
		if !ok {
			continue
		}

		name := strField(raw, "server_name", "title")
		if name == "" {
			name = fmt.Sprintf("Server %d", i+1)
		}

		group := models.ServerGroup{ServerName: name, Episodes: []models.EpisodeSource{}}
		for j, e := range rawEpisodes(raw) {
			em, ok := e.(map[string]any)
			if !ok {
				continue
			}
			ep := episodeFromRaw(em)
			if ep.DisplayName == "" {
				ep.DisplayName = fmt.Sprintf("Episode %d", j+1)
			}
			group.Episodes = append(group.Episodes, ep)
		}
		groups = append(groups, group)
	}

	return groups
}

func rawEpisodes(server map[string]any) []any {
	for _, key := range []string{"server_data", "items", "directLinks"} {
		if eps, ok := server[key].([]any); ok {
			return eps
		}
	}
	return nil
}

func episodeFromRaw(raw map[string]any) models.EpisodeSource {
	ep := models.EpisodeSource{
		DisplayName: strField(raw, "name", "title"),
		EmbedURL:    strField(raw, "link_embed"),
		HLSURL:      strField(raw, "link_m3u8"),
	}
	// The link-list dialect carries one "link" per episode that serves as
	// both embed page and stream, matching the upstream player behavior.
	if ep.EmbedURL == "" && ep.HLSURL == "" {
		if link := strField(raw, "link"); link != "" {
			ep.EmbedURL = link
			ep.HLSURL = link
		}
	}
	return ep
}

// strField returns the first non-empty string value among keys. Numeric
// values (years arrive as JSON numbers on some deployments) are formatted,
// and anything absent collapses to "" so clients never see a null.
func strField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func intField(m map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}
