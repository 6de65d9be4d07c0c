package gogophim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"chumstream/models"
)

const (
	// DefaultBaseURL is the upstream deployment the app ships against.
	DefaultBaseURL = "https://app.gogophim.com/v1"

	listLimit   = 24
	searchLimit = 20
)

// categoryFilters maps the app's category keys to the upstream's filter
// names. Unknown categories pass through unchanged.
var categoryFilters = map[string]string{
	"phim-le":           "phim-le",
	"phim-bo":           "phim-bo",
	"hoat-hinh":         "hoat-hinh",
	"phim-moi-cap-nhat": "latest",
}

type jsonFetcher interface {
	Fetch(ctx context.Context, targetURL string) (any, error)
}

var _ jsonFetcher = (*Fetcher)(nil)

// Client exposes the upstream catalog endpoints over the resilient fetcher
// and returns normalized results.
type Client struct {
	baseURL string
	fetcher jsonFetcher
}

func NewClient(baseURL string, fetcher jsonFetcher) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, fetcher: fetcher}
}

// List dispatches a catalog query to the matching endpoint. The upstream
// has no country or year filters, so those dimensions fall back to the
// latest feed rather than failing the query.
func (c *Client) List(ctx context.Context, q models.CatalogQuery) (ListPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	switch q.Kind {
	case models.FilterSearch:
		return c.Search(ctx, q.Value)
	case models.FilterGenre:
		return c.ByGenre(ctx, q.Value, page)
	case models.FilterCategory:
		return c.ByCategory(ctx, q.Value, page)
	case models.FilterCountry, models.FilterYear:
		return c.Latest(ctx, page)
	default:
		return ListPage{}, fmt.Errorf("unknown filter kind %q", q.Kind)
	}
}

// Latest fetches the latest-updates feed.
func (c *Client) Latest(ctx context.Context, page int) (ListPage, error) {
	return c.posts(ctx, url.Values{"filter": {"latest"}}, page)
}

// ByCategory fetches a category feed, mapping app category keys to
// upstream filter names.
func (c *Client) ByCategory(ctx context.Context, category string, page int) (ListPage, error) {
	filter, ok := categoryFilters[category]
	if !ok {
		filter = category
	}
	return c.posts(ctx, url.Values{"filter": {filter}}, page)
}

// ByGenre fetches a genre feed.
func (c *Client) ByGenre(ctx context.Context, genre string, page int) (ListPage, error) {
	return c.posts(ctx, url.Values{"genre": {genre}}, page)
}

// Search runs a free-text search. Search responses are complete in one
// call; the caller must not paginate them further.
func (c *Client) Search(ctx context.Context, keyword string) (ListPage, error) {
	params := url.Values{
		"query": {keyword},
		"page":  {"1"},
		"limit": {strconv.Itoa(searchLimit)},
	}
	payload, err := c.fetcher.Fetch(ctx, c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return ListPage{}, err
	}
	return NormalizeList(payload), nil
}

// Detail fetches and normalizes one movie's detail record.
func (c *Client) Detail(ctx context.Context, slug string) (models.MovieDetail, error) {
	params := url.Values{
		"type": {"movie"},
		"slug": {slug},
	}
	payload, err := c.fetcher.Fetch(ctx, c.baseURL+"/meta?"+params.Encode())
	if err != nil {
		return models.MovieDetail{}, err
	}
	return NormalizeDetail(payload, slug)
}

func (c *Client) posts(ctx context.Context, params url.Values, page int) (ListPage, error) {
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(listLimit))
	payload, err := c.fetcher.Fetch(ctx, c.baseURL+"/posts?"+params.Encode())
	if err != nil {
		return ListPage{}, err
	}
	return NormalizeList(payload), nil
}
