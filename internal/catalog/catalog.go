// Package catalog implements the client for the Cinemeta metadata provider.
//
// Provider failures are absorbed at this boundary: a failed or empty fetch
// degrades to an empty list (or a nil detail), never an error to the caller.
// A stalled catalog must not crash the UI.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"baggedflix/internal/httputil"
	"baggedflix/internal/media"
)

const (
	pageTTL    = 5 * time.Minute
	detailsTTL = 30 * time.Minute
)

// Genres is the fixed genre list offered by the catalog.
var Genres = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime",
	"Documentary", "Drama", "Family", "Fantasy", "History", "Horror",
	"Mystery", "Romance", "Sci-Fi", "Sport", "Thriller", "War", "Western",
}

// Client fetches catalog pages, search results and item details.
type Client struct {
	catalogBase string // paginated/genre catalog host
	metaBase    string // search + details host
	client      *http.Client
	cache       *gocache.Cache
	log         zerolog.Logger
}

// New creates a catalog client for the given provider hosts.
func New(catalogBase, metaBase string, log zerolog.Logger) *Client {
	return &Client{
		catalogBase: catalogBase,
		metaBase:    metaBase,
		client:      httputil.NewClient(),
		cache:       gocache.New(pageTTL, 10*time.Minute),
		log:         log,
	}
}

// pageURL builds the catalog page URL. The provider encodes offset and genre
// into the path, and they combine into a single segment when both are set.
func (c *Client) pageURL(contentType media.ContentType, offset int, genre string) string {
	base := fmt.Sprintf("https://%s/top/catalog/%s/top", c.catalogBase, contentType)
	switch {
	case genre != "" && offset > 0:
		return fmt.Sprintf("%s/skip=%d&genre=%s.json", base, offset, url.PathEscape(genre))
	case genre != "":
		return fmt.Sprintf("%s/genre=%s.json", base, url.PathEscape(genre))
	case offset > 0:
		return fmt.Sprintf("%s/skip=%d.json", base, offset)
	default:
		return base + ".json"
	}
}

// FetchPage returns one page of the catalog. Offset 0 with no genre is the
// default top list. Provider errors yield an empty slice.
func (c *Client) FetchPage(ctx context.Context, contentType media.ContentType, offset int, genre string) []media.Item {
	return c.fetchMetas(ctx, c.pageURL(contentType, offset, genre), pageTTL)
}

// Search returns the full result list for a query. Search results are not
// paginated by the provider. Provider errors yield an empty slice.
func (c *Client) Search(ctx context.Context, contentType media.ContentType, query string) []media.Item {
	u := fmt.Sprintf("https://%s/catalog/%s/top/search=%s.json",
		c.metaBase, contentType, url.PathEscape(query))
	return c.fetchMetas(ctx, u, pageTTL)
}

// FetchDetails returns one item with its episode list, or nil when the item
// does not exist or the provider fails. Absence is a first-class state.
func (c *Client) FetchDetails(ctx context.Context, contentType media.ContentType, id string) *media.Item {
	u := fmt.Sprintf("https://%s/meta/%s/%s.json", c.metaBase, contentType, url.PathEscape(id))

	if cached, ok := c.cache.Get(u); ok {
		item := cached.(media.Item)
		return &item
	}

	body, err := httputil.GetJSON(ctx, c.client, u)
	if err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("details fetch failed")
		return nil
	}

	var resp struct {
		Meta *meta `json:"meta"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Meta == nil {
		c.log.Warn().Err(err).Str("id", id).Msg("details response malformed")
		return nil
	}

	item := resp.Meta.toItem(contentType)
	c.cache.Set(u, item, detailsTTL)
	return &item
}

// fetchMetas fetches and normalizes an item-list response, consulting the
// request cache first.
func (c *Client) fetchMetas(ctx context.Context, u string, ttl time.Duration) []media.Item {
	if cached, ok := c.cache.Get(u); ok {
		return cached.([]media.Item)
	}

	body, err := httputil.GetJSON(ctx, c.client, u)
	if err != nil {
		c.log.Warn().Err(err).Str("url", u).Msg("catalog fetch failed")
		return nil
	}

	var resp struct {
		Metas []meta `json:"metas"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Warn().Err(err).Str("url", u).Msg("catalog response malformed")
		return nil
	}

	items := make([]media.Item, 0, len(resp.Metas))
	for i := range resp.Metas {
		items = append(items, resp.Metas[i].toItem(media.ParseContentType(resp.Metas[i].Type)))
	}

	c.cache.Set(u, items, ttl)
	return items
}
