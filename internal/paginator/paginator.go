// Package paginator accumulates catalog pages into one growing, ordered list
// with an exhaustion signal.
//
// A Paginator is driven from a single event loop (the UI's update loop) and is
// not safe for concurrent use. Fetches themselves may run on other goroutines:
// Begin hands out a fetch closure bound to the current query generation, and
// Commit discards results whose generation has been superseded by a query
// switch in the meantime.
package paginator

import (
	"context"

	"baggedflix/internal/media"
)

// Fetcher is the slice of the catalog client the paginator needs.
type Fetcher interface {
	FetchPage(ctx context.Context, contentType media.ContentType, offset int, genre string) []media.Item
	Search(ctx context.Context, contentType media.ContentType, query string) []media.Item
}

// Query identifies one pagination context. Changing any field discards
// accumulated state and starts over at offset 0.
type Query struct {
	Type   media.ContentType
	Genre  string
	Search string // non-empty Search bypasses pagination entirely
}

// State is the paginator's lifecycle state for the active query.
type State int

const (
	Idle State = iota
	Loading
	HasMore
	Exhausted // terminal for the active query
)

// Page carries one fetch result back to Commit.
type Page struct {
	gen   int
	items []media.Item
}

// Fetch performs the page request prepared by Begin. It blocks until the
// provider responds and may run on any goroutine.
type Fetch func(ctx context.Context) Page

// Paginator merges successive pages for one query into a single list.
type Paginator struct {
	fetcher Fetcher
	query   Query
	gen     int
	state   State
	items   []media.Item
	offset  int // running item count; the provider's skip parameter
}

// New creates a paginator for the given query.
func New(fetcher Fetcher, query Query) *Paginator {
	return &Paginator{fetcher: fetcher, query: query}
}

// Query returns the active query.
func (p *Paginator) Query() Query { return p.query }

// State returns the current lifecycle state.
func (p *Paginator) State() State { return p.state }

// Exhausted reports whether the active query has no more data.
func (p *Paginator) Exhausted() bool { return p.state == Exhausted }

// Loading reports whether a fetch is outstanding.
func (p *Paginator) Loading() bool { return p.state == Loading }

// Offset returns the cursor, which always equals the count of items fetched
// so far.
func (p *Paginator) Offset() int { return p.offset }

// Items returns the accumulated list in provider order. The returned slice is
// shared; callers must not mutate it.
func (p *Paginator) Items() []media.Item { return p.items }

// SetQuery switches the active query. A changed key discards all accumulated
// state and returns to Idle at offset 0; setting the same key is a no-op.
func (p *Paginator) SetQuery(q Query) {
	if q == p.query {
		return
	}
	p.query = q
	p.gen++
	p.state = Idle
	p.items = nil
	p.offset = 0
}

// Begin prepares the next page fetch. It returns false while a fetch is
// outstanding or once the query is exhausted, so duplicate scroll triggers
// are no-ops and requests for one query stay serialized.
func (p *Paginator) Begin() (Fetch, bool) {
	if p.state == Loading || p.state == Exhausted {
		return nil, false
	}

	p.state = Loading
	gen := p.gen
	query := p.query
	offset := p.offset

	return func(ctx context.Context) Page {
		var items []media.Item
		if query.Search != "" {
			items = p.fetcher.Search(ctx, query.Type, query.Search)
		} else {
			items = p.fetcher.FetchPage(ctx, query.Type, offset, query.Genre)
		}
		return Page{gen: gen, items: items}
	}, true
}

// Commit applies a fetched page. Results from a superseded query generation
// are discarded. An empty page, or any page in search mode, exhausts the
// query; otherwise items are appended in provider order and the cursor
// advances by the count received.
func (p *Paginator) Commit(page Page) {
	if page.gen != p.gen {
		return // stale result from a switched-away query
	}

	p.items = append(p.items, page.items...)
	p.offset = len(p.items)

	if len(page.items) == 0 || p.query.Search != "" {
		p.state = Exhausted
		return
	}
	p.state = HasMore
}

// LoadMore performs one synchronous fetch+commit cycle. It reports whether a
// fetch was actually issued.
func (p *Paginator) LoadMore(ctx context.Context) bool {
	fetch, ok := p.Begin()
	if !ok {
		return false
	}
	p.Commit(fetch(ctx))
	return true
}
