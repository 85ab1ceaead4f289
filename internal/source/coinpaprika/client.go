// Package coinpaprika resolves tokens with CoinPaprika's search endpoint.
package coinpaprika

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/ico-resolver/internal/api"
)

const (
	// Source is the cascade name of this catalog.
	Source = "coinpaprika"

	DefaultBaseURL  = "https://api.coinpaprika.com/v1"
	DefaultInterval = 300 * time.Millisecond
)

// Search categories.
const (
	CategoryCurrencies = "currencies"
	CategoryICOs       = "icos"
)

// Entry is one search hit. Currencies and ICOs share this shape.
type Entry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Currencies []Entry `json:"currencies"`
	ICOs       []Entry `json:"icos"`
}

// All returns currencies followed by ICOs.
func (r *SearchResponse) All() []Entry {
	out := make([]Entry, 0, len(r.Currencies)+len(r.ICOs))
	out = append(out, r.Currencies...)
	return append(out, r.ICOs...)
}

// SearchOptions contains the query parameters for Search.
type SearchOptions struct {
	Query      string
	Categories []string
	Modifier   string // "symbol_search" restricts matching to tickers
	Limit      int
}

// Client wraps the CoinPaprika REST endpoints.
type Client struct {
	rest *api.Client
}

// NewClient creates a CoinPaprika client on top of rest.
func NewClient(rest *api.Client) *Client {
	return &Client{rest: rest}
}

// Search runs a search across the requested categories.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	query := url.Values{}
	query.Set("q", opts.Query)
	if len(opts.Categories) > 0 {
		query.Set("c", strings.Join(opts.Categories, ","))
	}
	if opts.Modifier != "" {
		query.Set("modifier", opts.Modifier)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var resp SearchResponse
	if err := c.rest.GetJSON(ctx, "/search", query, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", opts.Query, err)
	}
	return &resp, nil
}
