// Package coingecko resolves tokens against the CoinGecko coin catalog.
//
// The full coin list is downloaded once and indexed by normalized symbol and
// name. Queries that miss both indices fall back to the free-text search
// endpoint.
package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rickgao/ico-resolver/internal/api"
)

const (
	// Source is the cascade name of this catalog.
	Source = "coingecko"

	DefaultBaseURL  = "https://api.coingecko.com/api/v3"
	DefaultInterval = 250 * time.Millisecond
)

// Coin is one catalog entry.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Coins []Coin `json:"coins"`
}

// Client wraps the CoinGecko REST endpoints.
type Client struct {
	rest *api.Client
}

// NewClient creates a CoinGecko client on top of rest.
func NewClient(rest *api.Client) *Client {
	return &Client{rest: rest}
}

// ListCoins fetches the complete coin list.
func (c *Client) ListCoins(ctx context.Context) ([]Coin, error) {
	query := url.Values{}
	query.Set("include_platform", "false")

	var coins []Coin
	if err := c.rest.GetJSON(ctx, "/coins/list", query, &coins); err != nil {
		return nil, fmt.Errorf("list coins: %w", err)
	}
	return coins, nil
}

// Search runs a free-text coin search.
func (c *Client) Search(ctx context.Context, q string) ([]Coin, error) {
	query := url.Values{}
	query.Set("query", q)

	var resp SearchResponse
	if err := c.rest.GetJSON(ctx, "/search", query, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}
	return resp.Coins, nil
}
