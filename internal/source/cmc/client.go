// Package cmc resolves tokens against CoinMarketCap's ID map.
//
// Every call needs an API key. Without one the resolver is disabled and
// reports itself as skipped, issuing no requests.
package cmc

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rickgao/ico-resolver/internal/api"
)

const (
	// Source is the cascade name of this catalog.
	Source = "cmc"

	DefaultBaseURL  = "https://pro-api.coinmarketcap.com/v1"
	DefaultInterval = 350 * time.Millisecond

	// HeaderAPIKey carries the CoinMarketCap Pro API key.
	HeaderAPIKey = "X-CMC_PRO_API_KEY"
)

// Currency is one ID map entry.
type Currency struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Slug   string `json:"slug"`
}

// Status is the envelope status block.
type Status struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// MapResponse is the body of GET /cryptocurrency/map.
type MapResponse struct {
	Data   []Currency `json:"data"`
	Status Status     `json:"status"`
}

// Client wraps the CoinMarketCap REST endpoints.
type Client struct {
	rest   *api.Client
	apiKey string
}

// NewClient creates a CoinMarketCap client. An empty apiKey yields a client
// that reports HasKey false.
func NewClient(rest *api.Client, apiKey string) *Client {
	return &Client{rest: rest, apiKey: apiKey}
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool {
	return c != nil && c.apiKey != ""
}

// MapBySymbol returns the map entries for an exact symbol. CoinMarketCap
// matches symbols case-sensitively against upper case.
func (c *Client) MapBySymbol(ctx context.Context, symbol string) ([]Currency, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	resp, err := c.getMap(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("map symbol %s: %w", symbol, err)
	}
	return resp.Data, nil
}

// Listing returns every active, inactive and untracked currency.
func (c *Client) Listing(ctx context.Context) ([]Currency, error) {
	query := url.Values{}
	query.Set("listing_status", "active,inactive,untracked")
	query.Set("aux", "name,symbol,slug")

	resp, err := c.getMap(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("map listing: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) getMap(ctx context.Context, query url.Values) (*MapResponse, error) {
	header := map[string]string{HeaderAPIKey: c.apiKey}

	var resp MapResponse
	if err := c.rest.GetJSONWithHeader(ctx, "/cryptocurrency/map", query, header, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
