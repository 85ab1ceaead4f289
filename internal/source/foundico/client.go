// Package foundico resolves tokens by paging through Foundico's past ICO
// listing.
//
// Every request body is signed with the account's private key; without a
// complete key pair the resolver is disabled.
package foundico

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rickgao/ico-resolver/internal/api"
	"github.com/rickgao/ico-resolver/internal/auth"
)

const (
	// Source is the cascade name of this catalog.
	Source = "foundico"

	DefaultBaseURL  = "https://foundico.com/api/v1"
	DefaultInterval = 450 * time.Millisecond
	DefaultMaxPages = 15

	// StatusPast selects finished ICOs.
	StatusPast = "past"
)

// Client wraps the Foundico REST endpoints.
type Client struct {
	rest  *api.Client
	creds *auth.Credentials
}

// NewClient creates a Foundico client. creds may be nil, which disables it.
func NewClient(rest *api.Client, creds *auth.Credentials) *Client {
	return &Client{rest: rest, creds: creds}
}

// Enabled reports whether the client has credentials.
func (c *Client) Enabled() bool {
	return c != nil && c.creds != nil
}

// ListICOs fetches one page of ICOs with the given status. Pages start at 1.
func (c *Client) ListICOs(ctx context.Context, status string, page int) ([]ICO, error) {
	body, err := json.Marshal(ListRequest{Status: status, Page: page})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var resp ListResponse
	if err := c.rest.PostJSON(ctx, "/icos/", body, c.creds.SignRequest(body), &resp); err != nil {
		return nil, fmt.Errorf("list %s icos page %d: %w", status, page, err)
	}
	return resp.Data, nil
}
