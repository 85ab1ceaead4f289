// Package cryptototem checks whether CryptoTotem's site search lists a
// project. There is no API; the result page is scanned for ICO links.
package cryptototem

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/rickgao/ico-resolver/internal/api"
	"github.com/rickgao/ico-resolver/internal/model"
	"github.com/rickgao/ico-resolver/internal/resolve"
)

const (
	// Source is the cascade name of this catalog.
	Source = "cryptototem"

	DefaultBaseURL  = "https://cryptototem.com"
	DefaultInterval = 800 * time.Millisecond
)

// Resolver searches CryptoTotem for the symbol, then the name.
type Resolver struct {
	client *api.Client
	logger *slog.Logger
}

// New creates a CryptoTotem resolver on top of rest.
func New(rest *api.Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{client: rest, logger: logger}
}

func (r *Resolver) Source() string { return Source }

// Find resolves q. It never returns an error.
func (r *Resolver) Find(ctx context.Context, q model.TokenQuery) (model.Result, error) {
	var last model.Result
	for _, term := range []string{q.Symbol, q.Name} {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		res := r.search(ctx, term)
		if res.IsFound() {
			return res, nil
		}
		if res.Status == model.StatusError {
			last = res
		}
	}

	if last.Status == model.StatusError {
		return last, nil
	}
	return model.Miss(), nil
}

func (r *Resolver) search(ctx context.Context, term string) model.Result {
	query := url.Values{}
	query.Set("s", term)

	body, err := r.client.GetText(ctx, "/", query)
	if err != nil {
		return resolve.ResultFromError(err)
	}
	if !ListsICO(body) {
		return model.Miss()
	}
	return model.Hit(model.MethodSearch, model.Match{Name: term})
}

// ListsICO reports whether a search result page links to at least one ICO
// profile.
func ListsICO(page []byte) bool {
	html := bytes.ToLower(page)
	return bytes.Contains(html, []byte("ico")) &&
		bytes.Contains(html, []byte("html")) &&
		bytes.Contains(html, []byte("/ico/"))
}
