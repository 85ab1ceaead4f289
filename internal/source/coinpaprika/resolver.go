package coinpaprika

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rickgao/ico-resolver/internal/model"
	"github.com/rickgao/ico-resolver/internal/resolve"
	"github.com/rickgao/ico-resolver/internal/textmatch"
)

// NameThreshold is the minimum similarity for a name search hit.
const NameThreshold = 0.80

const (
	symbolLimit = 10
	nameLimit   = 20
)

// Resolver looks tokens up in CoinPaprika: a ticker search over currencies,
// then a name search over currencies and ICOs.
type Resolver struct {
	client *Client
	logger *slog.Logger
}

// New creates a CoinPaprika resolver.
func New(client *Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{client: client, logger: logger}
}

func (r *Resolver) Source() string { return Source }

// Find resolves q. It never returns an error.
func (r *Resolver) Find(ctx context.Context, q model.TokenQuery) (model.Result, error) {
	var symRes model.Result
	if sym := strings.TrimSpace(q.Symbol); sym != "" {
		symRes = r.bySymbol(ctx, sym)
		if symRes.IsFound() {
			return symRes, nil
		}
	}

	var nameRes model.Result
	if name := strings.TrimSpace(q.Name); name != "" {
		nameRes = r.byName(ctx, name)
		if nameRes.IsFound() {
			return nameRes, nil
		}
	}

	switch {
	case symRes.Status == model.StatusError:
		return symRes, nil
	case nameRes.Status == model.StatusError:
		return nameRes, nil
	}
	return model.Miss(), nil
}

// bySymbol prefers an exact normalized ticker among the hits, else the
// first hit.
func (r *Resolver) bySymbol(ctx context.Context, sym string) model.Result {
	resp, err := r.client.Search(ctx, SearchOptions{
		Query:      sym,
		Categories: []string{CategoryCurrencies},
		Modifier:   "symbol_search",
		Limit:      symbolLimit,
	})
	if err != nil {
		return resolve.ResultFromError(err)
	}
	if len(resp.Currencies) == 0 {
		return model.Miss()
	}

	best := resp.Currencies[0]
	key := textmatch.Normalize(sym)
	for _, c := range resp.Currencies {
		if textmatch.Normalize(c.Symbol) == key {
			best = c
			break
		}
	}
	return model.Hit(model.MethodSymbolSearch, best.match())
}

func (r *Resolver) byName(ctx context.Context, name string) model.Result {
	resp, err := r.client.Search(ctx, SearchOptions{
		Query:      name,
		Categories: []string{CategoryCurrencies, CategoryICOs},
		Limit:      nameLimit,
	})
	if err != nil {
		return resolve.ResultFromError(err)
	}

	entries := resp.All()
	i, score := textmatch.Best(textmatch.Normalize(name), entries, entryName)
	if i < 0 || score < NameThreshold {
		return model.Miss()
	}
	return model.Hit(model.MethodNameFuzzy, entries[i].match())
}

func (e Entry) match() model.Match {
	return model.Match{ID: e.ID, Symbol: e.Symbol, Name: e.Name}
}

func entryName(e Entry) string { return e.Name }
