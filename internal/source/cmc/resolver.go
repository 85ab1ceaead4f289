package cmc

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/rickgao/ico-resolver/internal/model"
	"github.com/rickgao/ico-resolver/internal/resolve"
	"github.com/rickgao/ico-resolver/internal/textmatch"
)

// NameThreshold is the minimum similarity for a fuzzy name match.
const NameThreshold = 0.88

// SkipLabel is reported in place of "False" when no API key is configured.
const SkipLabel = "skipped_no_key"

// Resolver looks tokens up in CoinMarketCap, by symbol first and then by
// fuzzy name against the full listing.
//
// Outcomes are cached per uppercased symbol and per normalized name for the
// life of the resolver. Transient failures are not cached. Find serializes
// its callers.
type Resolver struct {
	client *Client
	logger *slog.Logger

	mu       sync.Mutex
	bySymbol map[string]model.Result
	byName   map[string]model.Result
	listing  []Currency
	listed   bool
}

// New creates a CoinMarketCap resolver. A nil client or one without a key
// disables the resolver.
func New(client *Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client:   client,
		logger:   logger,
		bySymbol: make(map[string]model.Result),
		byName:   make(map[string]model.Result),
	}
}

func (r *Resolver) Source() string { return Source }

// SkipLabel implements resolve.SkipReporter.
func (r *Resolver) SkipLabel() (string, bool) {
	return SkipLabel, !r.client.HasKey()
}

// Find resolves q. It never returns an error.
func (r *Resolver) Find(ctx context.Context, q model.TokenQuery) (model.Result, error) {
	if !r.client.HasKey() {
		return model.Skip(model.MethodNoAPIKey), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var symRes model.Result
	if sym := strings.TrimSpace(q.Symbol); sym != "" {
		symRes = r.findBySymbol(ctx, strings.ToUpper(sym))
		if symRes.IsFound() {
			return symRes, nil
		}
	}

	var nameRes model.Result
	if name := textmatch.Normalize(q.Name); name != "" {
		nameRes = r.findByName(ctx, name)
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

func (r *Resolver) findBySymbol(ctx context.Context, key string) model.Result {
	if res, ok := r.bySymbol[key]; ok {
		return res
	}

	var res model.Result
	data, err := r.client.MapBySymbol(ctx, key)
	switch {
	case err != nil:
		res = resolve.ResultFromError(err)
	case len(data) == 0:
		res = model.Miss()
	default:
		res = model.Hit(model.MethodSymbol, data[0].match())
	}

	if res.Status != model.StatusError {
		r.bySymbol[key] = res
	}
	return res
}

func (r *Resolver) findByName(ctx context.Context, key string) model.Result {
	if res, ok := r.byName[key]; ok {
		return res
	}

	if !r.listed {
		listing, err := r.client.Listing(ctx)
		if err != nil {
			return resolve.ResultFromError(err)
		}
		r.listing = listing
		r.listed = true
		r.logger.Info("cmc listing loaded", "currencies", len(listing))
	}

	res := model.Miss()
	if i, score := textmatch.Best(key, r.listing, currencyName); i >= 0 && score >= NameThreshold {
		res = model.Hit(model.MethodNameFuzzy, r.listing[i].match())
	}
	r.byName[key] = res
	return res
}

func (c Currency) match() model.Match {
	return model.Match{ID: strconv.Itoa(c.ID), Symbol: c.Symbol, Name: c.Name}
}

func currencyName(c Currency) string { return c.Name }
