package coingecko

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rickgao/ico-resolver/internal/model"
	"github.com/rickgao/ico-resolver/internal/resolve"
	"github.com/rickgao/ico-resolver/internal/textmatch"
)

// Catalog indexes the coin list by normalized key. Read-only once built.
type Catalog struct {
	bySymbol map[string][]Coin
	byName   map[string][]Coin
	size     int
}

// NewCatalog indexes coins, preserving list order within each key.
func NewCatalog(coins []Coin) *Catalog {
	cat := &Catalog{
		bySymbol: make(map[string][]Coin),
		byName:   make(map[string][]Coin),
		size:     len(coins),
	}
	for _, c := range coins {
		if sym := textmatch.Normalize(c.Symbol); sym != "" {
			cat.bySymbol[sym] = append(cat.bySymbol[sym], c)
		}
		if name := textmatch.Normalize(c.Name); name != "" {
			cat.byName[name] = append(cat.byName[name], c)
		}
	}
	return cat
}

// Len returns the number of indexed coins.
func (c *Catalog) Len() int {
	return c.size
}

// Resolver looks tokens up in CoinGecko.
type Resolver struct {
	client *Client
	logger *slog.Logger

	mu      sync.Mutex
	catalog *Catalog
}

// New creates a CoinGecko resolver. The catalog is loaded on first use.
func New(client *Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client: client,
		logger: logger,
	}
}

func (r *Resolver) Source() string { return Source }

// Load downloads and indexes the coin list if it has not been loaded yet.
// A failed load is not remembered, so the next call tries again.
func (r *Resolver) Load(ctx context.Context) (*Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.catalog != nil {
		return r.catalog, nil
	}

	coins, err := r.client.ListCoins(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	r.catalog = NewCatalog(coins)
	r.logger.Info("coingecko catalog loaded", "coins", r.catalog.Len())
	return r.catalog, nil
}

// Find resolves q by exact symbol, then exact name, then remote search.
// Only a catalog load failure is returned as an error.
func (r *Resolver) Find(ctx context.Context, q model.TokenQuery) (model.Result, error) {
	cat, err := r.Load(ctx)
	if err != nil {
		return model.Result{}, err
	}

	sym := textmatch.Normalize(q.Symbol)
	name := textmatch.Normalize(q.Name)

	if cands := cat.bySymbol[sym]; sym != "" && len(cands) > 0 {
		best := cands[0]
		if name != "" {
			i, _ := textmatch.Best(name, cands, coinName)
			best = cands[i]
		}
		return model.Hit(model.MethodSymbol, best.match()), nil
	}

	if cands := cat.byName[name]; name != "" && len(cands) > 0 {
		return model.Hit(model.MethodName, cands[0].match()), nil
	}

	return r.search(ctx, q), nil
}

// search is the remote fallback. Failures degrade to a non-found result.
func (r *Resolver) search(ctx context.Context, q model.TokenQuery) model.Result {
	term := strings.TrimSpace(q.Symbol)
	if term == "" {
		term = strings.TrimSpace(q.Name)
	}
	if term == "" {
		return model.Miss()
	}

	coins, err := r.client.Search(ctx, term)
	if err != nil {
		return resolve.ResultFromError(err)
	}
	if len(coins) == 0 {
		return model.Miss()
	}

	var i int
	if strings.TrimSpace(q.Name) != "" {
		i, _ = textmatch.Best(textmatch.Normalize(q.Name), coins, coinName)
	} else {
		i, _ = textmatch.Best(textmatch.Normalize(q.Symbol), coins, coinSymbol)
	}
	return model.Hit(model.MethodSearch, coins[i].match())
}

func (c Coin) match() model.Match {
	return model.Match{ID: c.ID, Symbol: c.Symbol, Name: c.Name}
}

func coinName(c Coin) string   { return c.Name }
func coinSymbol(c Coin) string { return c.Symbol }
