package foundico

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rickgao/ico-resolver/internal/api"
	"github.com/rickgao/ico-resolver/internal/model"
	"github.com/rickgao/ico-resolver/internal/textmatch"
)

// NameThreshold is the minimum similarity for a fuzzy name match.
const NameThreshold = 0.88

// SkipLabel is reported in place of "False" when the key pair is missing.
const SkipLabel = "skipped_no_keys"

// Resolver scans Foundico's past ICO listing page by page.
type Resolver struct {
	client   *Client
	maxPages int
	logger   *slog.Logger
}

// New creates a Foundico resolver. maxPages <= 0 uses DefaultMaxPages.
func New(client *Client, maxPages int, logger *slog.Logger) *Resolver {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client:   client,
		maxPages: maxPages,
		logger:   logger,
	}
}

func (r *Resolver) Source() string { return Source }

// SkipLabel implements resolve.SkipReporter.
func (r *Resolver) SkipLabel() (string, bool) {
	return SkipLabel, !r.client.Enabled()
}

// Find pages through the listing. An exact ticker returns immediately; a
// name match is accepted after a page once the best score so far reaches
// NameThreshold. An empty page or a non-2xx status ends the scan as a miss.
func (r *Resolver) Find(ctx context.Context, q model.TokenQuery) (model.Result, error) {
	if !r.client.Enabled() {
		return model.Skip(model.MethodDisabled), nil
	}

	sym := textmatch.Normalize(q.Symbol)
	name := textmatch.Normalize(q.Name)

	var best ICO
	bestScore := 0.0

	for page := 1; page <= r.maxPages; page++ {
		items, err := r.client.ListICOs(ctx, StatusPast, page)
		if err != nil {
			var apiErr *api.APIError
			if errors.As(err, &apiErr) {
				return model.MissWithDetail(fmt.Sprintf("http_%d", apiErr.StatusCode)), nil
			}
			return model.Fail(err), nil
		}
		if len(items) == 0 {
			break
		}

		for _, it := range items {
			if sym != "" && textmatch.Normalize(it.Finance.Ticker) == sym {
				return model.Hit(model.MethodSymbolExact, it.match()), nil
			}
			if name != "" {
				if score := textmatch.Similarity(name, textmatch.Normalize(it.Main.Name)); score > bestScore {
					best, bestScore = it, score
				}
			}
		}

		if bestScore >= NameThreshold {
			return model.Hit(model.MethodNameFuzzy, best.match()), nil
		}
	}

	return model.Miss(), nil
}

func (i ICO) match() model.Match {
	return model.Match{
		ID:     string(i.ID),
		Symbol: i.Finance.Ticker,
		Name:   i.Main.Name,
		URL:    i.Links.URL,
	}
}
