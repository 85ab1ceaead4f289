package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/ico-resolver/internal/api"
	"github.com/rickgao/ico-resolver/internal/auth"
	"github.com/rickgao/ico-resolver/internal/config"
	"github.com/rickgao/ico-resolver/internal/database"
	"github.com/rickgao/ico-resolver/internal/ratelimit"
	"github.com/rickgao/ico-resolver/internal/report"
	"github.com/rickgao/ico-resolver/internal/resolve"
	"github.com/rickgao/ico-resolver/internal/source/cmc"
	"github.com/rickgao/ico-resolver/internal/source/coingecko"
	"github.com/rickgao/ico-resolver/internal/source/coinpaprika"
	"github.com/rickgao/ico-resolver/internal/source/cryptototem"
	"github.com/rickgao/ico-resolver/internal/source/foundico"
)

func newLogger(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("logging.format: unknown format %q", cfg.Format)
	}
}

// newRESTClient builds the shared REST client for one catalog with its own
// request gate.
func newRESTClient(name string, src config.SourceConfig, httpCfg config.HTTPConfig, logger *slog.Logger) *api.Client {
	return api.NewClient(name, src.BaseURL,
		api.WithTimeout(httpCfg.Timeout),
		api.WithUserAgent(httpCfg.UserAgent),
		api.WithLimiter(ratelimit.Every(src.Interval)),
		api.WithLogger(logger.With("source", name)),
	)
}

// buildResolvers creates one resolver per entry of sources.order.
func buildResolvers(cfg *config.Config, logger *slog.Logger) ([]resolve.Resolver, error) {
	src := cfg.Sources
	resolvers := make([]resolve.Resolver, 0, len(src.Order))

	for _, name := range src.Order {
		var r resolve.Resolver
		switch name {
		case config.SourceCoinGecko:
			rest := newRESTClient(name, src.CoinGecko, cfg.HTTP, logger)
			r = coingecko.New(coingecko.NewClient(rest), logger)

		case config.SourceCMC:
			rest := newRESTClient(name, src.CMC.SourceConfig, cfg.HTTP, logger)
			r = cmc.New(cmc.NewClient(rest, src.CMC.APIKey), logger)

		case config.SourceCoinPaprika:
			rest := newRESTClient(name, src.CoinPaprika, cfg.HTTP, logger)
			r = coinpaprika.New(coinpaprika.NewClient(rest), logger)

		case config.SourceFoundico:
			creds, err := auth.NewCredentials(src.Foundico.PublicKey, src.Foundico.PrivateKey)
			if err != nil && !errors.Is(err, auth.ErrMissingKeys) {
				return nil, fmt.Errorf("foundico credentials: %w", err)
			}
			rest := newRESTClient(name, src.Foundico.SourceConfig, cfg.HTTP, logger)
			r = foundico.New(foundico.NewClient(rest, creds), src.Foundico.MaxPages, logger)

		case config.SourceCryptoTotem:
			rest := newRESTClient(name, src.CryptoTotem, cfg.HTTP, logger)
			r = cryptototem.New(rest, logger)

		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
		resolvers = append(resolvers, r)
	}
	return resolvers, nil
}

// buildSinks returns the report sinks in write order. The CSV sink always
// comes first. The returned func releases any database connections.
func buildSinks(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]report.Sink, func(), error) {
	sinks := []report.Sink{&report.CSVSink{Path: cfg.Output.Path}}
	closeFn := func() {}

	if cfg.Output.SQLitePath != "" {
		s, err := report.NewSQLiteSink(cfg.Output.SQLitePath, cfg.Output.Table)
		if err != nil {
			return nil, closeFn, fmt.Errorf("sqlite sink: %w", err)
		}
		sinks = append(sinks, s)
	}

	if pg := cfg.Output.Postgres; pg.Enabled() {
		logger.Info("connecting to database",
			"host", pg.Host,
			"port", pg.Port,
			"database", pg.Name,
		)
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		pool, err := database.Connect(connectCtx, pg)
		if err != nil {
			return nil, closeFn, err
		}
		s, err := report.NewPostgresSink(pool, cfg.Output.Table)
		if err != nil {
			pool.Close()
			return nil, closeFn, fmt.Errorf("postgres sink: %w", err)
		}
		sinks = append(sinks, s)
		closeFn = pool.Close
		logger.Info("database connected")
	}

	return sinks, closeFn, nil
}
