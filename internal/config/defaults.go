package config

import (
	"time"

	"github.com/rickgao/ico-resolver/internal/api"
	"github.com/rickgao/ico-resolver/internal/source/cmc"
	"github.com/rickgao/ico-resolver/internal/source/coingecko"
	"github.com/rickgao/ico-resolver/internal/source/coinpaprika"
	"github.com/rickgao/ico-resolver/internal/source/cryptototem"
	"github.com/rickgao/ico-resolver/internal/source/foundico"
)

// Source names accepted in sources.order.
const (
	SourceCoinGecko   = coingecko.Source
	SourceCMC         = cmc.Source
	SourceCoinPaprika = coinpaprika.Source
	SourceFoundico    = foundico.Source
	SourceCryptoTotem = cryptototem.Source
)

// KnownSources lists every catalog the resolver can consult.
var KnownSources = []string{SourceCoinGecko, SourceCMC, SourceCoinPaprika, SourceFoundico, SourceCryptoTotem}

// DefaultOrder is the cascade order when sources.order is empty.
var DefaultOrder = []string{SourceCoinGecko, SourceCMC, SourceCoinPaprika, SourceFoundico}

// Default values for optional configuration fields.
const (
	DefaultHTTPTimeout      = api.DefaultTimeout
	DefaultUserAgent        = "Mozilla/5.0 (compatible; TFM-ICO-Resolver/1.1; +https://example.local)"
	DefaultTable            = "unresolved_tokens"
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 4
	DefaultMinConns         = 1
	DefaultWorkers          = 1
	DefaultMetricsPath      = "/metrics"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultFoundicoMaxPages = foundico.DefaultMaxPages

	DefaultCoinGeckoURL   = coingecko.DefaultBaseURL
	DefaultCMCURL         = cmc.DefaultBaseURL
	DefaultCoinPaprikaURL = coinpaprika.DefaultBaseURL
	DefaultFoundicoURL    = foundico.DefaultBaseURL
	DefaultCryptoTotemURL = cryptototem.DefaultBaseURL

	DefaultCoinGeckoInterval   = coingecko.DefaultInterval
	DefaultCMCInterval         = cmc.DefaultInterval
	DefaultCoinPaprikaInterval = coinpaprika.DefaultInterval
	DefaultFoundicoInterval    = foundico.DefaultInterval
	DefaultCryptoTotemInterval = cryptototem.DefaultInterval
)

func (c *Config) applyDefaults() {
	// Output defaults
	if c.Output.Table == "" {
		c.Output.Table = DefaultTable
	}
	if c.Output.Postgres.Enabled() {
		applyDBDefaults(&c.Output.Postgres)
	}

	// HTTP defaults
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}

	// Source defaults
	if len(c.Sources.Order) == 0 {
		c.Sources.Order = append([]string(nil), DefaultOrder...)
	}
	applySourceDefaults(&c.Sources.CoinGecko, DefaultCoinGeckoURL, DefaultCoinGeckoInterval)
	applySourceDefaults(&c.Sources.CMC.SourceConfig, DefaultCMCURL, DefaultCMCInterval)
	applySourceDefaults(&c.Sources.CoinPaprika, DefaultCoinPaprikaURL, DefaultCoinPaprikaInterval)
	applySourceDefaults(&c.Sources.Foundico.SourceConfig, DefaultFoundicoURL, DefaultFoundicoInterval)
	applySourceDefaults(&c.Sources.CryptoTotem, DefaultCryptoTotemURL, DefaultCryptoTotemInterval)
	if c.Sources.Foundico.MaxPages == 0 {
		c.Sources.Foundico.MaxPages = DefaultFoundicoMaxPages
	}

	// Run defaults
	if c.Run.Workers == 0 {
		c.Run.Workers = DefaultWorkers
	}

	// Metrics defaults
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

func applySourceDefaults(s *SourceConfig, baseURL string, interval time.Duration) {
	if s.BaseURL == "" {
		s.BaseURL = baseURL
	}
	if s.Interval == 0 {
		s.Interval = interval
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
