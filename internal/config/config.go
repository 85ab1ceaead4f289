package config

import "time"

// Config is the root configuration for a resolver run.
type Config struct {
	Datasets []DatasetConfig `yaml:"datasets"`
	Output   OutputConfig    `yaml:"output"`
	HTTP     HTTPConfig      `yaml:"http"`
	Sources  SourcesConfig   `yaml:"sources"`
	Run      RunConfig       `yaml:"run"`
	Metrics  MetricsConfig   `yaml:"metrics"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// DatasetConfig names one input CSV.
type DatasetConfig struct {
	Name string `yaml:"name"` // Label written to source_dataset
	Path string `yaml:"path"`
}

// OutputConfig selects where unresolved records go. The CSV is always
// written; SQLite and Postgres are optional extra sinks.
type OutputConfig struct {
	Path       string   `yaml:"path"`
	SQLitePath string   `yaml:"sqlite_path"`
	Table      string   `yaml:"table"` // Table name for database sinks
	Postgres   DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection. An empty Host disables it.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether a database is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// HTTPConfig holds settings shared by every upstream client.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// SourcesConfig selects and tunes the catalogs.
type SourcesConfig struct {
	// Order is the cascade priority, highest first.
	Order []string `yaml:"order"`

	CoinGecko   SourceConfig   `yaml:"coingecko"`
	CMC         CMCConfig      `yaml:"cmc"`
	CoinPaprika SourceConfig   `yaml:"coinpaprika"`
	Foundico    FoundicoConfig `yaml:"foundico"`
	CryptoTotem SourceConfig   `yaml:"cryptototem"`
}

// SourceConfig holds the settings every catalog shares.
type SourceConfig struct {
	BaseURL string `yaml:"base_url"`
	// Interval is the minimum gap between requests. Negative disables
	// throttling.
	Interval time.Duration `yaml:"interval"`
}

// CMCConfig holds CoinMarketCap settings.
type CMCConfig struct {
	SourceConfig `yaml:",inline"`
	APIKey       string `yaml:"api_key"`
}

// FoundicoConfig holds Foundico settings.
type FoundicoConfig struct {
	SourceConfig `yaml:",inline"`
	PublicKey    string `yaml:"public_key"`
	PrivateKey   string `yaml:"private_key"`
	MaxPages     int    `yaml:"max_pages"`
}

// RunConfig holds execution settings.
type RunConfig struct {
	// Workers is the number of tokens resolved concurrently.
	Workers int `yaml:"workers"`
}

// MetricsConfig holds Prometheus metrics settings. An empty Addr disables
// the endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

// LoggingConfig holds slog handler settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}
