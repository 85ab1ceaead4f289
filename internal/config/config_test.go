package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
datasets:
  - name: zenodo_fahlenbrach
    path: data/zenodo.csv
  - name: kaggle_yanmaksi
    path: data/yan.csv
output:
  path: out/unresolved.csv
  sqlite_path: out/unresolved.db
sources:
  order: [coingecko, cryptototem]
  coingecko:
    base_url: http://localhost:9000
    interval: 100ms
  foundico:
    max_pages: 3
run:
  workers: 4
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Datasets) != 2 || cfg.Datasets[1].Name != "kaggle_yanmaksi" {
		t.Errorf("Datasets = %+v", cfg.Datasets)
	}
	if cfg.Output.SQLitePath != "out/unresolved.db" {
		t.Errorf("Output.SQLitePath = %q, want %q", cfg.Output.SQLitePath, "out/unresolved.db")
	}
	if want := []string{"coingecko", "cryptototem"}; !reflect.DeepEqual(cfg.Sources.Order, want) {
		t.Errorf("Sources.Order = %v, want %v", cfg.Sources.Order, want)
	}
	if cfg.Sources.CoinGecko.BaseURL != "http://localhost:9000" {
		t.Errorf("Sources.CoinGecko.BaseURL = %q", cfg.Sources.CoinGecko.BaseURL)
	}
	if cfg.Sources.CoinGecko.Interval != 100*time.Millisecond {
		t.Errorf("Sources.CoinGecko.Interval = %v, want 100ms", cfg.Sources.CoinGecko.Interval)
	}
	if cfg.Sources.Foundico.MaxPages != 3 {
		t.Errorf("Sources.Foundico.MaxPages = %d, want 3", cfg.Sources.Foundico.MaxPages)
	}
	if cfg.Run.Workers != 4 {
		t.Errorf("Run.Workers = %d, want 4", cfg.Run.Workers)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_CMC_KEY", "secret123")
	t.Setenv("TEST_FOUNDICO_PUB", "pub-abc")

	yaml := `
sources:
  cmc:
    api_key: ${TEST_CMC_KEY}
  foundico:
    public_key: ${TEST_FOUNDICO_PUB}
    interval: 1s
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Sources.CMC.APIKey != "secret123" {
		t.Errorf("Sources.CMC.APIKey = %q, want %q", cfg.Sources.CMC.APIKey, "secret123")
	}
	if cfg.Sources.Foundico.PublicKey != "pub-abc" {
		t.Errorf("Sources.Foundico.PublicKey = %q, want %q", cfg.Sources.Foundico.PublicKey, "pub-abc")
	}
	if cfg.Sources.Foundico.Interval != time.Second {
		t.Errorf("Sources.Foundico.Interval = %v, want 1s (inline field)", cfg.Sources.Foundico.Interval)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
datasets:
  - name: icpsr_villanueva
    path: icpsr.csv
output:
  path: out.csv
  postgres:
    host: localhost
    name: research
    user: analyst
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if !reflect.DeepEqual(cfg.Sources.Order, DefaultOrder) {
		t.Errorf("Sources.Order = %v, want default %v", cfg.Sources.Order, DefaultOrder)
	}
	if cfg.HTTP.Timeout != DefaultHTTPTimeout {
		t.Errorf("HTTP.Timeout = %v, want default %v", cfg.HTTP.Timeout, DefaultHTTPTimeout)
	}
	if cfg.HTTP.UserAgent != DefaultUserAgent {
		t.Errorf("HTTP.UserAgent = %q, want default", cfg.HTTP.UserAgent)
	}
	if cfg.Sources.CMC.BaseURL != DefaultCMCURL {
		t.Errorf("Sources.CMC.BaseURL = %q, want default %q", cfg.Sources.CMC.BaseURL, DefaultCMCURL)
	}
	if cfg.Sources.CryptoTotem.Interval != DefaultCryptoTotemInterval {
		t.Errorf("Sources.CryptoTotem.Interval = %v, want default %v", cfg.Sources.CryptoTotem.Interval, DefaultCryptoTotemInterval)
	}
	if cfg.Sources.Foundico.MaxPages != DefaultFoundicoMaxPages {
		t.Errorf("Sources.Foundico.MaxPages = %d, want default %d", cfg.Sources.Foundico.MaxPages, DefaultFoundicoMaxPages)
	}
	if cfg.Output.Postgres.Port != DefaultDBPort {
		t.Errorf("Output.Postgres.Port = %d, want default %d", cfg.Output.Postgres.Port, DefaultDBPort)
	}
	if cfg.Output.Table != DefaultTable {
		t.Errorf("Output.Table = %q, want default %q", cfg.Output.Table, DefaultTable)
	}
	if cfg.Run.Workers != DefaultWorkers {
		t.Errorf("Run.Workers = %d, want default %d", cfg.Run.Workers, DefaultWorkers)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestDefaultLeavesPostgresDisabled(t *testing.T) {
	cfg := Default()
	if cfg.Output.Postgres.Enabled() {
		t.Error("Output.Postgres.Enabled() = true, want false")
	}
	if cfg.Output.Postgres.Port != 0 {
		t.Errorf("Output.Postgres.Port = %d, want 0 when disabled", cfg.Output.Postgres.Port)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeTempFile(t, "datasets: [unterminated")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config yaml") {
		t.Errorf("err = %v, want parse error", err)
	}
}

func TestFinalize(t *testing.T) {
	t.Setenv(EnvCMCKey, "env-cmc")
	t.Setenv(EnvFoundicoPublicKey, "env-pub")
	t.Setenv(EnvFoundicoPrivateKey, "env-priv")

	cfg := &Config{
		Datasets: []DatasetConfig{{Name: "zenodo_fahlenbrach", Path: "z.csv"}},
		Output:   OutputConfig{Path: "out.csv"},
	}
	cfg.Sources.CMC.APIKey = "flag-cmc"

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if cfg.Sources.CMC.APIKey != "flag-cmc" {
		t.Errorf("CMC.APIKey = %q, explicit value should win over env", cfg.Sources.CMC.APIKey)
	}
	if cfg.Sources.Foundico.PublicKey != "env-pub" || cfg.Sources.Foundico.PrivateKey != "env-priv" {
		t.Errorf("Foundico keys = %q/%q, want env values", cfg.Sources.Foundico.PublicKey, cfg.Sources.Foundico.PrivateKey)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Datasets = []DatasetConfig{{Name: "zenodo_fahlenbrach", Path: "z.csv"}}
		cfg.Output.Path = "out.csv"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "no datasets",
			mutate:  func(c *Config) { c.Datasets = nil },
			wantErr: "at least one dataset is required",
		},
		{
			name:    "dataset without path",
			mutate:  func(c *Config) { c.Datasets[0].Path = "" },
			wantErr: "datasets[0].path is required",
		},
		{
			name: "duplicate dataset",
			mutate: func(c *Config) {
				c.Datasets = append(c.Datasets, DatasetConfig{Name: "zenodo_fahlenbrach", Path: "other.csv"})
			},
			wantErr: `datasets[1].name "zenodo_fahlenbrach" is duplicated`,
		},
		{
			name:    "missing output",
			mutate:  func(c *Config) { c.Output.Path = "" },
			wantErr: "output.path is required",
		},
		{
			name:    "unknown source",
			mutate:  func(c *Config) { c.Sources.Order = []string{"coingecko", "binance"} },
			wantErr: `sources.order: unknown source "binance"`,
		},
		{
			name:    "repeated source",
			mutate:  func(c *Config) { c.Sources.Order = []string{"cmc", "cmc"} },
			wantErr: `sources.order: "cmc" listed twice`,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Run.Workers = 0 },
			wantErr: "run.workers must be >= 1",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: `logging.format must be text or json, got "xml"`,
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Output.Postgres = DBConfig{Host: "localhost", Name: "db", User: "user", MaxConns: 2, MinConns: 5}
			},
			wantErr: "output.postgres.min_conns (5) cannot exceed max_conns (2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
