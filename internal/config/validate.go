package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if len(c.Datasets) == 0 {
		return errors.New("at least one dataset is required")
	}
	seen := make(map[string]bool, len(c.Datasets))
	for i, ds := range c.Datasets {
		if ds.Name == "" {
			return fmt.Errorf("datasets[%d].name is required", i)
		}
		if ds.Path == "" {
			return fmt.Errorf("datasets[%d].path is required", i)
		}
		if seen[ds.Name] {
			return fmt.Errorf("datasets[%d].name %q is duplicated", i, ds.Name)
		}
		seen[ds.Name] = true
	}

	if c.Output.Path == "" {
		return errors.New("output.path is required")
	}
	if c.Output.Postgres.Enabled() {
		if err := c.Output.Postgres.validate("output.postgres"); err != nil {
			return err
		}
	}

	if c.HTTP.Timeout <= 0 {
		return errors.New("http.timeout must be > 0")
	}

	if len(c.Sources.Order) == 0 {
		return errors.New("sources.order must name at least one source")
	}
	used := make(map[string]bool, len(c.Sources.Order))
	for _, s := range c.Sources.Order {
		if !slices.Contains(KnownSources, s) {
			return fmt.Errorf("sources.order: unknown source %q", s)
		}
		if used[s] {
			return fmt.Errorf("sources.order: %q listed twice", s)
		}
		used[s] = true
	}
	if c.Sources.Foundico.MaxPages < 1 {
		return errors.New("sources.foundico.max_pages must be >= 1")
	}

	if c.Run.Workers < 1 {
		return errors.New("run.workers must be >= 1")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
