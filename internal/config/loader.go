package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted for empty credentials.
const (
	EnvCMCKey             = "CMC_API_KEY"
	EnvFoundicoPublicKey  = "FOUNDICO_PUBLIC_KEY"
	EnvFoundicoPrivateKey = "FOUNDICO_PRIVATE_KEY"
)

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Default returns a config with every default applied and no datasets.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Finalize fills empty credentials from the environment, applies defaults
// and validates. Call it after overlaying flags.
func (c *Config) Finalize() error {
	c.applyEnv()
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if c.Sources.CMC.APIKey == "" {
		c.Sources.CMC.APIKey = os.Getenv(EnvCMCKey)
	}
	if c.Sources.Foundico.PublicKey == "" {
		c.Sources.Foundico.PublicKey = os.Getenv(EnvFoundicoPublicKey)
	}
	if c.Sources.Foundico.PrivateKey == "" {
		c.Sources.Foundico.PrivateKey = os.Getenv(EnvFoundicoPrivateKey)
	}
}
