package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadDotenv loads KEY=VALUE pairs from a .env file if it exists.
// Variables already present in the process environment win. A missing
// file is not an error; the environment alone is a valid configuration
// source.
func LoadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg ServerConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config and applies environment fallbacks and
// default values.
func LoadWithDefaults(path string) (*ServerConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*ServerConfig, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Default returns a configuration built from defaults and the
// environment only, for running without a config file.
func Default() *ServerConfig {
	cfg := &ServerConfig{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

// applyEnv fills fields the config file left empty from well-known
// environment variables.
func (c *ServerConfig) applyEnv() {
	if c.API.Key == "" {
		c.API.Key = os.Getenv("MASSIVE_API_KEY")
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = os.Getenv("MASSIVE_BASE_URL")
	}
}
