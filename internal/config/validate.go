package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
// It does not require an API key; that check happens at startup where a
// missing key can be reported with resolution hints.
func (c *ServerConfig) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		return fmt.Errorf("server.transport must be one of stdio, sse, streamable-http, got %q", c.Server.Transport)
	}

	if c.Server.Transport != TransportStdio {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
		}
	}

	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if c.Ladder.Step <= 0 {
		return fmt.Errorf("ladder.step must be positive, got %v", c.Ladder.Step)
	}
	if c.Ladder.MinStrike < 0 {
		return errors.New("ladder.min_strike must be >= 0")
	}
	if c.Ladder.MaxStrike < c.Ladder.MinStrike {
		return errors.New("ladder.max_strike must be >= ladder.min_strike")
	}

	if c.Tunnel.Enabled && c.Server.Transport == TransportStdio {
		return errors.New("tunnel.enabled requires an HTTP transport")
	}

	return nil
}
