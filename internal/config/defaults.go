package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultTransport    = TransportStdio
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 8010
	DefaultBaseURL      = "https://api.massive.com"
	DefaultAPITimeout   = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultLadderStep   = 0.5
	DefaultMinStrike    = 0.5
	DefaultMaxStrike    = 10.0
	DefaultTunnelBinary = "ngrok"
)

func (c *ServerConfig) applyDefaults() {
	if c.Server.Transport == "" {
		c.Server.Transport = DefaultTransport
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	if c.Ladder.Step == 0 {
		c.Ladder.Step = DefaultLadderStep
	}
	if c.Ladder.MinStrike == 0 {
		c.Ladder.MinStrike = DefaultMinStrike
	}
	if c.Ladder.MaxStrike == 0 {
		c.Ladder.MaxStrike = DefaultMaxStrike
	}

	if c.Tunnel.Binary == "" {
		c.Tunnel.Binary = DefaultTunnelBinary
	}
}
