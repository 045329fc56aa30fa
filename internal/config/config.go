package config

import "time"

// Supported MCP transports.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// ServerConfig is the root configuration for an mcp-massive instance.
type ServerConfig struct {
	Server  ListenConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	Ladder  LadderConfig  `yaml:"ladder"`
	Tunnel  TunnelConfig  `yaml:"tunnel"`
	Options OptionsConfig `yaml:"options"`
}

// ListenConfig selects the MCP transport and, for the HTTP transports,
// the listen address.
type ListenConfig struct {
	Transport string `yaml:"transport"` // stdio, sse, or streamable-http
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
}

// APIConfig holds upstream Massive API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Key        string        `yaml:"key"` // usually ${MASSIVE_API_KEY}
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// LadderConfig holds default strike ladder bounds used when a tool call
// supplies no filters.
type LadderConfig struct {
	Step      float64 `yaml:"step"`
	MinStrike float64 `yaml:"min_strike"`
	MaxStrike float64 `yaml:"max_strike"`
}

// TunnelConfig holds ngrok tunnel settings for the HTTP transports.
type TunnelConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Binary    string   `yaml:"binary"`
	Domain    string   `yaml:"domain"` // reserved ngrok domain, optional
	ExtraArgs []string `yaml:"extra_args"`
}

// OptionsConfig holds codec policy switches.
type OptionsConfig struct {
	// StrictCalendar rejects expiration dates that are well-formed but
	// not real calendar dates (e.g. month 13) at the tool boundary. Off
	// by default to match upstream behavior.
	StrictCalendar bool `yaml:"strict_calendar"`
}
