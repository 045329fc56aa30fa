// Package config loads and validates the mcp-massive server configuration.
//
// Sources, in order of precedence: process environment, .env file
// (non-overriding), YAML config file. ${VAR} references in the YAML are
// expanded from the environment before parsing. The API key resolves from
// the config file or, when absent there, from MASSIVE_API_KEY.
package config
