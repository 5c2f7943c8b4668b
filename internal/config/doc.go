// Package config loads runtime configuration for the onboarding CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), prefix AF_.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-r string   Cognito region
//	-p string   partner backend base URL
//	-d string   session database path
//	-t int      partner backend request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "10s" or integer nanoseconds:
//
//	{
//	  "cognito_region": "eu-north-1",
//	  "cognito_client_id": "abc123",
//	  "partner_api_base_url": "https://api.example.com",
//	  "request_timeout": "10s"
//	}
//
// Primary API
//
//   - type Config                       — all runtime settings
//   - func LoadConfig() (*Config, error) — builds Config by applying the sources in order
//   - func (*Config) LoadDefaults()     — sets sensible defaults
package config
