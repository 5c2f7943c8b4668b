package config

import "time"

// Config holds runtime settings for the Athletic Finance onboarding CLI.
//
// Fields:
//   - CognitoRegion / CognitoClientID: the user pool app client to sign up
//     against. CognitoEndpoint overrides the SDK endpoint, mainly for tests
//     and local emulators.
//   - AWSAccessKeyID / AWSSecretAccessKey: optional static credentials; the
//     public app client needs none.
//   - PartnerAPIBaseURL: base URL of the partner status backend.
//   - SessionDBPath: path of the local SQLite session database.
//   - RequestTimeout: per-request ceiling for partner backend calls.
type Config struct {
	CognitoRegion      string `env:"AF_COGNITO_REGION"`
	CognitoClientID    string `env:"AF_COGNITO_CLIENT_ID"`
	CognitoEndpoint    string `env:"AF_COGNITO_ENDPOINT"`
	AWSAccessKeyID     string `env:"AF_AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AF_AWS_SECRET_ACCESS_KEY"`

	PartnerAPIBaseURL string `env:"AF_PARTNER_API_BASE_URL"`
	SessionDBPath     string `env:"AF_SESSION_DB_PATH"`

	RequestTimeout time.Duration `env:"AF_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.CognitoRegion = "eu-north-1"
	c.PartnerAPIBaseURL = "http://localhost:3001/api"
	c.SessionDBPath = "onboarding.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
