package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/berkvakar/athleticfinance-web/internal/flagx"
	"github.com/berkvakar/athleticfinance-web/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "10s" or as integer nanoseconds. Pointer fields distinguish "absent" from
// "set to the zero value" so a sparse file only overrides what it names.
type jsonConfig struct {
	CognitoRegion      *string         `json:"cognito_region"`
	CognitoClientID    *string         `json:"cognito_client_id"`
	CognitoEndpoint    *string         `json:"cognito_endpoint"`
	AWSAccessKeyID     *string         `json:"aws_access_key_id"`
	AWSSecretAccessKey *string         `json:"aws_secret_access_key"`
	PartnerAPIBaseURL  *string         `json:"partner_api_base_url"`
	SessionDBPath      *string         `json:"session_db_path"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

// parseJSON overlays cfg with values loaded from a JSON file. The file path
// comes from the -c or -config flag via flagx.JSONConfigFlags; when neither
// is given, nothing is loaded.
func parseJSON(cfg *Config) error {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if jc.CognitoRegion != nil {
		cfg.CognitoRegion = *jc.CognitoRegion
	}
	if jc.CognitoClientID != nil {
		cfg.CognitoClientID = *jc.CognitoClientID
	}
	if jc.CognitoEndpoint != nil {
		cfg.CognitoEndpoint = *jc.CognitoEndpoint
	}
	if jc.AWSAccessKeyID != nil {
		cfg.AWSAccessKeyID = *jc.AWSAccessKeyID
	}
	if jc.AWSSecretAccessKey != nil {
		cfg.AWSSecretAccessKey = *jc.AWSSecretAccessKey
	}
	if jc.PartnerAPIBaseURL != nil {
		cfg.PartnerAPIBaseURL = *jc.PartnerAPIBaseURL
	}
	if jc.SessionDBPath != nil {
		cfg.SessionDBPath = *jc.SessionDBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	return nil
}
