package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/berkvakar/athleticfinance-web/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-r string   Cognito region
//	-p string   partner backend base URL
//	-d string   session database path
//	-t int      partner backend request timeout in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-p", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.CognitoRegion, "r", cfg.CognitoRegion, "Cognito region")
	fs.StringVar(&cfg.PartnerAPIBaseURL, "p", cfg.PartnerAPIBaseURL, "partner backend base URL")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
