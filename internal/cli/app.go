package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/berkvakar/athleticfinance-web/internal/config"
	"github.com/berkvakar/athleticfinance-web/internal/identity"
	"github.com/berkvakar/athleticfinance-web/internal/logging"
	"github.com/berkvakar/athleticfinance-web/internal/models"
	"github.com/berkvakar/athleticfinance-web/internal/onboarding"
	"github.com/berkvakar/athleticfinance-web/internal/partner"
	"github.com/berkvakar/athleticfinance-web/internal/session"

	_ "modernc.org/sqlite"
)

// flowRunner is the slice of the onboarding orchestrator the CLI commands
// drive. The concrete orchestrator satisfies it; tests provide a stub.
type flowRunner interface {
	Submit(ctx context.Context, in onboarding.Input) (*onboarding.Result, error)
	Verify(ctx context.Context, code string) (*onboarding.Result, error)
	Resend(ctx context.Context) (*onboarding.Result, error)
	Restore(ctx context.Context) bool
	Reset(ctx context.Context)
	SignOut(ctx context.Context)
	State() onboarding.State
	Pending() (models.PendingVerification, bool)
}

type App struct {
	config  *config.Config
	gateway identity.Gateway
	gate    session.Gate
	join    flowRunner
	partner flowRunner
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := session.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing session database: %w", err)
	}

	gate := session.NewSQLiteGate(db, log)

	gateway, err := identity.NewCognitoGateway(ctx, identity.CognitoConfig{
		Region:          cfg.CognitoRegion,
		ClientID:        cfg.CognitoClientID,
		Endpoint:        cfg.CognitoEndpoint,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("initializing identity gateway: %w", err)
	}

	resolver := partner.NewHTTPResolver(cfg.PartnerAPIBaseURL, cfg.RequestTimeout, log)

	return &App{
		config:  cfg,
		gateway: gateway,
		gate:    gate,
		join:    onboarding.New(onboarding.FlowJoin, gateway, resolver, gate, log),
		partner: onboarding.New(onboarding.FlowPartner, gateway, resolver, gate, log),
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores any interrupted verification and hands off to the REPL.
func (a *App) Run(ctx context.Context) {
	if a.partner.Restore(ctx) {
		printlnFn("A verification is still pending. Type 'verify' to enter your code.")
	} else if a.join.Restore(ctx) {
		printlnFn("A verification is still pending. Type 'verify' to enter your code.")
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// active returns the flow that currently owns the verification sub-state,
// preferring whichever has a pending record.
func (a *App) active() flowRunner {
	if _, ok := a.partner.Pending(); ok {
		return a.partner
	}
	if _, ok := a.join.Pending(); ok {
		return a.join
	}
	return a.partner
}

func (a *App) status() string {
	s := ""
	if email := a.gate.LastEmail(context.Background()); email != "" {
		s = email + " "
	}
	if st := a.active().State(); st != onboarding.StateIdle {
		s += st.String()
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
