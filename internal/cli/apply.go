package cli

import (
	"context"
	"os"

	"github.com/berkvakar/athleticfinance-web/internal/onboarding"
)

// Apply submits a partnership application: email and password, then
// whatever branch the account's current status calls for.
func (a *App) Apply(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.partner.Submit(ctx, onboarding.Input{Email: email, Password: password})
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	a.printResult(res)
	return nil
}

// printResult renders an onboarding result for the terminal.
func (a *App) printResult(res *onboarding.Result) {
	for field, msg := range res.FieldErrors {
		printlnFn(string(field)+":", msg)
	}
	if res.Message != "" {
		printlnFn(res.Message)
	}

	switch res.Outcome {
	case onboarding.OutcomeVerificationRequired:
		printlnFn("Check your email for a 6-digit code, then type 'verify'.")
	case onboarding.OutcomeVerified:
		printlnFn("Email verified! Type 'plans' to choose a plan.")
	case onboarding.OutcomeSignedIn:
		printlnFn("Signed in.")
	}
}
