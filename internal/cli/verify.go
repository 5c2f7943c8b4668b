package cli

import (
	"context"
	"errors"
	"os"

	"github.com/berkvakar/athleticfinance-web/internal/onboarding"
)

// Verify prompts for the emailed confirmation code and submits it to the
// flow that owns the outstanding verification.
func (a *App) Verify(ctx context.Context) error {
	flow := a.active()
	if _, ok := flow.Pending(); !ok {
		printlnFn("Nothing to verify. Use 'join' or 'apply' first.")
		return nil
	}

	code, err := GetSimpleText(a.reader, "Verification code", os.Stdout)
	if err != nil {
		return err
	}

	res, err := flow.Verify(ctx, code)
	if err != nil {
		if errors.Is(err, onboarding.ErrNoPendingVerification) {
			printlnFn("Nothing to verify. Use 'join' or 'apply' first.")
			return nil
		}
		printlnFn(err.Error())
		return err
	}

	a.printResult(res)
	return nil
}

// Resend requests a fresh confirmation code for the outstanding verification.
func (a *App) Resend(ctx context.Context) error {
	res, err := a.active().Resend(ctx)
	if err != nil {
		if errors.Is(err, onboarding.ErrNoPendingVerification) {
			printlnFn("Nothing to verify. Use 'join' or 'apply' first.")
			return nil
		}
		printlnFn(err.Error())
		return err
	}

	a.printResult(res)
	return nil
}
