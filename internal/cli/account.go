package cli

import (
	"context"
)

// Plans opens the plans view. It is gated on a completed signup, the same
// way the site only routes to plan selection after email verification.
func (a *App) Plans(ctx context.Context) error {
	if !a.gate.CanAccessPlans(ctx) {
		printlnFn("Plans are available after you verify your email. Use 'join' or 'apply' first.")
		return nil
	}

	printlnFn("Plans:")
	printlnFn("  starter  - free")
	printlnFn("  pro      - full partner toolkit")
	return nil
}

// WhoAmI shows the signed-in account, if any.
func (a *App) WhoAmI(ctx context.Context) error {
	ref, err := a.gateway.CurrentAccount(ctx)
	if err != nil {
		printlnFn("Could not reach the identity provider:", err.Error())
		return err
	}
	if ref == nil {
		printlnFn("Not signed in.")
		return nil
	}

	acct := a.gateway.AccountAttributes(ctx)
	printlnFn("Signed in as", acct.Email)
	if acct.Name != "" {
		printlnFn("Name:", acct.Name)
	}
	if acct.PartnerStatus.Active() {
		printlnFn("Partner: active")
	} else if acct.PartnerStatus.Pending() {
		printlnFn("Partner: application pending")
	}
	return nil
}

// SignOut clears the session flags and ends the provider session.
func (a *App) SignOut(ctx context.Context) error {
	a.partner.SignOut(ctx)
	a.join.Reset(ctx)
	printlnFn("Signed out.")
	return nil
}

// Reset abandons whichever flow is in progress.
func (a *App) Reset(ctx context.Context) error {
	a.join.Reset(ctx)
	a.partner.Reset(ctx)
	printlnFn("Flow reset.")
	return nil
}
