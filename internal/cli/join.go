package cli

import (
	"context"
	"os"

	"github.com/berkvakar/athleticfinance-web/internal/onboarding"
)

// Join creates a member account: first and last name, email and password,
// then the verification sub-flow. Entering the command is what grants the
// join-access flag, mirroring the invite-style entry point of the site.
func (a *App) Join(ctx context.Context) error {
	a.gate.GrantJoinAccess(ctx)

	firstName, err := GetSimpleText(a.reader, "First name", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(a.reader, "Last name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.join.Submit(ctx, onboarding.Input{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
	})
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	a.printResult(res)
	return nil
}
