// Package identity wraps the remote identity provider behind a narrow
// gateway interface. Provider-specific failures are mapped into the typed
// error taxonomy in errors.go exactly once, at this boundary; callers branch
// with errors.Is and never inspect message text.
package identity

import (
	"context"

	"github.com/berkvakar/athleticfinance-web/internal/models"
)

// SignUpInput carries everything needed to create an account. The provider
// username is generated by the gateway; callers identify accounts by email.
type SignUpInput struct {
	Email    string
	Password string
	// Name is optional; the partner flow signs up without one.
	Name string
	// PaidPlan is an opaque passthrough attribute, "none" when empty.
	PaidPlan string
}

// SignUpResult reports the provider-assigned identifiers for a new account.
type SignUpResult struct {
	Username string
	UserID   string
	// Confirmed is true when the pool auto-confirms; the normal path is
	// false, followed by the verification sub-flow.
	Confirmed bool
}

// SignInResult reports the outcome of a credential check. SignedIn false with
// a NextStep means the provider wants an additional challenge; this client
// treats that as not signed in.
type SignInResult struct {
	SignedIn bool
	NextStep string
}

// AccountRef identifies the provider-side account of the current session.
type AccountRef struct {
	Username string
	UserID   string
}

// Gateway is the capability set the onboarding flow consumes.
type Gateway interface {
	// SignUp creates an account. Fails with ErrDuplicateAccount,
	// ErrWeakCredential, ErrAlreadyRegistered, ErrAlreadyPartner or
	// ErrProviderRejected; anything else is a transport failure.
	SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error)

	// ConfirmSignUp submits a confirmation code. A wrong or expired code
	// returns (false, nil); errors are reserved for transport failures.
	ConfirmSignUp(ctx context.Context, username, code string) (bool, error)

	// ResendConfirmationCode re-issues the code for an unconfirmed account.
	ResendConfirmationCode(ctx context.Context, username string) error

	// SignIn checks credentials. Fails with ErrInvalidCredential,
	// ErrAccountNotFound or ErrAccountNotVerified.
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)

	// SignOut ends the provider session. Best-effort: callers must not
	// treat a failure as fatal.
	SignOut(ctx context.Context, global bool) error

	// CurrentAccount returns the signed-in account, or (nil, nil) when no
	// session exists.
	CurrentAccount(ctx context.Context) (*AccountRef, error)

	// AccountAttributes returns the current account's attributes. It never
	// fails: on any problem it returns a zero-value Account.
	AccountAttributes(ctx context.Context) models.Account
}
