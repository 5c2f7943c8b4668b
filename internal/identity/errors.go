package identity

import "errors"

// Sentinel errors forming the gateway's fixed taxonomy. Callers match with
// errors.Is; the concrete gateway maps provider-specific failures onto these
// exactly once.
var (
	// ErrDuplicateAccount: the identity already exists, possibly unconfirmed.
	// The caller may attempt a confirmation-code resend.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrAlreadyRegistered: the pre-registration hook vetoed sign-up because
	// a verified account exists. Never resend a code for this one.
	ErrAlreadyRegistered = errors.New("account already exists and is verified")

	// ErrAlreadyPartner: the pre-registration hook reports an active partner.
	ErrAlreadyPartner = errors.New("account is already an active partner")

	// ErrProviderRejected: the pre-registration hook vetoed sign-up for some
	// other reason.
	ErrProviderRejected = errors.New("sign-up rejected by provider")

	// ErrWeakCredential: the password fails the provider's policy.
	ErrWeakCredential = errors.New("password does not meet requirements")

	// ErrInvalidCredential: wrong password for an existing account.
	ErrInvalidCredential = errors.New("incorrect email or password")

	// ErrAccountNotFound: no account for the given identity.
	ErrAccountNotFound = errors.New("account does not exist")

	// ErrAccountNotVerified: the account exists but its email is
	// unconfirmed; sign-in is refused until verification completes.
	ErrAccountNotVerified = errors.New("account is not verified")

	// ErrUnavailable: the provider could not be reached. Non-fatal for
	// flows that define a degraded path.
	ErrUnavailable = errors.New("identity provider unavailable")
)
