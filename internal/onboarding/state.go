// Package onboarding implements the account-onboarding and
// partner-conversion state machine. Given an email/password submission it
// decides the single next action (sign up, resend a code, sign in, convert
// to pending partner, reject) while reconciling state split between the
// identity provider and the local session gate.
package onboarding

import "errors"

// Flow selects which submission ladder Submit runs.
type Flow int

const (
	// FlowJoin is the plain sign-up flow: first/last name, email, password,
	// straight to the provider.
	FlowJoin Flow = iota

	// FlowPartner is the partnership application: email and password only,
	// with the partner-status branch ladder in front of any provider call.
	FlowPartner
)

func (f Flow) String() string {
	if f == FlowPartner {
		return "partner"
	}
	return "join"
}

// State of one form session.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateVerificationRequired
	StateVerifying
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateVerificationRequired:
		return "verification-required"
	case StateVerifying:
		return "verifying"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Field names for field-scoped errors.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
	FieldCode      Field = "code"
)

// FieldErrors maps a field to a single user-facing message.
type FieldErrors map[Field]string

// Input is one form submission. Email and names are trimmed before
// validation; passwords never are.
type Input struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Outcome is what the caller should do after a Submit or Verify.
type Outcome int

const (
	// OutcomeRejected: field-scoped errors; show them and stay on the form.
	OutcomeRejected Outcome = iota

	// OutcomeVerificationRequired: a confirmation code is on its way; show
	// the code entry view.
	OutcomeVerificationRequired

	// OutcomeSubmitted: the partnership application was submitted.
	OutcomeSubmitted

	// OutcomeSignedIn: credentials checked out but no application was
	// recorded (degraded path); nothing further for the user to do here.
	OutcomeSignedIn

	// OutcomeVerified: verification completed; advance past the gate to
	// the plans view.
	OutcomeVerified
)

// Result of one Submit/Verify/Resend call.
type Result struct {
	Outcome     Outcome
	Message     string
	FieldErrors FieldErrors
}

// ErrInFlight is returned when a Submit or Verify is attempted while a
// previous one has not finished. The submit affordance should be disabled
// for the duration; this error is the backstop.
var ErrInFlight = errors.New("a submission is already in flight")

// ErrNoPendingVerification is returned by Verify/Resend when no
// confirmation code is outstanding.
var ErrNoPendingVerification = errors.New("no pending verification")

// User-facing message catalog.
const (
	msgEmailRequired     = "Valid email is required"
	msgFirstNameRequired = "First name is required"
	msgLastNameRequired  = "Last name is required"
	msgPasswordLength    = "Password must be at least 8 characters"
	msgPasswordDigit     = "Password must include at least one number"
	msgPasswordSpecial   = "Password must include at least one special character"

	msgAlreadyPartner     = "You are already an AF Partner. Please sign in instead."
	msgApplicationPending = "Your partnership application is still pending admin approval. Please wait for approval or contact support."
	msgStatusCheckFailed  = "Unable to verify account status. Please try again later."
	msgSubmitted          = "Partnership application submitted! Your application is pending admin approval."
	msgConvertFailed      = "Signed in successfully, but failed to submit partnership application. Please try again or contact support."

	msgExistsUnverified = "An account with this email exists but is not verified. Please check your email for verification code."
	msgExistsCheckMail  = "An account with this email already exists. Please check your email for verification code."
	msgExistsTryLogin   = "An account with this email already exists. Please try logging in instead."
	msgSignupRejected   = "Signup failed. Please try again or contact support."
	msgSignupFailed     = "Sign up failed, please try again"
	msgWeakPassword     = "Password does not meet requirements."

	msgIncorrectPassword = "Incorrect password. Please try again."
	msgSignInFailed      = "Sign in failed. Please try again."

	msgIncompleteCode = "Please enter a complete 6-digit code"
	msgInvalidCode    = "Invalid or expired code. Please try again."
	msgVerifyFailed   = "Verification failed. Please check your code and try again."
	msgResendFailed   = "Failed to resend code. Please try again."
	msgCodeResent     = "New verification code sent to your email!"
)
