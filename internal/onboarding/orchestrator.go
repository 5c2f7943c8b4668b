package onboarding

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/berkvakar/athleticfinance-web/internal/identity"
	"github.com/berkvakar/athleticfinance-web/internal/logging"
	"github.com/berkvakar/athleticfinance-web/internal/models"
	"github.com/berkvakar/athleticfinance-web/internal/partner"
	"github.com/berkvakar/athleticfinance-web/internal/session"
)

// Orchestrator drives one form session through the onboarding state
// machine. It is the single writer of the session gate and of the
// pending-verification record.
//
// Concurrency: Submit/Verify are single-flight; a second call while one is
// outstanding fails with ErrInFlight. Reset and SignOut bump a generation
// counter; a result computed under an older generation is discarded instead
// of being applied to a session that has moved on.
type Orchestrator struct {
	flow     Flow
	identity identity.Gateway
	partner  partner.Resolver
	session  session.Gate
	log      logging.Logger

	mu       sync.Mutex
	inFlight bool
	gen      uint64
	state    State
	pending  *models.PendingVerification
}

func New(flow Flow, gw identity.Gateway, resolver partner.Resolver, gate session.Gate, log logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.Nop()
	}
	return &Orchestrator{
		flow:     flow,
		identity: gw,
		partner:  resolver,
		session:  gate,
		log:      log.With("flow", flow.String()),
	}
}

// State returns the current machine state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Pending returns the outstanding verification record, if any.
func (o *Orchestrator) Pending() (models.PendingVerification, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pending == nil {
		return models.PendingVerification{}, false
	}
	return *o.pending, true
}

// Restore re-enters VerificationRequired from a persisted record, e.g.
// after the process restarted mid-verification. Reports whether a record
// was found.
func (o *Orchestrator) Restore(ctx context.Context) bool {
	pv, ok := o.session.PendingVerification(ctx)
	if !ok {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = &pv
	o.state = StateVerificationRequired
	return true
}

// Reset abandons the current flow: the pending-verification record is
// dropped and any in-flight result will be discarded.
func (o *Orchestrator) Reset(ctx context.Context) {
	o.session.ClearPendingVerification(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	o.state = StateIdle
	o.pending = nil
}

// SignOut clears all session flags and ends the provider session.
// Provider failures are logged and swallowed; sign-out is best-effort.
func (o *Orchestrator) SignOut(ctx context.Context) {
	o.session.ClearAll(ctx)
	if err := o.identity.SignOut(ctx, true); err != nil {
		o.log.Warn(ctx, "provider sign-out failed", "error", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	o.state = StateIdle
	o.pending = nil
}

// Submit runs the submission ladder for the configured flow.
//
// Validation failures are returned immediately with field errors and no
// network traffic. Otherwise the machine moves to Submitting, the ladder
// runs, and the resulting state is applied unless the session was reset
// while the request was in flight.
func (o *Orchestrator) Submit(ctx context.Context, in Input) (*Result, error) {
	in = normalize(in)
	if errs := validate(o.flow, in); len(errs) > 0 {
		return &Result{Outcome: OutcomeRejected, FieldErrors: errs}, nil
	}

	gen, err := o.begin(StateSubmitting)
	if err != nil {
		return nil, err
	}

	var (
		res     *Result
		next    State
		pending *models.PendingVerification
	)
	if o.flow == FlowPartner {
		res, next, pending = o.submitPartner(ctx, in)
	} else {
		res, next, pending = o.signUp(ctx, in)
	}

	o.finish(ctx, gen, next, pending)
	return res, nil
}

// begin marks a request in flight and moves to next. Fails with ErrInFlight
// when another request is outstanding.
func (o *Orchestrator) begin(next State) (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return 0, ErrInFlight
	}
	o.inFlight = true
	o.state = next
	return o.gen, nil
}

// finish applies the outcome of a request, unless the generation moved on
// while it was in flight.
func (o *Orchestrator) finish(ctx context.Context, gen uint64, next State, pending *models.PendingVerification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false
	if gen != o.gen {
		o.log.Debug(ctx, "discarding stale result", "state", next.String())
		return
	}
	o.state = next
	if pending != nil {
		o.pending = pending
	}
}

// submitPartner is the partner-application ladder: status check first, then
// the branch that fits what the check said, with sign-up as the final
// fallback. First match wins.
func (o *Orchestrator) submitPartner(ctx context.Context, in Input) (*Result, State, *models.PendingVerification) {
	check, err := o.partner.Resolve(ctx, in.Email)
	if err != nil {
		o.log.Error(ctx, "partner status check failed", "error", err)
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldEmail: msgStatusCheckFailed},
		}, StateFailed, nil
	}

	if check.APIUnavailable {
		return o.degradedSignIn(ctx, in)
	}

	if check.Exists {
		if check.IsPartner && check.Status.Active() {
			return &Result{
				Outcome:     OutcomeRejected,
				FieldErrors: FieldErrors{FieldEmail: msgAlreadyPartner},
			}, StateFailed, nil
		}

		if check.Status.Pending() {
			return &Result{
				Outcome:     OutcomeRejected,
				FieldErrors: FieldErrors{FieldEmail: msgApplicationPending},
			}, StateFailed, nil
		}

		if !check.EmailVerified {
			return o.resendForExisting(ctx, in.Email, msgExistsUnverified)
		}

		// Exists, verified, not yet a partner: sign in and convert.
		return o.signInAndConvert(ctx, in, check.UserID)
	}

	return o.signUp(ctx, in)
}

// degradedSignIn covers the status backend being away: try the credentials
// first (an existing verified account converts silently), fall back to
// sign-up when the account does not exist.
func (o *Orchestrator) degradedSignIn(ctx context.Context, in Input) (*Result, State, *models.PendingVerification) {
	signIn, err := o.identity.SignIn(ctx, in.Email, in.Password)
	if err == nil && signIn.SignedIn {
		userID := in.Email
		if ref, refErr := o.identity.CurrentAccount(ctx); refErr == nil && ref != nil && ref.UserID != "" {
			userID = ref.UserID
		}

		convert, convErr := o.partner.ConvertToPending(ctx, in.Email, userID)
		if convErr == nil && convert.Success {
			o.notifyAdmin(ctx, in, userID)
			return &Result{Outcome: OutcomeSubmitted, Message: msgSubmitted}, StateSuccess, nil
		}

		o.log.Warn(ctx, "signed in but conversion failed", "error", convErr)
		return &Result{Outcome: OutcomeSignedIn}, StateSuccess, nil
	}

	switch {
	case errors.Is(err, identity.ErrInvalidCredential):
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldPassword: msgIncorrectPassword},
		}, StateFailed, nil
	case errors.Is(err, identity.ErrAccountNotVerified):
		return o.resendForExisting(ctx, in.Email, msgExistsUnverified)
	default:
		// Account not found, provider unreachable, or a challenge we do
		// not handle: proceed with sign-up and let its guard decide.
		o.log.Debug(ctx, "degraded sign-in did not complete, proceeding with sign-up", "error", err)
		return o.signUp(ctx, in)
	}
}

// signInAndConvert handles the existing verified non-partner account.
func (o *Orchestrator) signInAndConvert(ctx context.Context, in Input, userID string) (*Result, State, *models.PendingVerification) {
	signIn, err := o.identity.SignIn(ctx, in.Email, in.Password)
	if err != nil || !signIn.SignedIn {
		if errors.Is(err, identity.ErrInvalidCredential) {
			return &Result{
				Outcome:     OutcomeRejected,
				FieldErrors: FieldErrors{FieldPassword: msgIncorrectPassword},
			}, StateFailed, nil
		}
		o.log.Warn(ctx, "sign-in failed for existing account", "error", err)
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldPassword: msgSignInFailed},
		}, StateFailed, nil
	}

	if userID == "" {
		userID = in.Email
	}

	convert, err := o.partner.ConvertToPending(ctx, in.Email, userID)
	if err != nil || !convert.Success {
		o.log.Error(ctx, "conversion to pending partner failed", "error", err)
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldEmail: msgConvertFailed},
		}, StateFailed, nil
	}

	o.notifyAdmin(ctx, in, userID)
	return &Result{Outcome: OutcomeSubmitted, Message: msgSubmitted}, StateSuccess, nil
}

// signUp creates the account and enters the verification sub-flow.
func (o *Orchestrator) signUp(ctx context.Context, in Input) (*Result, State, *models.PendingVerification) {
	res, err := o.identity.SignUp(ctx, identity.SignUpInput{
		Email:    in.Email,
		Password: in.Password,
		Name:     fullName(in),
	})
	if err != nil {
		return o.mapSignUpError(ctx, in.Email, err)
	}

	pv := &models.PendingVerification{Username: res.Username, Email: in.Email}
	o.session.SetPendingVerification(ctx, *pv)
	o.session.SetLastEmail(ctx, in.Email)

	o.log.Info(ctx, "sign-up accepted, awaiting verification", "email", in.Email)
	return &Result{Outcome: OutcomeVerificationRequired}, StateVerificationRequired, pv
}

// mapSignUpError turns a typed gateway error into a field-level result.
// Every branch matches on the taxonomy, never on message text.
func (o *Orchestrator) mapSignUpError(ctx context.Context, email string, err error) (*Result, State, *models.PendingVerification) {
	switch {
	case errors.Is(err, identity.ErrAlreadyRegistered):
		// A verified account: never resend a code for this one.
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldEmail: msgExistsTryLogin},
		}, StateFailed, nil

	case errors.Is(err, identity.ErrAlreadyPartner):
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldEmail: msgAlreadyPartner},
		}, StateFailed, nil

	case errors.Is(err, identity.ErrProviderRejected):
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldEmail: msgSignupRejected},
		}, StateFailed, nil

	case errors.Is(err, identity.ErrDuplicateAccount):
		// Typically an unconfirmed account: resend and re-enter the
		// verification sub-flow.
		return o.resendForExisting(ctx, email, msgExistsCheckMail)

	case errors.Is(err, identity.ErrWeakCredential):
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldPassword: msgWeakPassword},
		}, StateFailed, nil

	default:
		o.log.Error(ctx, "sign-up failed", "error", err)
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldEmail: msgSignupFailed},
		}, StateFailed, nil
	}
}

// resendForExisting re-issues a confirmation code for an existing
// unconfirmed account and enters the verification sub-flow. failMsg is the
// email-field message shown when even the resend fails.
func (o *Orchestrator) resendForExisting(ctx context.Context, email, failMsg string) (*Result, State, *models.PendingVerification) {
	if err := o.identity.ResendConfirmationCode(ctx, email); err != nil {
		o.log.Warn(ctx, "resend for existing account failed", "error", err)
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldEmail: failMsg},
		}, StateFailed, nil
	}

	pv := &models.PendingVerification{Username: email, Email: email}
	o.session.SetPendingVerification(ctx, *pv)

	return &Result{Outcome: OutcomeVerificationRequired}, StateVerificationRequired, pv
}

// notifyAdmin is fire-and-forget; a failed notification never affects the
// submission outcome.
func (o *Orchestrator) notifyAdmin(ctx context.Context, in Input, userID string) {
	if err := o.partner.NotifyAdmin(ctx, in.Email, fullName(in), userID); err != nil {
		o.log.Debug(ctx, "admin notification dropped", "error", err)
	}
}

func fullName(in Input) string {
	return strings.TrimSpace(in.FirstName + " " + in.LastName)
}
