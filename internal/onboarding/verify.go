package onboarding

import (
	"context"

	"github.com/berkvakar/athleticfinance-web/internal/models"
)

const codeLength = 6

// Verify submits a confirmation code for the outstanding verification.
//
// A code of the wrong length is rejected locally, without a provider call.
// A wrong or expired code keeps the machine in VerificationRequired so the
// user can retry or resend. Success clears the pending record, marks the
// session's signup-complete flag, and tells the caller to advance to the
// plans view.
func (o *Orchestrator) Verify(ctx context.Context, code string) (*Result, error) {
	pending, ok := o.Pending()
	if !ok {
		return nil, ErrNoPendingVerification
	}

	if len(code) != codeLength {
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldCode: msgIncompleteCode},
		}, nil
	}

	gen, err := o.begin(StateVerifying)
	if err != nil {
		return nil, err
	}

	res, next := o.confirm(ctx, pending, code)
	o.finish(ctx, gen, next, nil)
	return res, nil
}

func (o *Orchestrator) confirm(ctx context.Context, pending models.PendingVerification, code string) (*Result, State) {
	ok, err := o.identity.ConfirmSignUp(ctx, pending.Username, code)
	if err != nil {
		o.log.Error(ctx, "verification call failed", "error", err)
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldCode: msgVerifyFailed},
		}, StateVerificationRequired
	}

	if !ok {
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldCode: msgInvalidCode},
		}, StateVerificationRequired
	}

	o.session.ClearPendingVerification(ctx)
	o.session.MarkSignupComplete(ctx)
	o.log.Info(ctx, "verification complete", "email", pending.Email)

	return &Result{Outcome: OutcomeVerified}, StateSuccess
}

// Resend re-issues the confirmation code for the outstanding verification.
// There is no client-side rate limiting; the provider's own throttling is
// the only guard.
func (o *Orchestrator) Resend(ctx context.Context) (*Result, error) {
	pending, ok := o.Pending()
	if !ok {
		return nil, ErrNoPendingVerification
	}

	if err := o.identity.ResendConfirmationCode(ctx, pending.Username); err != nil {
		o.log.Warn(ctx, "resend failed", "error", err)
		return &Result{
			Outcome:     OutcomeRejected,
			FieldErrors: FieldErrors{FieldCode: msgResendFailed},
		}, nil
	}

	return &Result{Outcome: OutcomeVerificationRequired, Message: msgCodeResent}, nil
}
