// Package session implements the browser-session analogue of the onboarding
// flow: a small key/value store holding navigation gate flags and the
// pending-verification record.
//
// All writes are best-effort. A storage failure (missing file, locked
// database, full disk) is logged and otherwise ignored; reads then degrade
// to "flag absent". Callers never see a storage error.
package session

import (
	"context"

	"github.com/berkvakar/athleticfinance-web/internal/models"
)

// Storage keys. Values are plain strings; boolean flags store "true".
const (
	keyJoinAccess      = "join_access_granted"
	keySignupComplete  = "signup_complete"
	keyPendingVerify   = "pending_verification"
	keyPendingUsername = "pending_username"
	keyPendingEmail    = "pending_email"
	keyLastEmail       = "last_email"
)

// Gate is the session gate consumed by the onboarding orchestrator and the
// CLI navigation layer. Flags are independent booleans: "the user explicitly
// chose to join" and "the user completed verification". They gate navigation
// without a live identity-provider check.
type Gate interface {
	// GrantJoinAccess records that the user explicitly chose to join.
	// Idempotent.
	GrantJoinAccess(ctx context.Context)

	// CanAccessJoin reports whether the join view may be shown. Defaults to
	// false when the flag was never set.
	CanAccessJoin(ctx context.Context) bool

	// MarkSignupComplete records successful verification.
	MarkSignupComplete(ctx context.Context)

	// CanAccessPlans reports whether the plans view may be shown. True only
	// after MarkSignupComplete.
	CanAccessPlans(ctx context.Context) bool

	// SetPendingVerification stores the outstanding confirmation-code record.
	// At most one exists per session; a second call replaces the first.
	SetPendingVerification(ctx context.Context, pv models.PendingVerification)

	// PendingVerification returns the stored record, if any.
	PendingVerification(ctx context.Context) (models.PendingVerification, bool)

	// ClearPendingVerification removes the record (successful verification
	// or explicit abandonment).
	ClearPendingVerification(ctx context.Context)

	// SetLastEmail remembers the email of the most recent submission.
	SetLastEmail(ctx context.Context, email string)

	// LastEmail returns the remembered email, or "".
	LastEmail(ctx context.Context) string

	// ClearAll wipes every flag and the pending-verification record.
	// Used on sign-out.
	ClearAll(ctx context.Context)
}
