// Package partner talks to the optional partner-status backend. The backend
// may legitimately be absent: a missing endpoint or an unreachable host is a
// degraded-but-valid state, reported through StatusResult.APIUnavailable and
// ConvertResult.ManualUpdate rather than as errors.
package partner

import (
	"context"

	"github.com/berkvakar/athleticfinance-web/internal/models"
)

// StatusResult is the transient outcome of one status lookup. It is consumed
// once per submission and never persisted.
type StatusResult struct {
	Exists        bool
	IsPartner     bool
	Status        models.PartnerStatus
	UserID        string
	EmailVerified bool

	// APIUnavailable marks the deliberate fallback: the endpoint answered
	// 404 or could not be reached. The flow proceeds and defers duplicate
	// detection to the sign-up guard.
	APIUnavailable bool
}

// ConvertResult reports a conversion request. ManualUpdate marks the
// accepted inconsistency window: the application counts as submitted even
// though the backend state change was not confirmed, to be reconciled
// out of band.
type ConvertResult struct {
	Success      bool
	ManualUpdate bool
}

// Resolver is the partner-status capability consumed by the orchestrator.
type Resolver interface {
	// Resolve looks up the partner state for an email. A non-nil error is a
	// blocking failure (the backend answered, but badly); absence of the
	// backend is not an error.
	Resolve(ctx context.Context, email string) (*StatusResult, error)

	// ConvertToPending requests the none→pending transition. Absence of the
	// endpoint still reports Success with ManualUpdate set.
	ConvertToPending(ctx context.Context, email, userID string) (*ConvertResult, error)

	// NotifyAdmin announces a new application. Fire-and-forget: callers
	// ignore the returned error.
	NotifyAdmin(ctx context.Context, email, name, userID string) error
}
