// Package models contains domain types shared by the onboarding client:
// partner status values, account attributes, and the pending-verification
// record held while a confirmation code is outstanding.
package models

import "strings"

// PartnerStatus is the partner state of an account as stored in the identity
// provider's custom attribute. The wire values are "false" (not a partner),
// "pending" (application awaiting admin approval) and "true" (active
// partner). An absent attribute means not a partner.
type PartnerStatus string

const (
	PartnerStatusNone    PartnerStatus = "false"
	PartnerStatusPending PartnerStatus = "pending"
	PartnerStatusActive  PartnerStatus = "true"
)

// ParsePartnerStatus normalizes a raw attribute or API value. Unknown or
// empty values map to PartnerStatusNone.
func ParsePartnerStatus(s string) PartnerStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return PartnerStatusPending
	case "true", "active":
		return PartnerStatusActive
	default:
		return PartnerStatusNone
	}
}

// Active reports whether the account is an approved partner.
func (s PartnerStatus) Active() bool { return s == PartnerStatusActive }

// Pending reports whether a partnership application is awaiting approval.
func (s PartnerStatus) Pending() bool { return s == PartnerStatusPending }

// Account is the provider-owned view of a user, as exposed through the
// identity gateway. Credentials never appear here; the provider owns them.
type Account struct {
	UserID        string
	Username      string
	Email         string
	Name          string
	EmailVerified bool
	PartnerStatus PartnerStatus
	// PaidPlan is an opaque passthrough attribute; the onboarding flow
	// records it at sign-up but never branches on it.
	PaidPlan string
}

// PendingVerification is the ephemeral record kept while a confirmation code
// is outstanding. At most one exists per session; it is destroyed on
// successful verification or explicit abandonment.
type PendingVerification struct {
	Username string
	Email    string
}
