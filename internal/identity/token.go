package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/berkvakar/athleticfinance-web/internal/models"
)

// accountFromIDToken extracts account attributes from a Cognito ID token.
//
// The token arrived over TLS directly from the provider moments earlier, so
// the claims are read without signature verification; this is an attribute
// cache, not an authentication decision.
func accountFromIDToken(idToken string) (models.Account, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return models.Account{}, fmt.Errorf("parse id token: %w", err)
	}

	return models.Account{
		UserID:        claimString(claims, "sub"),
		Username:      claimString(claims, "cognito:username"),
		Email:         claimString(claims, attrEmail),
		Name:          claimString(claims, attrName),
		EmailVerified: claimBool(claims, attrEmailVerified),
		PartnerStatus: models.ParsePartnerStatus(claimString(claims, attrPartnerStatus)),
		PaidPlan:      claimString(claims, attrPaidPlan),
	}, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// claimBool accepts both the JSON boolean and the "true"/"false" string form
// Cognito uses for custom attributes.
func claimBool(claims jwt.MapClaims, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
