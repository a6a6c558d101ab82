package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authentication method reference values carried in the "amr" claim.
//
//	"pwd": password-based authentication
//	"otp": one-time password (TOTP)
//	"mfa": multi-factor auth was completed
const (
	AMRPassword = "pwd"
	AMROTP      = "otp"
	AMRMFA      = "mfa"
)

// Claims are the access-token claims used across the service. Keep changes
// additive to preserve compatibility with already-issued tokens.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the authenticated user ("user" or "admin").
	Role string `json:"role,omitempty"`

	// AMR lists how the subject authenticated. A token minted before the
	// MFA step carries ["pwd"]; after verification it carries
	// ["pwd","otp","mfa"].
	AMR []string `json:"amr,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for a session token.
func NewAccessClaims(
	subject, role string,
	amr []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role: role,
		AMR:  amr,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer against an expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
