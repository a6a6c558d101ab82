package service

import (
	"time"

	"github.com/bookvault/server/internal/domain"
	"github.com/bookvault/server/pkg/jwtx"
)

// TokenService issues and verifies the Ed25519-signed access tokens returned
// by login, MFA verification and refresh.
type TokenService struct {
	Signer   *jwtx.Signer
	Verifier *jwtx.Verifier
	Issuer   string
	TTL      time.Duration
}

// Issue signs a new access token for the user carrying the given
// authentication methods.
func (s *TokenService) Issue(user domain.User, amr []string) (string, error) {
	claims := jwtx.NewAccessClaims(user.ID, string(user.Role), amr, s.TTL, s.Issuer, time.Now())
	return s.Signer.Sign(claims)
}

// Verify parses and validates a raw token string.
func (s *TokenService) Verify(raw string) (jwtx.Claims, error) {
	return s.Verifier.Verify(raw)
}

// Refresh exchanges a currently valid token for a new one with a fresh
// expiry. The subject, role and authentication methods carry over.
func (s *TokenService) Refresh(raw string) (string, error) {
	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		return "", err
	}
	next := jwtx.NewAccessClaims(claims.Subject, claims.Role, claims.AMR, s.TTL, s.Issuer, time.Now())
	return s.Signer.Sign(next)
}

// TTLSeconds reports the access token lifetime in whole seconds, as returned
// in the expires_in field.
func (s *TokenService) TTLSeconds() int {
	return int(s.TTL / time.Second)
}
