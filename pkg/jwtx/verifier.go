package jwtx

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed covers any structural or signature failure. Callers must
	// treat it as fully untrusted, never as a partial result.
	ErrMalformed = errors.New("jwtx: malformed token")

	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
)

// Verifier validates JWTs signed with the service's Ed25519 key.
type Verifier struct {
	pub    ed25519.PublicKey
	issuer string
}

// NewVerifier creates a verifier for tokens signed by the given public key
// and carrying the given issuer claim.
func NewVerifier(pub ed25519.PublicKey, issuer string) *Verifier {
	return &Verifier{pub: pub, issuer: issuer}
}

// Verify validates the JWT string and returns its parsed claims. Expired
// tokens fail with ErrExpired; every other failure collapses to ErrMalformed.
func (v *Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.pub, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, ErrMalformed
	}
	if err := claims.ValidateExpiry(time.Now().UTC()); err != nil {
		if errors.Is(err, ErrExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrMalformed
	}

	return *claims, nil
}
