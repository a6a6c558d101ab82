package jwtx

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs access-token claims with a single process-wide Ed25519 key.
// The key is loaded once at startup; rotation invalidates outstanding tokens.
type Signer struct {
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

// NewSigner loads an Ed25519 private key from PEM bytes (PKCS8).
func NewSigner(pemKey []byte) (*Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for Ed25519 key")
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q (Ed25519 requires PKCS8)", block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}

	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("jwtx: not an Ed25519 private key")
	}

	return &Signer{
		key: key,
		pub: key.Public().(ed25519.PublicKey),
	}, nil
}

// Sign turns claims into a signed compact JWT string.
func (s *Signer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.key)
}

// PublicKey returns the verification half of the signing key.
func (s *Signer) PublicKey() ed25519.PublicKey { return s.pub }

// Validate does a quick sanity check that key material is present.
func (s *Signer) Validate() error {
	if len(s.key) != ed25519.PrivateKeySize || len(s.pub) != ed25519.PublicKeySize {
		return errors.New("jwtx: invalid Ed25519 key material")
	}
	return nil
}
