package service

import (
	"context"
	"fmt"

	"github.com/bookvault/server/internal/store"
)

// MFAService handles TOTP enrollment.
type MFAService struct {
	Store store.Store
	TOTP  *TOTPEngine
}

// EnableMFA generates a TOTP secret for the user, stores it and marks MFA
// enabled immediately. The returned URI is rendered as a QR code by the
// client. Note that enrollment is not gated on a first successful code, so a
// user who never scans the QR is locked out of future logins.
func (s *MFAService) EnableMFA(ctx context.Context, userID string) (string, error) {
	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	secret, uri, err := s.TOTP.GenerateSecret(user.Email)
	if err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}

	if err := s.Store.Users().UpdateMFA(ctx, user.ID, secret); err != nil {
		return "", fmt.Errorf("store secret: %w", err)
	}
	return uri, nil
}
