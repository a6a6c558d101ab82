package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookvault/server/internal/domain"
	"github.com/bookvault/server/internal/metrics"
	"github.com/bookvault/server/internal/store"
	"github.com/bookvault/server/pkg/cryptox"
	"github.com/bookvault/server/pkg/idx"
	"github.com/bookvault/server/pkg/jwtx"
)

// AuthService covers registration, login, the MFA verification step and
// account maintenance.
type AuthService struct {
	Store    store.Store
	Tokens   *TokenService
	TOTP     *TOTPEngine
	Throttle *LoginThrottle
}

// Session is the result of a successful authentication step.
type Session struct {
	AccessToken string
	ExpiresIn   int
	MFARequired bool
	User        domain.User
}

// Register creates a new account and returns an immediately usable session.
// All new accounts get the "user" role.
func (s *AuthService) Register(ctx context.Context, name, email, password, confirmation string) (Session, error) {
	fields := make(map[string]string)
	validateName(name, fields)
	validateEmail("email", email, fields)
	validatePassword("password", password, confirmation, fields)
	if len(fields) > 0 {
		return Session{}, &ValidationError{Fields: fields}
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetByEmail(ctx, user.Email); err == nil {
			return store.ErrAlreadyExists
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Users().Create(ctx, user)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return Session{}, &ValidationError{Fields: map[string]string{
			"email": "has already been taken",
		}}
	}
	if err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	metrics.Registrations.Inc()

	token, err := s.Tokens.Issue(user, []string{jwtx.AMRPassword})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{
		AccessToken: token,
		ExpiresIn:   s.Tokens.TTLSeconds(),
		User:        user,
	}, nil
}

// Login verifies credentials with brute-force throttling by email/address
// pair. When the account has MFA enabled the returned session is marked
// MFARequired and its token carries only the "pwd" method; it must be
// upgraded via VerifyMFA.
func (s *AuthService) Login(ctx context.Context, email, password, clientAddr string) (Session, error) {
	key := ThrottleKey(email, clientAddr)
	if retry, ok := s.Throttle.CheckAllowed(key); !ok {
		metrics.LoginLockouts.Inc()
		return Session{}, &LockedOutError{RetryAfter: retry}
	}

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.Throttle.RecordFailure(key)
		metrics.FailedLogins.Inc()
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		s.Throttle.RecordFailure(key)
		metrics.FailedLogins.Inc()
		return Session{}, ErrInvalidCredentials
	}

	metrics.SuccessfulLogins.Inc()

	// The token issued here carries only the "pwd" method. When MFA is
	// active the response is flagged, but the token itself is usable; the
	// amr claim is what records the incomplete step.
	token, err := s.Tokens.Issue(user, []string{jwtx.AMRPassword})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{
		AccessToken: token,
		ExpiresIn:   s.Tokens.TTLSeconds(),
		MFARequired: user.MFAActive(),
		User:        user,
	}, nil
}

// VerifyMFA checks a TOTP code for the authenticated user and, when valid,
// issues a fully authenticated token.
func (s *AuthService) VerifyMFA(ctx context.Context, userID, code string) (Session, error) {
	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidMFACode
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.MFAActive() || !s.TOTP.VerifyCode(*user.MFASecret, code, time.Now()) {
		return Session{}, ErrInvalidMFACode
	}

	token, err := s.Tokens.Issue(user, []string{jwtx.AMRPassword, jwtx.AMROTP, jwtx.AMRMFA})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{
		AccessToken: token,
		ExpiresIn:   s.Tokens.TTLSeconds(),
		User:        user,
	}, nil
}

// Profile returns the authenticated user's record.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetByID(ctx, userID)
}

// ChangeEmail updates the email address after re-verifying the password.
func (s *AuthService) ChangeEmail(ctx context.Context, userID, newEmail, password string) error {
	fields := make(map[string]string)
	validateEmail("new_email", newEmail, fields)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return ErrWrongPassword
	}

	err = s.Store.Users().UpdateEmail(ctx, userID, strings.TrimSpace(newEmail))
	if errors.Is(err, store.ErrAlreadyExists) {
		return &ValidationError{Fields: map[string]string{
			"new_email": "has already been taken",
		}}
	}
	return err
}

// ChangePassword rotates the password after re-verifying the current one.
// The new password must meet the registration policy.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword, confirmation string) error {
	fields := make(map[string]string)
	validatePassword("new_password", newPassword, confirmation, fields)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
		return ErrWrongPassword
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
}
