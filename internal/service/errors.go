package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidMFACode is returned for a bad, malformed or unverifiable
	// one-time code. Missing MFA state fails closed into this error too.
	ErrInvalidMFACode = errors.New("invalid MFA code")

	// ErrWrongPassword is returned when the re-entered current password on
	// an account mutation does not match.
	ErrWrongPassword = errors.New("current password does not match")

	// ErrForbidden is returned for ownership and role violations.
	ErrForbidden = errors.New("forbidden")
)

// LockedOutError reports a login rejected by the brute-force throttle.
type LockedOutError struct {
	RetryAfter time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("account locked, retry in %s", e.RetryAfter)
}

// ValidationError carries field-level validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}
