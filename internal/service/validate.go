package service

import (
	"net/mail"
	"strings"
	"unicode"
)

const (
	minPasswordLength = 8
	maxNameLength     = 255

	// Special characters accepted by the password policy.
	passwordSpecials = "@$!%*?&"
)

// validatePassword enforces the password policy: at least 8 characters with
// an upper-case letter, a lower-case letter, a digit and a special character.
// Returns field messages keyed by the given field name.
func validatePassword(field, password, confirmation string, fields map[string]string) {
	if len(password) < minPasswordLength {
		fields[field] = "must be at least 8 characters"
		return
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		fields[field] = "must contain an upper-case letter, a lower-case letter, a digit and one of " + passwordSpecials
		return
	}

	if password != confirmation {
		fields[field+"_confirmation"] = "passwords do not match"
	}
}

// validateEmail checks basic address shape. Uniqueness is enforced at the
// store.
func validateEmail(field, email string, fields map[string]string) {
	email = strings.TrimSpace(email)
	if email == "" {
		fields[field] = "is required"
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		fields[field] = "must be a valid email address"
	}
}

func validateName(name string, fields map[string]string) {
	name = strings.TrimSpace(name)
	if name == "" {
		fields["name"] = "is required"
		return
	}
	if len(name) > maxNameLength {
		fields["name"] = "must be at most 255 characters"
	}
}
