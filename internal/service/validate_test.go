package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"meets policy", "Passw0rd!", true},
		{"common word", "password", false},
		{"too short", "Pw0rd!", false},
		{"missing upper", "passw0rd!", false},
		{"missing lower", "PASSW0RD!", false},
		{"missing digit", "Password!", false},
		{"missing special", "Passw0rdX", false},
		{"special outside class", "Passw0rd#", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := make(map[string]string)
			validatePassword("password", tt.password, tt.password, fields)
			if tt.valid {
				require.Empty(t, fields)
			} else {
				require.Contains(t, fields, "password")
			}
		})
	}

	t.Run("confirmation mismatch", func(t *testing.T) {
		fields := make(map[string]string)
		validatePassword("password", "Passw0rd!", "Different1!", fields)
		require.Contains(t, fields, "password_confirmation")
	})
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"plain address", "user@example.com", true},
		{"subaddress", "user+tag@example.com", true},
		{"empty", "", false},
		{"no domain", "user@", false},
		{"no at sign", "userexample.com", false},
		{"display name form", "User <user@example.com>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := make(map[string]string)
			validateEmail("email", tt.email, fields)
			if tt.valid {
				require.Empty(t, fields)
			} else {
				require.Contains(t, fields, "email")
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	fields := make(map[string]string)
	validateName("Alice", fields)
	require.Empty(t, fields)

	fields = make(map[string]string)
	validateName("   ", fields)
	require.Contains(t, fields, "name")
}
