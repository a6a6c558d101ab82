package service

import (
	"context"
	"testing"
	"time"

	"github.com/bookvault/server/internal/domain"
	"github.com/bookvault/server/internal/store"
	"github.com/bookvault/server/pkg/jwtx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	return &AuthService{
		Store:    newTestStore(t),
		Tokens:   newTestTokens(t, time.Hour),
		TOTP:     &TOTPEngine{Issuer: "bookvault-test"},
		Throttle: NewLoginThrottle(5, 300*time.Second),
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	t.Run("creates account with usable token", func(t *testing.T) {
		session, err := svc.Register(ctx, "Alice", "alice@example.com", "Passw0rd!", "Passw0rd!")
		require.NoError(t, err)
		require.NotEmpty(t, session.AccessToken)
		require.False(t, session.MFARequired)
		require.Equal(t, domain.RoleUser, session.User.Role)
		require.NotEqual(t, "Passw0rd!", session.User.PasswordHash, "password stored hashed")

		claims, err := svc.Tokens.Verify(session.AccessToken)
		require.NoError(t, err)
		require.Equal(t, session.User.ID, claims.Subject)
		require.Equal(t, []string{jwtx.AMRPassword}, claims.AMR)
	})

	t.Run("rejects duplicate email case-insensitively", func(t *testing.T) {
		_, err := svc.Register(ctx, "Other", "ALICE@example.com", "Passw0rd!", "Passw0rd!")

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields, "email")
	})

	t.Run("rejects weak password with field errors", func(t *testing.T) {
		_, err := svc.Register(ctx, "Bob", "bob@example.com", "password", "password")

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields, "password")
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "Passw0rd!", "Passw0rd!")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		session, err := svc.Login(ctx, "alice@example.com", "Passw0rd!", "1.2.3.4")
		require.NoError(t, err)
		require.NotEmpty(t, session.AccessToken)
		require.False(t, session.MFARequired)
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, "ALICE@Example.Com", "Passw0rd!", "1.2.3.4")
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, errWrong := svc.Login(ctx, "alice@example.com", "Wrong1!aa", "1.2.3.4")
		_, errUnknown := svc.Login(ctx, "nobody@example.com", "Passw0rd!", "1.2.3.4")

		require.ErrorIs(t, errWrong, ErrInvalidCredentials)
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	})
}

func TestAuthService_LoginLockout(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "Passw0rd!", "Passw0rd!")
	require.NoError(t, err)

	for range 5 {
		_, err := svc.Login(ctx, "alice@example.com", "Wrong1!aa", "9.9.9.9")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	t.Run("sixth attempt is locked even with the right password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "Passw0rd!", "9.9.9.9")

		var lockErr *LockedOutError
		require.ErrorAs(t, err, &lockErr)
		require.Greater(t, lockErr.RetryAfter, time.Duration(0))
	})

	t.Run("other address is unaffected", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "Passw0rd!", "8.8.8.8")
		require.NoError(t, err)
	})
}

func TestAuthService_MFAFlow(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	mfaSvc := &MFAService{Store: svc.Store, TOTP: svc.TOTP}
	ctx := context.Background()

	session, err := svc.Register(ctx, "Alice", "alice@example.com", "Passw0rd!", "Passw0rd!")
	require.NoError(t, err)
	userID := session.User.ID

	uri, err := mfaSvc.EnableMFA(ctx, userID)
	require.NoError(t, err)
	require.Contains(t, uri, "otpauth://totp/")

	user, err := svc.Store.Users().GetByID(ctx, userID)
	require.NoError(t, err)
	require.True(t, user.MFAActive())

	t.Run("login now requires mfa and issues a pre-mfa token", func(t *testing.T) {
		session, err := svc.Login(ctx, "alice@example.com", "Passw0rd!", "1.2.3.4")
		require.NoError(t, err)
		require.True(t, session.MFARequired)

		claims, err := svc.Tokens.Verify(session.AccessToken)
		require.NoError(t, err)
		require.Equal(t, []string{jwtx.AMRPassword}, claims.AMR,
			"pre-mfa token carries only the password method")
	})

	t.Run("correct code upgrades the session", func(t *testing.T) {
		code, err := totp.GenerateCode(*user.MFASecret, time.Now())
		require.NoError(t, err)

		session, err := svc.VerifyMFA(ctx, userID, code)
		require.NoError(t, err)

		claims, err := svc.Tokens.Verify(session.AccessToken)
		require.NoError(t, err)
		require.Equal(t, []string{jwtx.AMRPassword, jwtx.AMROTP, jwtx.AMRMFA}, claims.AMR)
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		_, err := svc.VerifyMFA(ctx, userID, "000000")
		require.ErrorIs(t, err, ErrInvalidMFACode)
	})

	t.Run("user without mfa cannot verify", func(t *testing.T) {
		other, err := svc.Register(ctx, "Bob", "bob@example.com", "Passw0rd!", "Passw0rd!")
		require.NoError(t, err)

		_, err = svc.VerifyMFA(ctx, other.User.ID, "123456")
		require.ErrorIs(t, err, ErrInvalidMFACode)
	})
}

func TestAuthService_ChangeEmail(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Alice", "alice@example.com", "Passw0rd!", "Passw0rd!")
	require.NoError(t, err)
	userID := session.User.ID

	t.Run("requires the current password", func(t *testing.T) {
		err := svc.ChangeEmail(ctx, userID, "new@example.com", "Wrong1!aa")
		require.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("updates the address", func(t *testing.T) {
		require.NoError(t, svc.ChangeEmail(ctx, userID, "new@example.com", "Passw0rd!"))

		_, err := svc.Store.Users().GetByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		_, err = svc.Store.Users().GetByEmail(ctx, "alice@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rejects a taken address", func(t *testing.T) {
		_, err := svc.Register(ctx, "Bob", "bob@example.com", "Passw0rd!", "Passw0rd!")
		require.NoError(t, err)

		err = svc.ChangeEmail(ctx, userID, "bob@example.com", "Passw0rd!")

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields, "new_email")
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Alice", "alice@example.com", "Passw0rd!", "Passw0rd!")
	require.NoError(t, err)
	userID := session.User.ID

	t.Run("requires the current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, userID, "Wrong1!aa", "NewPass1!", "NewPass1!")
		require.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("new password must meet policy", func(t *testing.T) {
		err := svc.ChangePassword(ctx, userID, "Passw0rd!", "weak", "weak")

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields, "new_password")
	})

	t.Run("rotates the password", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, userID, "Passw0rd!", "NewPass1!", "NewPass1!"))

		_, err := svc.Login(ctx, "alice@example.com", "NewPass1!", "1.2.3.4")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "alice@example.com", "Passw0rd!", "1.2.3.4")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
