package service

import (
	"testing"
	"time"

	"github.com/bookvault/server/internal/domain"
	"github.com/bookvault/server/pkg/cryptox"
	"github.com/bookvault/server/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSigner(pemKey)
	require.NoError(t, err)

	return &TokenService{
		Signer:   signer,
		Verifier: jwtx.NewVerifier(signer.PublicKey(), "test-issuer"),
		Issuer:   "test-issuer",
		TTL:      ttl,
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, time.Hour)
	user := domain.User{ID: "user-1", Role: domain.RoleAdmin}

	raw, err := tokens.Issue(user, []string{jwtx.AMRPassword})
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, []string{jwtx.AMRPassword}, claims.AMR)
}

func TestTokenService_Refresh(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, time.Hour)
	user := domain.User{ID: "user-1", Role: domain.RoleUser}

	raw, err := tokens.Issue(user, []string{jwtx.AMRPassword, jwtx.AMROTP, jwtx.AMRMFA})
	require.NoError(t, err)

	refreshed, err := tokens.Refresh(raw)
	require.NoError(t, err)
	require.NotEqual(t, raw, refreshed)

	claims, err := tokens.Verify(refreshed)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, []string{jwtx.AMRPassword, jwtx.AMROTP, jwtx.AMRMFA}, claims.AMR,
		"authentication methods carry over on refresh")
}

func TestTokenService_RefreshRejectsInvalid(t *testing.T) {
	t.Parallel()

	t.Run("malformed token", func(t *testing.T) {
		tokens := newTestTokens(t, time.Hour)
		_, err := tokens.Refresh("garbage")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("expired token", func(t *testing.T) {
		tokens := newTestTokens(t, -time.Hour)
		raw, err := tokens.Issue(domain.User{ID: "user-1"}, nil)
		require.NoError(t, err)

		_, err = tokens.Refresh(raw)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})
}

func TestTokenService_TTLSeconds(t *testing.T) {
	t.Parallel()

	require.Equal(t, 3600, newTestTokens(t, time.Hour).TTLSeconds())
	require.Equal(t, 300, newTestTokens(t, 5*time.Minute).TTLSeconds())
}
