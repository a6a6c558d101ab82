package service

import (
	"context"
	"strings"
	"testing"

	"github.com/bookvault/server/internal/domain"
	"github.com/bookvault/server/internal/store"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, st store.Store, email string, role domain.Role) domain.User {
	t.Helper()

	ctx := context.Background()
	user := domain.User{
		ID:           "user-" + email,
		Name:         email,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		Role:         role,
	}
	require.NoError(t, st.Users().Create(ctx, user))
	return user
}

func TestBookService_Create(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &BookService{Store: st}
	owner := seedUser(t, st, "owner@example.com", domain.RoleUser)
	ctx := context.Background()

	t.Run("stores the book", func(t *testing.T) {
		book, err := svc.Create(ctx, owner.ID, "My Diary", "hidden text")
		require.NoError(t, err)
		require.NotEmpty(t, book.ID)
		require.Equal(t, owner.ID, book.UserID)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := svc.Create(ctx, owner.ID, "  ", "s")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields, "title")

		_, err = svc.Create(ctx, owner.ID, "Title", "")
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields, "secret")
	})

	t.Run("rejects oversized title", func(t *testing.T) {
		_, err := svc.Create(ctx, owner.ID, strings.Repeat("x", 256), "s")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields, "title")
	})
}

func TestBookService_ListOmitsSecrets(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &BookService{Store: st}
	owner := seedUser(t, st, "owner@example.com", domain.RoleUser)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.ID, "A", "secret-a")
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, "B", "secret-b")
	require.NoError(t, err)

	books, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	for _, b := range books {
		require.Empty(t, b.Secret, "listing never exposes secrets")
	}
}

func TestBookService_Get(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &BookService{Store: st}
	owner := seedUser(t, st, "owner@example.com", domain.RoleUser)
	other := seedUser(t, st, "other@example.com", domain.RoleUser)
	admin := seedUser(t, st, "admin@example.com", domain.RoleAdmin)
	ctx := context.Background()

	book, err := svc.Create(ctx, owner.ID, "My Diary", "hidden text")
	require.NoError(t, err)

	t.Run("owner reads the secret", func(t *testing.T) {
		got, err := svc.Get(ctx, book.ID, owner.ID, domain.RoleUser)
		require.NoError(t, err)
		require.Equal(t, "hidden text", got.Secret)
	})

	t.Run("admin reads any book", func(t *testing.T) {
		got, err := svc.Get(ctx, book.ID, admin.ID, domain.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, "hidden text", got.Secret)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, book.ID, other.ID, domain.RoleUser)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing book is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, "missing", owner.ID, domain.RoleUser)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestBookService_Delete(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &BookService{Store: st}
	owner := seedUser(t, st, "owner@example.com", domain.RoleUser)
	ctx := context.Background()

	book, err := svc.Create(ctx, owner.ID, "My Diary", "hidden text")
	require.NoError(t, err)

	t.Run("owner without admin role cannot delete", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, book.ID, domain.RoleUser), ErrForbidden)
	})

	t.Run("admin deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, book.ID, domain.RoleAdmin))

		_, err := st.Books().GetByID(ctx, book.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("missing book is not found", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, "missing", domain.RoleAdmin), store.ErrNotFound)
	})
}
