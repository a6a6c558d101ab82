package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bookvault/server/internal/domain"
	"github.com/bookvault/server/internal/store"
	"github.com/bookvault/server/pkg/idx"
)

const maxTitleLength = 255

// BookService manages the per-user book records. Listing is global but reads
// no secrets; fetching a single book (with its secret) is owner-or-admin;
// deletion is admin only.
type BookService struct {
	Store store.Store
}

// Create stores a new book owned by userID.
func (s *BookService) Create(ctx context.Context, userID, title, secret string) (domain.Book, error) {
	fields := make(map[string]string)
	title = strings.TrimSpace(title)
	if title == "" {
		fields["title"] = "is required"
	} else if len(title) > maxTitleLength {
		fields["title"] = "must be at most 255 characters"
	}
	if secret == "" {
		fields["secret"] = "is required"
	}
	if len(fields) > 0 {
		return domain.Book{}, &ValidationError{Fields: fields}
	}

	now := time.Now().UTC()
	book := domain.Book{
		ID:        idx.New().String(),
		UserID:    userID,
		Title:     title,
		Secret:    secret,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Books().Create(ctx, book); err != nil {
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// List returns every book with secrets omitted.
func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	return s.Store.Books().List(ctx)
}

// Get returns a single book including its secret. Only the owner or an admin
// may read it.
func (s *BookService) Get(ctx context.Context, id, requesterID string, role domain.Role) (domain.Book, error) {
	book, err := s.Store.Books().GetByID(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	if book.UserID != requesterID && role != domain.RoleAdmin {
		return domain.Book{}, ErrForbidden
	}
	return book, nil
}

// Delete removes a book. Admin only, regardless of ownership.
func (s *BookService) Delete(ctx context.Context, id string, role domain.Role) error {
	if role != domain.RoleAdmin {
		return ErrForbidden
	}
	return s.Store.Books().Delete(ctx, id)
}
