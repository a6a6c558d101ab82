package store

import (
	"context"
	"errors"

	"github.com/bookvault/server/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Books() Books

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetByID returns a user by id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByEmail looks a user up by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u domain.User) error

	// UpdateEmail changes the email and bumps updated_at.
	// Returns ErrAlreadyExists when the new email is taken.
	UpdateEmail(ctx context.Context, userID, email string) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// UpdateRole changes the user's role. Roles are assigned operationally,
	// never via client input.
	UpdateRole(ctx context.Context, userID, role string) error

	// UpdateMFA stores the TOTP secret and marks MFA enabled in one write.
	UpdateMFA(ctx context.Context, userID, secret string) error
}

type Books interface {
	// Create inserts a new book owned by u.UserID.
	Create(ctx context.Context, b domain.Book) error

	// List returns every book with the secret field omitted.
	List(ctx context.Context) ([]domain.Book, error)

	// GetByID returns a single book including its secret. Ownership checks
	// belong to the service layer.
	GetByID(ctx context.Context, id string) (domain.Book, error)

	// Delete removes a book. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}
