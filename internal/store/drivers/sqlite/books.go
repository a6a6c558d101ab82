package sqlite

import (
	"context"

	"github.com/bookvault/server/internal/domain"
)

type booksRepo struct {
	q querier
}

func (r *booksRepo) Create(ctx context.Context, b domain.Book) error {
	createdAt, updatedAt := timestampsOrNow(b.CreatedAt, b.UpdatedAt)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO books (id, user_id, title, secret, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Title, b.Secret, createdAt, updatedAt)
	return err
}

// List intentionally omits the secret column; it is only readable through
// GetByID after an ownership check.
func (r *booksRepo) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at
		 FROM books ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *booksRepo) GetByID(ctx context.Context, id string) (domain.Book, error) {
	var b domain.Book
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, title, secret, created_at, updated_at
		 FROM books WHERE id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.Title, &b.Secret, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.Book{}, mapNotFound(err)
	}
	return b, nil
}

func (r *booksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
