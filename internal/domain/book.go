package domain

import "time"

// Book is a per-user resource with a secret field only its owner (or an
// admin) may read.
type Book struct {
	ID        string
	UserID    string // owner
	Title     string
	Secret    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
