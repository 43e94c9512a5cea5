package domain

import (
	"context"
	"time"
)

// Book is a catalog entry. AvailableCopies is kept in step with active loans
// by the loan workflow only; the store itself does not enforce
// 0 <= AvailableCopies <= TotalCopies.
type Book struct {
	ID              int64     `db:"id"`
	ISBN            *string   `db:"isbn"`
	Title           string    `db:"title"`
	Author          string    `db:"author"`
	Category        *string   `db:"category"`
	TotalCopies     int       `db:"total_copies"`
	AvailableCopies int       `db:"available_copies"`
	Description     *string   `db:"description"`
	CreatedAt       time.Time `db:"created_at"`
}

// NewBook returns a book with the catalog defaults applied: no ISBN and a
// single copy that is available.
func NewBook(title, author string) *Book {
	return &Book{
		Title:           title,
		Author:          author,
		TotalCopies:     1,
		AvailableCopies: 1,
	}
}

// BookFilter narrows a catalog listing. Zero values disable a criterion.
type BookFilter struct {
	Search        string
	Category      string
	AvailableOnly bool
}

// BookRepository defines persistence operations for books.
type BookRepository interface {
	List(ctx context.Context, filter BookFilter) ([]Book, error)
	GetByID(ctx context.Context, id int64) (*Book, error)
	Create(ctx context.Context, book *Book) error
	Update(ctx context.Context, id int64, patch BookPatch) (*Book, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
