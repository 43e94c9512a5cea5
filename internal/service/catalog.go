package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/library-catalog/internal/domain"
)

// CatalogService handles book catalog operations.
type CatalogService struct {
	books domain.BookRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(books domain.BookRepository) *CatalogService {
	return &CatalogService{books: books}
}

// CreateBookInput is the data accepted by Create. Nil pointers take the
// catalog defaults.
type CreateBookInput struct {
	ISBN            *string
	Title           string
	Author          string
	Category        *string
	TotalCopies     *int
	AvailableCopies *int
	Description     *string
}

// List returns the books matching filter, ordered by title.
func (s *CatalogService) List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.books.List(ctx, filter)
}

// Get returns a single book.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Book, error) {
	return s.books.GetByID(ctx, id)
}

// Create adds a book to the catalog. Admin only.
func (s *CatalogService) Create(ctx context.Context, caller domain.Principal, in CreateBookInput) (*domain.Book, error) {
	if err := domain.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrInvalidInput)
	}

	book := domain.NewBook(in.Title, in.Author)
	if in.ISBN != nil && *in.ISBN != "" {
		book.ISBN = in.ISBN
	}
	book.Category = in.Category
	book.Description = in.Description
	if in.TotalCopies != nil {
		book.TotalCopies = *in.TotalCopies
	}
	if in.AvailableCopies != nil {
		book.AvailableCopies = *in.AvailableCopies
	}
	if book.TotalCopies < 0 || book.AvailableCopies < 0 {
		return nil, fmt.Errorf("%w: copies must not be negative", domain.ErrInvalidInput)
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// Update applies a partial update. Admin only. A missing book is reported
// before an empty patch.
func (s *CatalogService) Update(ctx context.Context, caller domain.Principal, id int64, patch domain.BookPatch) (*domain.Book, error) {
	if err := domain.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if _, err := s.books.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	book, err := s.books.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// Delete removes a book. Admin only. Outstanding loans are not checked.
func (s *CatalogService) Delete(ctx context.Context, caller domain.Principal, id int64) error {
	if err := domain.RequireAdmin(caller); err != nil {
		return err
	}
	return s.books.Delete(ctx, id)
}

// SeedSampleBooks fills an empty catalog with a starter set. It does nothing
// once any book exists.
func (s *CatalogService) SeedSampleBooks(ctx context.Context) error {
	n, err := s.books.Count(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, sample := range sampleBooks {
		book := sample
		if err := s.books.Create(ctx, &book); err != nil {
			return fmt.Errorf("seed book %q: %w", sample.Title, err)
		}
	}
	slog.Info("sample books added", "count", len(sampleBooks))
	return nil
}

func ptr[T any](v T) *T { return &v }

var sampleBooks = []domain.Book{
	{ISBN: ptr("978-0-13-468599-1"), Title: "Clean Code", Author: "Robert C. Martin", Category: ptr("Programming"), TotalCopies: 3, AvailableCopies: 3, Description: ptr("A handbook of agile software craftsmanship")},
	{ISBN: ptr("978-0-201-63361-0"), Title: "Design Patterns", Author: "Gang of Four", Category: ptr("Programming"), TotalCopies: 2, AvailableCopies: 2, Description: ptr("Elements of reusable object-oriented software")},
	{ISBN: ptr("978-0-13-235088-4"), Title: "Clean Architecture", Author: "Robert C. Martin", Category: ptr("Programming"), TotalCopies: 2, AvailableCopies: 2, Description: ptr("A craftsman's guide to software structure")},
	{ISBN: ptr("978-0-7356-6745-7"), Title: "The Pragmatic Programmer", Author: "David Thomas", Category: ptr("Programming"), TotalCopies: 3, AvailableCopies: 3, Description: ptr("Your journey to mastery")},
	{ISBN: ptr("978-1-59327-928-8"), Title: "Python Crash Course", Author: "Eric Matthes", Category: ptr("Programming"), TotalCopies: 4, AvailableCopies: 4, Description: ptr("A hands-on introduction to programming")},
}
