package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"

	"github.com/msomdec/library-catalog/internal/domain"
)

const (
	dialectSQLite = "sqlite3"
	tableBooks    = "books"

	colID              = "id"
	colISBN            = "isbn"
	colTitle           = "title"
	colAuthor          = "author"
	colCategory        = "category"
	colTotalCopies     = "total_copies"
	colAvailableCopies = "available_copies"
	colDescription     = "description"
	colCreatedAt       = "created_at"
)

var bookColumns = []any{
	colID, colISBN, colTitle, colAuthor, colCategory,
	colTotalCopies, colAvailableCopies, colDescription, colCreatedAt,
}

// bookRepo implements domain.BookRepository using SQLite.
type bookRepo struct {
	db *sqlx.DB
}

// List returns the books matching filter ordered by title. Search is a
// substring match on title, author or ISBN, case-insensitive across Unicode.
func (r *bookRepo) List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	query, args, err := buildBookListQuery(filter)
	if err != nil {
		return nil, err
	}

	books := []domain.Book{}
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func buildBookListQuery(filter domain.BookFilter) (string, []any, error) {
	stmt := goqu.Dialect(dialectSQLite).
		From(tableBooks).
		Select(bookColumns...).
		Order(goqu.I(colTitle).Asc(), goqu.I(colID).Asc()).
		Prepared(true)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		stmt = stmt.Where(goqu.Or(
			goqu.Func(fnUnicodeLower, goqu.C(colTitle)).Like(pattern),
			goqu.Func(fnUnicodeLower, goqu.C(colAuthor)).Like(pattern),
			goqu.Func(fnUnicodeLower, goqu.C(colISBN)).Like(pattern),
		))
	}
	if filter.Category != "" {
		stmt = stmt.Where(goqu.C(colCategory).Eq(filter.Category))
	}
	if filter.AvailableOnly {
		stmt = stmt.Where(goqu.C(colAvailableCopies).Gt(0))
	}

	query, args, err := stmt.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build book list query: %w", err)
	}
	return query, args, nil
}

func (r *bookRepo) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	return getBook(ctx, r.db, id)
}

func getBook(ctx context.Context, q sqlx.QueryerContext, id int64) (*domain.Book, error) {
	query, args, err := goqu.Dialect(dialectSQLite).
		From(tableBooks).
		Select(bookColumns...).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build book query: %w", err)
	}

	var book domain.Book
	if err := sqlx.GetContext(ctx, q, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

func (r *bookRepo) Create(ctx context.Context, book *domain.Book) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO books (isbn, title, author, category, total_copies, available_copies, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ISBN, book.Title, book.Author, book.Category,
		book.TotalCopies, book.AvailableCopies, book.Description, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateISBN
		}
		return fmt.Errorf("insert book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	book.ID = id
	book.CreatedAt = now
	return nil
}

// Update writes only the fields present in patch and returns the stored
// result. Values are passed through as given; available_copies is not
// clamped to total_copies.
func (r *bookRepo) Update(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}

	query, args, err := goqu.Dialect(dialectSQLite).
		Update(tableBooks).
		Set(goqu.Record(cols)).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build book update: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, domain.ErrDuplicateISBN
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return nil, domain.ErrNotFound
	}

	book, err := getBook(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return book, nil
}

// Delete removes the book row. Loans that reference it are left in place.
func (r *bookRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM books"); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
