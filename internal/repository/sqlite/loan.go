package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/msomdec/library-catalog/internal/domain"
)

const loanColumns = `l.id, l.user_id, l.book_id, l.borrow_date, l.due_date, l.return_date, l.status`

// loanRepo implements domain.LoanRepository using SQLite.
type loanRepo struct {
	db *sqlx.DB
}

// Borrow checks out one copy of bookID to userID. The availability check,
// the active-loan check, the copy decrement and the loan insert share one
// immediate transaction, so two concurrent borrows of the last copy cannot
// both succeed.
func (r *loanRepo) Borrow(ctx context.Context, userID, bookID int64, now time.Time) (*domain.LoanView, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var available int
	err = tx.GetContext(ctx, &available, `SELECT available_copies FROM books WHERE id = ?`, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get book availability: %w", err)
	}
	if available <= 0 {
		return nil, domain.ErrNotAvailable
	}

	var active int
	if err := tx.GetContext(ctx, &active,
		`SELECT COUNT(*) FROM loans WHERE user_id = ? AND book_id = ? AND status = ?`,
		userID, bookID, domain.LoanStatusActive,
	); err != nil {
		return nil, fmt.Errorf("check active loan: %w", err)
	}
	if active > 0 {
		return nil, domain.ErrAlreadyBorrowed
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE books SET available_copies = available_copies - 1 WHERE id = ? AND available_copies > 0`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("decrement available copies: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return nil, domain.ErrNotAvailable
	}

	now = now.UTC()
	result, err = tx.ExecContext(ctx,
		`INSERT INTO loans (user_id, book_id, borrow_date, due_date, status) VALUES (?, ?, ?, ?, ?)`,
		userID, bookID, now, now.Add(domain.LoanPeriod), domain.LoanStatusActive,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, domain.ErrAlreadyBorrowed
		}
		return nil, fmt.Errorf("insert loan: %w", err)
	}
	loanID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get loan id: %w", err)
	}

	var view domain.LoanView
	if err := tx.GetContext(ctx, &view,
		`SELECT `+loanColumns+`, b.title, b.author
		 FROM loans l JOIN books b ON l.book_id = b.id
		 WHERE l.id = ?`, loanID,
	); err != nil {
		return nil, fmt.Errorf("load loan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &view, nil
}

// Return closes an active loan and gives its copy back to the book. Only the
// borrower or an admin may return a loan.
func (r *loanRepo) Return(ctx context.Context, loanID int64, caller domain.Principal, now time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	loan, err := getLoan(ctx, tx, loanID)
	if err != nil {
		return err
	}
	if loan.UserID != caller.UserID && !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if loan.Status == domain.LoanStatusReturned {
		return domain.ErrAlreadyReturned
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE loans SET return_date = ?, status = ? WHERE id = ? AND status = ?`,
		now.UTC(), domain.LoanStatusReturned, loanID, domain.LoanStatusActive,
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAlreadyReturned
	}

	// The book may have been deleted since; a missing row is not an error.
	if _, err := tx.ExecContext(ctx,
		`UPDATE books SET available_copies = available_copies + 1 WHERE id = ?`, loan.BookID,
	); err != nil {
		return fmt.Errorf("increment available copies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *loanRepo) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	return getLoan(ctx, r.db, id)
}

func getLoan(ctx context.Context, q sqlx.QueryerContext, id int64) (*domain.Loan, error) {
	var loan domain.Loan
	err := sqlx.GetContext(ctx, q, &loan,
		`SELECT `+loanColumns+` FROM loans l WHERE l.id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return &loan, nil
}

// ListAll returns every loan with book and borrower fields, newest first.
func (r *loanRepo) ListAll(ctx context.Context) ([]domain.LoanView, error) {
	loans := []domain.LoanView{}
	if err := r.db.SelectContext(ctx, &loans,
		`SELECT `+loanColumns+`, b.title, b.author, u.email, u.full_name
		 FROM loans l
		 JOIN books b ON l.book_id = b.id
		 JOIN users u ON l.user_id = u.id
		 ORDER BY l.borrow_date DESC, l.id DESC`,
	); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// ListByUser returns the loans of one user with book fields, newest first.
func (r *loanRepo) ListByUser(ctx context.Context, userID int64) ([]domain.LoanView, error) {
	loans := []domain.LoanView{}
	if err := r.db.SelectContext(ctx, &loans,
		`SELECT `+loanColumns+`, b.title, b.author
		 FROM loans l
		 JOIN books b ON l.book_id = b.id
		 WHERE l.user_id = ?
		 ORDER BY l.borrow_date DESC, l.id DESC`, userID,
	); err != nil {
		return nil, fmt.Errorf("list user loans: %w", err)
	}
	return loans, nil
}
